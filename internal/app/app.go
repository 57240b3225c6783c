package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"serenestudy_backend/internal/config"
	"serenestudy_backend/internal/controller"
	"serenestudy_backend/internal/repository"
	"serenestudy_backend/internal/service"
	"serenestudy_backend/pkg/configwatcher"
	"serenestudy_backend/pkg/database"
	"serenestudy_backend/pkg/logger"
	"serenestudy_backend/pkg/monitoring"
	"serenestudy_backend/pkg/security"
	"serenestudy_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	onboarding *repository.OnboardingRepository
	task       *repository.StudyTaskRepository
	quiz       *repository.QuizRepository
	document   *repository.DocumentRepository
}

type services struct {
	auth    *service.AuthService
	user    *service.UserService
	storage *service.StorageService
	plan    *service.PlanService
	quiz    *service.QuizService
	chat    *service.ChatService
	content *service.ContentService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	onboarding *controller.OnboardingController
	studyPlan  *controller.StudyPlanController
	task       *controller.TaskController
	quiz       *controller.QuizController
	chat       *controller.ChatController
	learning   *controller.LearningController
	document   *controller.DocumentController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		onboarding: repository.NewOnboardingRepository(db),
		task:       repository.NewStudyTaskRepository(db),
		quiz:       repository.NewQuizRepository(db),
		document:   repository.NewDocumentRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	aiClient := service.NewAIService(cfg.AI)

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.plan = service.NewPlanService(repos.onboarding, repos.task, aiClient)
	s.quiz = service.NewQuizService(repos.quiz, s.plan, aiClient)
	s.chat = service.NewChatService(aiClient)
	s.content = service.NewContentService(aiClient, rdb)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user),
		onboarding: controller.NewOnboardingController(s.plan),
		studyPlan:  controller.NewStudyPlanController(s.plan),
		task:       controller.NewTaskController(repos.task, s.plan),
		quiz:       controller.NewQuizController(s.quiz),
		chat:       controller.NewChatController(s.chat),
		learning:   controller.NewLearningController(s.content),
		document:   controller.NewDocumentController(s.storage, repos.document),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, repos, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("serene-study", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
		router.Static("/api/uploads", cfg.Storage.LocalPath)
	}

	// 配置热更新：变更时触发已注册的回调
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(reloaded interface{}) {
		newCfg, ok := reloaded.(*config.Config)
		if !ok {
			return
		}
		for _, callback := range app.configCallbacks {
			callback(newCfg)
		}
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
