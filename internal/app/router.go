package app

import (
	"serenestudy_backend/docs"
	"serenestudy_backend/internal/config"
	"serenestudy_backend/internal/middleware"
	"serenestudy_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Health)
		public.POST("/auth/signup", c.auth.Signup)
		public.POST("/auth/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		// 用户资料
		authGroup.GET("/user/profile", c.user.GetProfile)
		authGroup.PUT("/user/profile", c.user.UpdateProfile)

		// 入学引导
		authGroup.POST("/onboarding", c.onboarding.Submit)
		authGroup.GET("/onboarding", c.onboarding.History)

		// 学习计划
		authGroup.POST("/study-plan/generate", c.studyPlan.Generate)
		authGroup.GET("/study-plan/active", c.studyPlan.Active)

		// 任务
		authGroup.GET("/tasks", c.task.List)
		authGroup.POST("/tasks", c.task.Save)
		authGroup.PATCH("/tasks/:id/progress", c.task.UpdateProgress)

		// 测验
		authGroup.POST("/quiz/generate", c.quiz.Generate)
		authGroup.POST("/quiz/evaluate", c.quiz.Evaluate)

		// 辅导对话（/explain 与 /chat 共用处理器）
		authGroup.POST("/chat", c.chat.Chat)
		authGroup.POST("/explain", c.chat.Chat)

		// 学习内容与资源
		authGroup.POST("/learning/content", c.learning.Content)
		authGroup.POST("/resources", c.learning.Resources)

		// 大纲文档
		authGroup.POST("/documents/upload", c.document.Upload)
		authGroup.GET("/documents", c.document.List)
	}
}
