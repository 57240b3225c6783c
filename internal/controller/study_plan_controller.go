package controller

import (
	"errors"
	"net/http"
	"serenestudy_backend/internal/service"
	"serenestudy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// StudyPlanController 计划生成与当前计划查询
type StudyPlanController struct {
	PlanService *service.PlanService
}

func NewStudyPlanController(planService *service.PlanService) *StudyPlanController {
	return &StudyPlanController{PlanService: planService}
}

// respondGenerationError 将生成链路的失败映射为响应：模型侧失败返回 502，
// 其余视为服务内部错误
func respondGenerationError(ctx *gin.Context, err error) {
	var aiErr *util.AIError
	var schemaErr *util.SchemaError
	switch {
	case errors.As(err, &aiErr), errors.As(err, &schemaErr), errors.Is(err, util.ErrEmptyTasks):
		util.Error(ctx, http.StatusBadGateway, "Failed to generate study plan: "+err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// Generate godoc
// @Summary 生成学习计划
// @Description 根据入学引导数据调用生成服务产出逐日任务计划并持久化
// @Tags 学习计划
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.PlanRequest true "计划生成请求"
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 502 {object} util.Response "生成服务失败"
// @Router /api/study-plan/generate [post]
func (c *StudyPlanController) Generate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var request service.PlanRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, tasks, err := c.PlanService.GeneratePlan(ctx.Request.Context(), claims.UserID, &request)
	if err != nil {
		respondGenerationError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"profile": profile,
		"tasks":   tasks,
	})
}

// Active godoc
// @Summary 获取当前计划
// @Description 返回最近一次引导档案及其按主题匹配到的任务集合
// @Tags 学习计划
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/study-plan/active [get]
func (c *StudyPlanController) Active(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, tasks, err := c.PlanService.ActivePlan(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"profile": profile,
		"tasks":   tasks,
	})
}
