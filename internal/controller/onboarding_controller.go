package controller

import (
	"serenestudy_backend/internal/service"
	"serenestudy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// OnboardingController 入学引导档案的提交与历史查询
type OnboardingController struct {
	PlanService *service.PlanService
}

func NewOnboardingController(planService *service.PlanService) *OnboardingController {
	return &OnboardingController{PlanService: planService}
}

// Submit godoc
// @Summary 提交入学引导数据
// @Description 保存一条引导档案；历史只追加，不覆盖
// @Tags 入学引导
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.PlanRequest true "引导数据"
// @Success 201 {object} util.Response{data=map[string]interface{}} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/onboarding [post]
func (c *OnboardingController) Submit(ctx *gin.Context) {
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

	profile, err := c.PlanService.SubmitOnboarding(claims.UserID, &request)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"profile": profile})
}

// History godoc
// @Summary 获取引导档案历史
// @Description 返回用户全部引导档案，最新在前
// @Tags 入学引导
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/onboarding [get]
func (c *OnboardingController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	profiles, err := c.PlanService.OnboardingHistory(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"profiles": profiles})
}
