package controller

import (
	"serenestudy_backend/internal/service"
	"serenestudy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LearningController 学习内容与资源推荐
type LearningController struct {
	ContentService *service.ContentService
}

func NewLearningController(contentService *service.ContentService) *LearningController {
	return &LearningController{ContentService: contentService}
}

// ResourcesRequest 资源推荐请求模型
// swagger:model ResourcesRequest
type ResourcesRequest struct {
	Subject string `json:"subject" binding:"required"`
	Topic   string `json:"topic" binding:"required"`
}

// Content godoc
// @Summary 获取学习内容
// @Description 将主题拆解为子部分内容；复习类会话返回高收益速记内容，结果缓存 24 小时
// @Tags 学习内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ContentRequest true "学习内容请求"
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 502 {object} util.Response "生成服务失败"
// @Router /api/learning/content [post]
func (c *LearningController) Content(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var request service.ContentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	content, err := c.ContentService.LearningContent(ctx.Request.Context(), &request)
	if err != nil {
		respondGenerationError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"content": content})
}

// Resources godoc
// @Summary 推荐学习资源
// @Description 为主题推荐 3 条优质学习资源
// @Tags 学习内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ResourcesRequest true "资源推荐请求"
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 502 {object} util.Response "生成服务失败"
// @Router /api/resources [post]
func (c *LearningController) Resources(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var request ResourcesRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resources, err := c.ContentService.Resources(ctx.Request.Context(), request.Subject, request.Topic)
	if err != nil {
		respondGenerationError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"resources": resources})
}
