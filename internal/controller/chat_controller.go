package controller

import (
	"serenestudy_backend/internal/service"
	"serenestudy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ChatController 辅导对话与概念讲解
type ChatController struct {
	ChatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// ChatRequest 对话请求模型
// swagger:model ChatRequest
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Chat godoc
// @Summary 辅导对话
// @Description 以辅导者口吻回答学生消息，/api/explain 复用此接口
// @Tags 对话
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChatRequest true "对话请求"
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 502 {object} util.Response "生成服务失败"
// @Router /api/chat [post]
func (c *ChatController) Chat(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var request ChatRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reply, err := c.ChatService.Respond(ctx.Request.Context(), claims.UserID, request.Message)
	if err != nil {
		respondGenerationError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"reply": reply})
}
