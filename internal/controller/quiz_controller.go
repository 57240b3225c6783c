package controller

import (
	"encoding/json"
	"serenestudy_backend/internal/service"
	"serenestudy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// QuizController 测验生成与评估
type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// GenerateQuizRequest 测验生成请求模型
// swagger:model GenerateQuizRequest
type GenerateQuizRequest struct {
	Subject string `json:"subject" binding:"required"`
	Topic   string `json:"topic" binding:"required"`
}

// EvaluateQuizRequest 测验评估请求模型
// swagger:model EvaluateQuizRequest
type EvaluateQuizRequest struct {
	Subject   string          `json:"subject" binding:"required"`
	Topic     string          `json:"topic" binding:"required"`
	Questions json.RawMessage `json:"questions" binding:"required"`
	Responses json.RawMessage `json:"responses" binding:"required"`
	ExamDate  string          `json:"examDate"`
}

// Generate godoc
// @Summary 生成主题测验
// @Description 为指定主题生成 3 道选择题与 1 道简答诊断题
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GenerateQuizRequest true "测验生成请求"
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 502 {object} util.Response "生成服务失败"
// @Router /api/quiz/generate [post]
func (c *QuizController) Generate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var request GenerateQuizRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions, err := c.QuizService.Generate(ctx.Request.Context(), request.Subject, request.Topic)
	if err != nil {
		respondGenerationError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"questions": questions})
}

// Evaluate godoc
// @Summary 评估测验作答
// @Description 识别弱项与稳定项，生成次日复习任务并合并进计划
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EvaluateQuizRequest true "测验评估请求"
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 502 {object} util.Response "生成服务失败"
// @Router /api/quiz/evaluate [post]
func (c *QuizController) Evaluate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var request EvaluateQuizRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	evaluation, revisionTasks, err := c.QuizService.Evaluate(
		ctx.Request.Context(), claims.UserID,
		request.Subject, request.Topic,
		request.Questions, request.Responses, request.ExamDate)
	if err != nil {
		respondGenerationError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"evaluation":    evaluation,
		"revisionTasks": revisionTasks,
	})
}
