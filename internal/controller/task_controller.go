package controller

import (
	"errors"
	"serenestudy_backend/internal/model"
	"serenestudy_backend/internal/repository"
	"serenestudy_backend/internal/service"
	"serenestudy_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TaskController 学习任务的查询、批量保存与进度更新
type TaskController struct {
	TaskRepo    *repository.StudyTaskRepository
	PlanService *service.PlanService
}

func NewTaskController(taskRepo *repository.StudyTaskRepository, planService *service.PlanService) *TaskController {
	return &TaskController{TaskRepo: taskRepo, PlanService: planService}
}

// SaveTasksRequest 批量任务保存请求模型
// swagger:model SaveTasksRequest
type SaveTasksRequest struct {
	Tasks []*model.StudyTask `json:"tasks" binding:"required"`
}

// UpdateProgressRequest 任务进度更新请求模型，只更新出现的字段
// swagger:model UpdateProgressRequest
type UpdateProgressRequest struct {
	Status             *model.TaskStatus `json:"status"`
	CompletedSubtopics []string          `json:"completedSubtopics"`
	QuizStatus         *model.QuizStatus `json:"quizStatus"`
	AIExplanation      *string           `json:"aiExplanation"`
}

// List godoc
// @Summary 获取全部学习任务
// @Description 按插入顺序返回当前用户的全部任务
// @Tags 任务
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/tasks [get]
func (c *TaskController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	tasks, err := c.TaskRepo.FindByUserID(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"tasks": tasks})
}

// Save godoc
// @Summary 批量保存任务
// @Description 客户端直接提交的任务批量写入
// @Tags 任务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SaveTasksRequest true "任务列表"
// @Success 201 {object} util.Response{data=map[string]interface{}} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/tasks [post]
func (c *TaskController) Save(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var request SaveTasksRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	tasks, err := c.PlanService.SaveTasks(claims.UserID, request.Tasks)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"tasks": tasks})
}

// UpdateProgress godoc
// @Summary 更新任务进度
// @Description 部分更新任务的状态、已完成子部分与测验状态；他人任务视为不存在
// @Tags 任务
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "任务ID"
// @Param request body UpdateProgressRequest true "进度更新请求"
// @Success 200 {object} util.Response{data=map[string]interface{}} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "任务不存在"
// @Router /api/tasks/{id}/progress [patch]
func (c *TaskController) UpdateProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	taskID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid task id")
		return
	}

	var request UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	fields := map[string]interface{}{}
	if request.Status != nil {
		fields["status"] = *request.Status
	}
	if request.CompletedSubtopics != nil {
		fields["completed_subtopics"] = util.MustJSON(request.CompletedSubtopics)
	}
	if request.QuizStatus != nil {
		fields["quiz_status"] = *request.QuizStatus
	}
	if request.AIExplanation != nil {
		fields["ai_explanation"] = *request.AIExplanation
	}

	task, err := c.TaskRepo.UpdateFields(claims.UserID, uint(taskID), fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"task": task})
}
