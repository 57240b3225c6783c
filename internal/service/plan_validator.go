package service

import (
	"serenestudy_backend/internal/model"
	"serenestudy_backend/internal/util"
	"strings"
)

// GeneratedTask 模型必须为每个学习会话返回的线格式
type GeneratedTask struct {
	Subject       string `json:"subject"`
	Topic         string `json:"topic"`
	Subtopic      string `json:"subtopic"`
	Duration      string `json:"duration"`
	Date          string `json:"date"`
	SessionType   string `json:"sessionType"`
	AIExplanation string `json:"aiExplanation"`
	Status        string `json:"status"`
}

// validateGeneratedTasks 校验生成结果：非空数组，每个元素六个必填字段非空。
// 遇到第一个缺失字段立即失败并带上任务下标。
func validateGeneratedTasks(tasks []GeneratedTask) error {
	if len(tasks) == 0 {
		return util.ErrEmptyTasks
	}

	for i, task := range tasks {
		fields := []struct {
			name  string
			value string
		}{
			{"subject", task.Subject},
			{"topic", task.Topic},
			{"subtopic", task.Subtopic},
			{"duration", task.Duration},
			{"date", task.Date},
			{"sessionType", task.SessionType},
		}
		for _, f := range fields {
			if strings.TrimSpace(f.value) == "" {
				return &util.SchemaError{Field: f.name, Index: i}
			}
		}
	}

	return nil
}

// toStudyTasks 将校验过的生成结果转换为待持久化的任务记录
func toStudyTasks(tasks []GeneratedTask) []*model.StudyTask {
	out := make([]*model.StudyTask, 0, len(tasks))
	for _, t := range tasks {
		status := model.TaskStatus(strings.TrimSpace(t.Status))
		if status == "" {
			status = model.TaskPending
		}
		out = append(out, &model.StudyTask{
			Subject:       t.Subject,
			Topic:         t.Topic,
			Subtopic:      t.Subtopic,
			Duration:      t.Duration,
			Date:          t.Date,
			SessionType:   t.SessionType,
			AIExplanation: t.AIExplanation,
			Status:        status,
		})
	}
	return out
}
