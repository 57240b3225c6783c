package model

import (
	"gorm.io/datatypes"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskProgress  TaskStatus = "in_progress"
	TaskCompleted TaskStatus = "completed"
)

// QuizStatus 任务关联测验的状态
type QuizStatus string

const (
	QuizNotStarted QuizStatus = "not_started"
	QuizStarted    QuizStatus = "started"
	QuizDone       QuizStatus = "completed"
)

// StudyTask 一条计划中的学习会话，由生成服务批量创建
// swagger:model StudyTask
type StudyTask struct {
	BaseModel
	UserID             uint           `gorm:"index" json:"-"`
	Subject            string         `gorm:"size:255;not null" json:"subject"`
	Topic              string         `gorm:"size:255;not null" json:"topic"`
	Subtopic           string         `gorm:"size:255;not null" json:"subtopic"`
	Duration           string         `gorm:"size:50;not null" json:"duration"`   // 例如 "45 mins"
	Date               string         `gorm:"size:10;index;not null" json:"date"` // YYYY-MM-DD
	SessionType        string         `gorm:"size:50;not null" json:"sessionType"`
	AIExplanation      string         `gorm:"type:text" json:"aiExplanation"`
	Status             TaskStatus     `gorm:"size:20;default:'pending'" json:"status"`
	CompletedSubtopics datatypes.JSON `gorm:"type:json" json:"completedSubtopics,omitempty"` // 学习会话中覆盖的子部分标题
	QuizStatus         QuizStatus     `gorm:"size:20" json:"quizStatus,omitempty"`
}

func (StudyTask) TableName() string {
	return "study_tasks"
}
