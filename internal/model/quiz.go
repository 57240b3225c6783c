package model

import (
	"gorm.io/datatypes"
)

// QuizAttempt 一次测验评估记录，保留弱项/稳定项供复习合并使用
// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	UserID          uint           `gorm:"index" json:"-"`
	Subject         string         `gorm:"size:255;not null" json:"subject"`
	Topic           string         `gorm:"size:255;not null" json:"topic"`
	Questions       datatypes.JSON `gorm:"type:json" json:"questions"`
	Responses       datatypes.JSON `gorm:"type:json" json:"responses"`
	WeakSubtopics   datatypes.JSON `gorm:"type:json" json:"weakSubtopics,omitempty"`
	StableSubtopics datatypes.JSON `gorm:"type:json" json:"stableSubtopics,omitempty"`
	Feedback        string         `gorm:"type:text" json:"feedback,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
