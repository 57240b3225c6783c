package model

import (
	"gorm.io/datatypes"
)

// StudyMode 学习模式：备考 或 技能提升
type StudyMode string

const (
	ModeExam  StudyMode = "exam"
	ModeSkill StudyMode = "skill"
)

// PlanType 计划强度
type PlanType string

const (
	PlanBalanced PlanType = "balanced"
	PlanIntense  PlanType = "intense"
)

// OnboardingProfile 一次入学引导提交，按用户追加保存，最新一条即"当前计划"
// swagger:model OnboardingProfile
type OnboardingProfile struct {
	BaseModel
	UserID        uint           `gorm:"index" json:"-"`
	Mode          StudyMode      `gorm:"size:20;not null" json:"mode"`
	Level         string         `gorm:"size:255" json:"level"`
	Syllabus      string         `gorm:"type:text" json:"syllabus,omitempty"`
	Skill         string         `gorm:"size:255" json:"skill,omitempty"`
	SkillDuration string         `gorm:"size:100" json:"skillDuration,omitempty"`
	ExamDate      string         `gorm:"size:10" json:"examDate,omitempty"` // YYYY-MM-DD
	HoursPerDay   float64        `gorm:"default:4" json:"hoursPerDay"`
	PlanType      PlanType       `gorm:"size:20;default:'balanced'" json:"planType"`
	LearningStyle string         `gorm:"size:50" json:"learningStyle,omitempty"`
	RawData       datatypes.JSON `gorm:"type:json" json:"-"` // 前端提交的原始负载（含附件引用）
}

func (OnboardingProfile) TableName() string {
	return "onboarding_profiles"
}
