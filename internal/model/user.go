package model

import (
	"time"
)

// swagger:model User
type User struct {
	BaseModel
	Name       string     `gorm:"size:100;not null" json:"name"`
	Email      string     `gorm:"size:100;unique;not null" json:"email"`
	Password   string     `gorm:"size:100;not null" json:"-"`
	DailyHours float64    `gorm:"default:4" json:"dailyHours"` // 每日可学习小时数
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
}

func (User) TableName() string {
	return "users"
}
