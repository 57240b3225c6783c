package repository

import (
	"serenestudy_backend/internal/model"

	"gorm.io/gorm"
)

type OnboardingRepository struct {
	DB *gorm.DB
}

func NewOnboardingRepository(db *gorm.DB) *OnboardingRepository {
	return &OnboardingRepository{DB: db}
}

// Create 追加保存一次入学引导提交，历史记录不做覆盖
func (r *OnboardingRepository) Create(profile *model.OnboardingProfile) error {
	return r.DB.Create(profile).Error
}

// FindByUserID 按提交时间倒序返回用户的全部引导记录，首条即当前计划
func (r *OnboardingRepository) FindByUserID(userID uint) ([]*model.OnboardingProfile, error) {
	var profiles []*model.OnboardingProfile
	err := r.DB.Where("user_id = ?", userID).Order("id DESC").Find(&profiles).Error
	return profiles, err
}
