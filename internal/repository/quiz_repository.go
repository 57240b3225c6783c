package repository

import (
	"serenestudy_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *QuizRepository) FindByUserID(userID uint) ([]*model.QuizAttempt, error) {
	var attempts []*model.QuizAttempt
	err := r.DB.Where("user_id = ?", userID).Order("id DESC").Find(&attempts).Error
	return attempts, err
}
