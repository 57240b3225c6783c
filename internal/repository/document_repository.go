package repository

import (
	"serenestudy_backend/internal/model"

	"gorm.io/gorm"
)

type DocumentRepository struct {
	DB *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Create(doc *model.SyllabusDocument) error {
	return r.DB.Create(doc).Error
}

func (r *DocumentRepository) FindByUserID(userID uint) ([]*model.SyllabusDocument, error) {
	var docs []*model.SyllabusDocument
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&docs).Error
	return docs, err
}
