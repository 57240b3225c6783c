package repository

import (
	"serenestudy_backend/internal/model"

	"gorm.io/gorm"
)

type StudyTaskRepository struct {
	DB *gorm.DB
}

func NewStudyTaskRepository(db *gorm.DB) *StudyTaskRepository {
	return &StudyTaskRepository{DB: db}
}

// InsertMany 批量写入任务，单个事务内完成，ID 在持久化时分配
func (r *StudyTaskRepository) InsertMany(userID uint, tasks []*model.StudyTask) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for _, task := range tasks {
			task.UserID = userID
			if task.Status == "" {
				task.Status = model.TaskPending
			}
			if err := tx.Create(task).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByUserID 按插入顺序返回用户全部任务
func (r *StudyTaskRepository) FindByUserID(userID uint) ([]*model.StudyTask, error) {
	var tasks []*model.StudyTask
	err := r.DB.Where("user_id = ?", userID).Order("id ASC").Find(&tasks).Error
	return tasks, err
}

// UpdateFields 只更新给定字段；任务不存在或不属于该用户时返回 gorm.ErrRecordNotFound
func (r *StudyTaskRepository) UpdateFields(userID, taskID uint, fields map[string]interface{}) (*model.StudyTask, error) {
	var task model.StudyTask
	if err := r.DB.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := r.DB.Model(&task).Updates(fields).Error; err != nil {
			return nil, err
		}
	}

	err := r.DB.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error
	return &task, err
}
