package repository

import (
	"errors"
	"serenestudy_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *StudyTaskRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.StudyTask{}))
	return NewStudyTaskRepository(db)
}

func sampleTasks() []*model.StudyTask {
	return []*model.StudyTask{
		{Subject: "Mathematics", Topic: "Calculus", Subtopic: "Limits", Duration: "45 mins", Date: "2026-09-01", SessionType: "Core Learning"},
		{Subject: "Mathematics", Topic: "Calculus", Subtopic: "Derivatives", Duration: "45 mins", Date: "2026-09-02", SessionType: "Core Learning"},
		{Subject: "Mathematics", Topic: "Algebra", Subtopic: "Matrices", Duration: "30 mins", Date: "2026-09-03", SessionType: "Practice"},
	}
}

func TestInsertManyAssignsIDsAndDefaults(t *testing.T) {
	repo := newTestRepo(t)

	tasks := sampleTasks()
	require.NoError(t, repo.InsertMany(7, tasks))

	for _, task := range tasks {
		assert.NotZero(t, task.ID)
		assert.Equal(t, uint(7), task.UserID)
		assert.Equal(t, model.TaskPending, task.Status)
	}
}

func TestFindByUserIDPreservesInsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.InsertMany(7, sampleTasks()))

	got, err := repo.FindByUserID(7)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Limits", got[0].Subtopic)
	assert.Equal(t, "Derivatives", got[1].Subtopic)
	assert.Equal(t, "Matrices", got[2].Subtopic)

	other, err := repo.FindByUserID(8)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestUpdateFieldsPartialUpdate(t *testing.T) {
	repo := newTestRepo(t)
	tasks := sampleTasks()
	require.NoError(t, repo.InsertMany(7, tasks))

	updated, err := repo.UpdateFields(7, tasks[0].ID, map[string]interface{}{
		"status":      model.TaskCompleted,
		"quiz_status": model.QuizStarted,
	})

	require.NoError(t, err)
	assert.Equal(t, model.TaskCompleted, updated.Status)
	assert.Equal(t, model.QuizStarted, updated.QuizStatus)
	// 未出现在更新集中的字段保持不变
	assert.Equal(t, "Limits", updated.Subtopic)
	assert.Equal(t, "2026-09-01", updated.Date)
}

func TestUpdateFieldsEmptySetReturnsTask(t *testing.T) {
	repo := newTestRepo(t)
	tasks := sampleTasks()
	require.NoError(t, repo.InsertMany(7, tasks))

	got, err := repo.UpdateFields(7, tasks[1].ID, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, "Derivatives", got.Subtopic)
}

func TestUpdateFieldsForeignTaskNotFound(t *testing.T) {
	repo := newTestRepo(t)
	tasks := sampleTasks()
	require.NoError(t, repo.InsertMany(7, tasks))

	// 其他用户的任务视为不存在
	_, err := repo.UpdateFields(8, tasks[0].ID, map[string]interface{}{"status": model.TaskCompleted})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = repo.UpdateFields(7, 9999, map[string]interface{}{"status": model.TaskCompleted})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
