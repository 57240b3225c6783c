package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"serenestudy_backend/internal/model"
	"serenestudy_backend/internal/repository"
	"serenestudy_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// stubAI 以预设响应替代真实生成服务
type stubAI struct {
	jsonResponse json.RawMessage
	textResponse string
	err          error
	calls        int
}

func (s *stubAI) GenerateJSON(ctx context.Context, callContext string, parts []AIPart, shape JSONShape) (json.RawMessage, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.jsonResponse, nil
}

func (s *stubAI) GenerateText(ctx context.Context, callContext string, parts []AIPart) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.textResponse, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.OnboardingProfile{},
		&model.StudyTask{},
		&model.QuizAttempt{},
	))
	return db
}

func newPlanService(t *testing.T, aiClient AIClient) (*PlanService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewPlanService(repository.NewOnboardingRepository(db), repository.NewStudyTaskRepository(db), aiClient)
	svc.Now = func() time.Time { return time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC) }
	return svc, db
}

func examRequest() *PlanRequest {
	return &PlanRequest{
		Mode:        model.ModeExam,
		Level:       "Mathematics",
		Syllabus:    "Calculus, Algebra",
		ExamDate:    "2026-10-01",
		HoursPerDay: 3,
		PlanType:    model.PlanBalanced,
	}
}

func planJSON(tasks ...GeneratedTask) json.RawMessage {
	data, _ := json.Marshal(tasks)
	return data
}

func TestGeneratePlanPersistsTasksThenProfile(t *testing.T) {
	first := validTask()
	second := validTask()
	second.Subtopic = "Continuity"
	second.Date = "2026-09-02"

	aiClient := &stubAI{jsonResponse: planJSON(first, second)}
	svc, db := newPlanService(t, aiClient)

	profile, tasks, err := svc.GeneratePlan(context.Background(), 1, examRequest())

	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.NotZero(t, profile.ID)
	require.Len(t, tasks, 2)

	// ID 在持久化时分配，列表顺序与生成顺序一致
	assert.NotZero(t, tasks[0].ID)
	assert.Less(t, tasks[0].ID, tasks[1].ID)
	assert.Equal(t, "Limits", tasks[0].Subtopic)
	assert.Equal(t, "Continuity", tasks[1].Subtopic)

	var storedTasks []*model.StudyTask
	require.NoError(t, db.Order("id ASC").Find(&storedTasks).Error)
	require.Len(t, storedTasks, 2)
	assert.Equal(t, uint(1), storedTasks[0].UserID)
	assert.Equal(t, model.TaskPending, storedTasks[0].Status)

	var storedProfiles []*model.OnboardingProfile
	require.NoError(t, db.Find(&storedProfiles).Error)
	require.Len(t, storedProfiles, 1)
	assert.Equal(t, "Mathematics", storedProfiles[0].Level)
	assert.NotEmpty(t, storedProfiles[0].RawData)
}

func TestGeneratePlanSchemaFailurePersistsNothing(t *testing.T) {
	bad := validTask()
	bad.Date = ""

	aiClient := &stubAI{jsonResponse: planJSON(validTask(), bad)}
	svc, db := newPlanService(t, aiClient)

	_, _, err := svc.GeneratePlan(context.Background(), 1, examRequest())

	var schemaErr *util.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "date", schemaErr.Field)
	assert.Equal(t, 1, schemaErr.Index)

	var taskCount, profileCount int64
	db.Model(&model.StudyTask{}).Count(&taskCount)
	db.Model(&model.OnboardingProfile{}).Count(&profileCount)
	assert.Zero(t, taskCount)
	assert.Zero(t, profileCount)
}

func TestGeneratePlanEmptyArrayPersistsNothing(t *testing.T) {
	aiClient := &stubAI{jsonResponse: json.RawMessage(`[]`)}
	svc, db := newPlanService(t, aiClient)

	_, _, err := svc.GeneratePlan(context.Background(), 1, examRequest())

	assert.ErrorIs(t, err, util.ErrEmptyTasks)

	var taskCount int64
	db.Model(&model.StudyTask{}).Count(&taskCount)
	assert.Zero(t, taskCount)
}

// failureLogSize 返回持久化错误日志当前大小，文件不存在时为 0
func failureLogSize(t *testing.T) int64 {
	t.Helper()
	info, err := os.Stat(filepath.Join("logs", "ai_error.log"))
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return info.Size()
}

func TestGeneratePlanValidationFailureDurablyLogged(t *testing.T) {
	svc, _ := newPlanService(t, &stubAI{jsonResponse: json.RawMessage(`[]`)})

	before := failureLogSize(t)
	_, _, err := svc.GeneratePlan(context.Background(), 1, examRequest())
	require.ErrorIs(t, err, util.ErrEmptyTasks)

	data, readErr := os.ReadFile(filepath.Join("logs", "ai_error.log"))
	require.NoError(t, readErr)
	require.Greater(t, int64(len(data)), before)
	entry := string(data[before:])
	assert.Contains(t, entry, "Plan Generation Error")
	assert.Contains(t, entry, util.ErrEmptyTasks.Error())

	bad := validTask()
	bad.Date = ""
	svc, _ = newPlanService(t, &stubAI{jsonResponse: planJSON(bad)})

	before = failureLogSize(t)
	_, _, err = svc.GeneratePlan(context.Background(), 1, examRequest())
	var schemaErr *util.SchemaError
	require.True(t, errors.As(err, &schemaErr))

	data, readErr = os.ReadFile(filepath.Join("logs", "ai_error.log"))
	require.NoError(t, readErr)
	require.Greater(t, int64(len(data)), before)
	assert.Contains(t, string(data[before:]), "missing required field: date")
}

func TestGeneratePlanAIFailure(t *testing.T) {
	aiClient := &stubAI{err: &util.AIError{Err: errors.New("quota exceeded")}}
	svc, db := newPlanService(t, aiClient)

	_, _, err := svc.GeneratePlan(context.Background(), 1, examRequest())

	var aiErr *util.AIError
	assert.True(t, errors.As(err, &aiErr))

	var taskCount int64
	db.Model(&model.StudyTask{}).Count(&taskCount)
	assert.Zero(t, taskCount)
}

func TestGeneratePlanMalformedTaskArray(t *testing.T) {
	aiClient := &stubAI{jsonResponse: json.RawMessage(`{"tasks":[]}`)}
	svc, _ := newPlanService(t, aiClient)

	_, _, err := svc.GeneratePlan(context.Background(), 1, examRequest())

	assert.ErrorIs(t, err, util.ErrMalformedResponse)
}

func TestGeneratePlanDefaultsHoursPerDay(t *testing.T) {
	aiClient := &stubAI{jsonResponse: planJSON(validTask())}
	svc, _ := newPlanService(t, aiClient)

	req := examRequest()
	req.HoursPerDay = 0
	profile, _, err := svc.GeneratePlan(context.Background(), 1, req)

	require.NoError(t, err)
	assert.Equal(t, float64(4), profile.HoursPerDay)
}

func TestActivePlanWithoutProfile(t *testing.T) {
	svc, _ := newPlanService(t, &stubAI{})

	profile, tasks, err := svc.ActivePlan(1)

	require.NoError(t, err)
	assert.Nil(t, profile)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestActivePlanFuzzySubjectMatching(t *testing.T) {
	svc, db := newPlanService(t, &stubAI{})

	require.NoError(t, db.Create(&model.OnboardingProfile{
		UserID: 1, Mode: model.ModeExam, Level: "Mathematics",
	}).Error)

	seed := []*model.StudyTask{
		{UserID: 1, Subject: "mathematics", Topic: "Calculus", Subtopic: "Limits", Duration: "45 mins", Date: "2026-09-01", SessionType: "Core Learning", Status: model.TaskPending},
		{UserID: 1, Subject: "Advanced Mathematics II", Topic: "Algebra", Subtopic: "Matrices", Duration: "30 mins", Date: "2026-09-01", SessionType: "Practice", Status: model.TaskPending},
		{UserID: 1, Subject: "Physics", Topic: "Mechanics", Subtopic: "Kinematics", Duration: "30 mins", Date: "2026-09-01", SessionType: "Core Learning", Status: model.TaskPending},
	}
	require.NoError(t, db.Create(&seed).Error)

	profile, tasks, err := svc.ActivePlan(1)

	require.NoError(t, err)
	require.NotNil(t, profile)
	require.Len(t, tasks, 2)
	assert.Equal(t, "mathematics", tasks[0].Subject)
	assert.Equal(t, "Advanced Mathematics II", tasks[1].Subject)
}

func TestActivePlanUsesLatestProfile(t *testing.T) {
	svc, db := newPlanService(t, &stubAI{})

	require.NoError(t, db.Create(&model.OnboardingProfile{UserID: 1, Mode: model.ModeExam, Level: "Mathematics"}).Error)
	require.NoError(t, db.Create(&model.OnboardingProfile{UserID: 1, Mode: model.ModeExam, Level: "Physics"}).Error)

	seed := []*model.StudyTask{
		{UserID: 1, Subject: "Mathematics", Topic: "Calculus", Subtopic: "Limits", Duration: "45 mins", Date: "2026-09-01", SessionType: "Core Learning", Status: model.TaskPending},
		{UserID: 1, Subject: "Physics", Topic: "Mechanics", Subtopic: "Kinematics", Duration: "30 mins", Date: "2026-09-01", SessionType: "Core Learning", Status: model.TaskPending},
	}
	require.NoError(t, db.Create(&seed).Error)

	profile, tasks, err := svc.ActivePlan(1)

	require.NoError(t, err)
	assert.Equal(t, "Physics", profile.Level)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Physics", tasks[0].Subject)
}

func TestActivePlanScopedToOwner(t *testing.T) {
	svc, db := newPlanService(t, &stubAI{})

	require.NoError(t, db.Create(&model.OnboardingProfile{UserID: 1, Mode: model.ModeExam, Level: "Mathematics"}).Error)
	require.NoError(t, db.Create(&model.StudyTask{
		UserID: 2, Subject: "Mathematics", Topic: "Calculus", Subtopic: "Limits",
		Duration: "45 mins", Date: "2026-09-01", SessionType: "Core Learning", Status: model.TaskPending,
	}).Error)

	_, tasks, err := svc.ActivePlan(1)

	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestMergeRevisionTasks(t *testing.T) {
	svc, db := newPlanService(t, &stubAI{})

	merged, err := svc.MergeRevisionTasks(1, nil)
	require.NoError(t, err)
	assert.NotNil(t, merged)
	assert.Empty(t, merged)

	revision := toStudyTasks([]GeneratedTask{{
		Subject: "Mathematics", Topic: "Calculus", Subtopic: "Limits",
		Duration: "20 mins", Date: "2026-08-30", SessionType: "Weak Area Focus",
	}})
	merged, err = svc.MergeRevisionTasks(1, revision)

	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.NotZero(t, merged[0].ID)

	var count int64
	db.Model(&model.StudyTask{}).Where("user_id = ?", 1).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestMergeRevisionTasksNoDeduplication(t *testing.T) {
	svc, db := newPlanService(t, &stubAI{})

	task := func() []*model.StudyTask {
		return toStudyTasks([]GeneratedTask{{
			Subject: "Mathematics", Topic: "Calculus", Subtopic: "Limits",
			Duration: "20 mins", Date: "2026-08-30", SessionType: "Weak Area Focus",
		}})
	}

	_, err := svc.MergeRevisionTasks(1, task())
	require.NoError(t, err)
	_, err = svc.MergeRevisionTasks(1, task())
	require.NoError(t, err)

	var count int64
	db.Model(&model.StudyTask{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestSubjectMatches(t *testing.T) {
	candidates := []string{"mathematics"}

	tests := []struct {
		subject string
		want    bool
	}{
		{"Mathematics", true},
		{"mathematics", true},
		{"Advanced Mathematics", true},
		{"Math", true}, // 候选词包含任务主题
		{"Physics", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SubjectMatches(tt.subject, candidates), "subject %q", tt.subject)
	}

	assert.False(t, SubjectMatches("Mathematics", nil))
	assert.False(t, SubjectMatches("Mathematics", []string{""}))
}

func TestCandidateSubjects(t *testing.T) {
	profile := &model.OnboardingProfile{Level: "Mathematics", Skill: "Go Programming"}
	assert.Equal(t, []string{"mathematics", "go programming"}, CandidateSubjects(profile))

	assert.Empty(t, CandidateSubjects(&model.OnboardingProfile{}))
}

func TestSubmitOnboardingAppendsHistory(t *testing.T) {
	svc, _ := newPlanService(t, &stubAI{})

	first, err := svc.SubmitOnboarding(1, examRequest())
	require.NoError(t, err)

	second := examRequest()
	second.Level = "Physics"
	_, err = svc.SubmitOnboarding(1, second)
	require.NoError(t, err)

	history, err := svc.OnboardingHistory(1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Physics", history[0].Level)
	assert.Equal(t, first.ID, history[1].ID)
}
