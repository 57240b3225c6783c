package service

import (
	"context"
	"encoding/json"
	"serenestudy_backend/internal/model"
	"serenestudy_backend/internal/repository"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuizService(t *testing.T, aiClient AIClient) (*QuizService, *PlanService) {
	t.Helper()
	db := newTestDB(t)
	plan := NewPlanService(repository.NewOnboardingRepository(db), repository.NewStudyTaskRepository(db), aiClient)
	quiz := NewQuizService(repository.NewQuizRepository(db), plan, aiClient)
	quiz.Now = func() time.Time { return time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC) }
	return quiz, plan
}

func TestQuizEvaluateMergesRevisionTasks(t *testing.T) {
	evaluation := map[string]interface{}{
		"weakSubtopics":   []string{"Limits"},
		"stableSubtopics": []string{"Derivatives"},
		"feedback":        "Good progress, limits need one more pass.",
		"suggestedTasks": []map[string]string{{
			"subject":     "Mathematics",
			"topic":       "Calculus",
			"subtopic":    "Limits",
			"duration":    "20 mins",
			"date":        "2026-08-30",
			"sessionType": "Weak Area Focus",
		}},
	}
	raw, _ := json.Marshal(evaluation)

	quiz, plan := newQuizService(t, &stubAI{jsonResponse: raw})

	result, revisionTasks, err := quiz.Evaluate(context.Background(), 1,
		"Mathematics", "Calculus",
		json.RawMessage(`[{"q":"?"}]`), json.RawMessage(`[{"a":"!"}]`), "2026-10-01")

	require.NoError(t, err)
	assert.Equal(t, []string{"Limits"}, result.WeakSubtopics)
	assert.Equal(t, "Good progress, limits need one more pass.", result.Feedback)

	// 复习任务已持久化并带 ID
	require.Len(t, revisionTasks, 1)
	assert.NotZero(t, revisionTasks[0].ID)
	assert.Equal(t, "Weak Area Focus", revisionTasks[0].SessionType)
	assert.Equal(t, model.TaskPending, revisionTasks[0].Status)

	// 评估记录入库
	attempts, err := quiz.QuizRepo.FindByUserID(1)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, "Calculus", attempts[0].Topic)

	// 合并进任务流后可通过任务仓储读到
	stored, err := plan.TaskRepo.FindByUserID(1)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestQuizEvaluateNoSuggestedTasks(t *testing.T) {
	raw := json.RawMessage(`{"weakSubtopics":[],"stableSubtopics":["Limits"],"feedback":"Solid.","suggestedTasks":[]}`)
	quiz, plan := newQuizService(t, &stubAI{jsonResponse: raw})

	_, revisionTasks, err := quiz.Evaluate(context.Background(), 1,
		"Mathematics", "Calculus", json.RawMessage(`[]`), json.RawMessage(`[]`), "")

	require.NoError(t, err)
	assert.Empty(t, revisionTasks)

	stored, err := plan.TaskRepo.FindByUserID(1)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
