package service

import (
	"context"
	"encoding/json"
	"fmt"
	"serenestudy_backend/internal/model"
	"serenestudy_backend/internal/repository"
	"serenestudy_backend/internal/util"
	"serenestudy_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// QuizService 生成主题测验并评估作答，弱项子主题转化为次日的复习任务
type QuizService struct {
	QuizRepo *repository.QuizRepository
	Plan     *PlanService
	AIClient AIClient
	Now      func() time.Time
}

func NewQuizService(quizRepo *repository.QuizRepository, plan *PlanService, aiClient AIClient) *QuizService {
	return &QuizService{
		QuizRepo: quizRepo,
		Plan:     plan,
		AIClient: aiClient,
		Now:      time.Now,
	}
}

// QuizEvaluation 一次测验评估的结构化结果
type QuizEvaluation struct {
	WeakSubtopics   []string        `json:"weakSubtopics"`
	StableSubtopics []string        `json:"stableSubtopics"`
	Feedback        string          `json:"feedback"`
	SuggestedTasks  []GeneratedTask `json:"suggestedTasks"`
}

// Generate 为指定主题生成测验题（3 道选择题 + 1 道简答诊断题）
func (s *QuizService) Generate(ctx context.Context, subject, topic string) (json.RawMessage, error) {
	prompt := fmt.Sprintf(`You are a learning assistant for SereneStudy.
Generate a conceptual and application-based quiz based ONLY on the topic "%s" in "%s".
- Calm, tutor-like tone. No emojis.
- Match difficulty to exam standards.
- Include 3 MCQ and 1 short-answer diagnostic question.
- No answers should be shown immediately to the user.
Return a JSON array of question objects.`, topic, subject)

	return s.AIClient.GenerateJSON(ctx, "Quiz Generation Error", []AIPart{{Text: prompt}}, ShapeArray)
}

// Evaluate 评估一次作答：识别弱项与稳定项，为弱项生成次日复习任务并合并进计划
func (s *QuizService) Evaluate(ctx context.Context, userID uint, subject, topic string, questions, responses json.RawMessage, examDate string) (*QuizEvaluation, []*model.StudyTask, error) {
	now := s.Now()
	proximity := ExamProximity(examDate, now)
	tomorrow := now.AddDate(0, 0, 1).Format(util.DateFormat)

	prompt := fmt.Sprintf(`You are a learning evaluation manager for SereneStudy.
EVALUATE this quiz attempt for "%s" in "%s".

INPUT:
Questions: %s
Responses: %s
Proximity: %s

RULES:
1. Identify Weak Subtopics: Where answers were incorrect or showed gaps.
2. Identify Stable Subtopics: Where student was consistently correct.
3. Supportive Feedback: No negative language. Treat mistakes as learning signals.
4. Targeted Revision: Suggest short, specific revision tasks ONLY for weak subtopics for %s.
5. Return a JSON object with keys "weakSubtopics" (string array), "stableSubtopics" (string array),
   "feedback" (string) and "suggestedTasks" (array of session objects with subject "%s", topic, subtopic,
   duration, date "%s", sessionType "Weak Area Focus", aiExplanation, status "pending").

TONE: supportive, calm, exam-focused. No emojis. No AI mentions.`,
		topic, subject, string(questions), string(responses), proximity, tomorrow, subject, tomorrow)

	raw, err := s.AIClient.GenerateJSON(ctx, "Quiz Evaluation Error", []AIPart{{Text: prompt}}, ShapeObject)
	if err != nil {
		return nil, nil, err
	}

	var evaluation QuizEvaluation
	if err := json.Unmarshal(raw, &evaluation); err != nil {
		return nil, nil, &util.AIError{Err: fmt.Errorf("%w: %v", util.ErrMalformedResponse, err)}
	}

	attempt := &model.QuizAttempt{
		UserID:    userID,
		Subject:   subject,
		Topic:     topic,
		Questions: datatypes.JSON(questions),
		Responses: datatypes.JSON(responses),
		Feedback:  evaluation.Feedback,
	}
	attempt.WeakSubtopics, _ = json.Marshal(evaluation.WeakSubtopics)
	attempt.StableSubtopics, _ = json.Marshal(evaluation.StableSubtopics)
	if err := s.QuizRepo.Create(attempt); err != nil {
		logger.Log.Error("Failed to persist quiz attempt", zap.Uint("userID", userID), zap.Error(err))
	}

	merged, err := s.Plan.MergeRevisionTasks(userID, toStudyTasks(evaluation.SuggestedTasks))
	if err != nil {
		return nil, nil, err
	}

	logger.Log.Info("Quiz evaluated",
		zap.Uint("userID", userID),
		zap.Int("weakSubtopics", len(evaluation.WeakSubtopics)),
		zap.Int("revisionTasks", len(merged)))
	return &evaluation, merged, nil
}
