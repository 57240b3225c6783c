package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"serenestudy_backend/internal/util"
	"serenestudy_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 考试临近度档位
const (
	ProximityNormal      = "Normal"
	ProximityApproaching = "Approaching"
	ProximityTomorrow    = "Tomorrow"
)

const contentCacheTTL = 24 * time.Hour

// ContentService 学习内容与资源推荐，生成结果经 Redis 缓存
type ContentService struct {
	AIClient AIClient
	Redis    *redis.Client
	Now      func() time.Time
}

func NewContentService(aiClient AIClient, rdb *redis.Client) *ContentService {
	return &ContentService{
		AIClient: aiClient,
		Redis:    rdb,
		Now:      time.Now,
	}
}

// ContentRequest 一次学习内容请求
type ContentRequest struct {
	Subject       string `json:"subject" binding:"required"`
	Topic         string `json:"topic" binding:"required"`
	Level         string `json:"level"`
	ExamDate      string `json:"examDate"`
	LearningStyle string `json:"learningStyle"`
	SessionType   string `json:"sessionType"`
}

// ExamProximity 按距考试的天数划分临近度：1 天为 Tomorrow，7 天内为 Approaching
func ExamProximity(examDate string, now time.Time) string {
	if examDate == "" {
		return ProximityNormal
	}
	exam, err := time.Parse(util.DateFormat, examDate)
	if err != nil {
		return ProximityNormal
	}

	diffDays := int(math.Ceil(exam.Sub(now).Hours() / 24))
	switch {
	case diffDays == 1:
		return ProximityTomorrow
	case diffDays <= 7:
		return ProximityApproaching
	default:
		return ProximityNormal
	}
}

// LearningContent 将任务主题拆解为子部分内容；复习类会话生成高收益速记内容
func (s *ContentService) LearningContent(ctx context.Context, req *ContentRequest) (json.RawMessage, error) {
	proximity := ExamProximity(req.ExamDate, s.Now())
	cacheKey := fmt.Sprintf("learning:content:%s:%s:%s:%s", req.Subject, req.Topic, req.SessionType, proximity)

	if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
		logger.Log.Debug("Learning content cache hit", zap.String("key", cacheKey))
		return json.RawMessage(cached), nil
	} else if err != redis.Nil {
		logger.Log.Warn("Learning content cache read failed", zap.Error(err))
	}

	prompt := buildContentPrompt(req, proximity)
	content, err := s.AIClient.GenerateJSON(ctx, "Learning Content Error", []AIPart{{Text: prompt}}, ShapeObject)
	if err != nil {
		return nil, err
	}

	if err := s.Redis.Set(ctx, cacheKey, []byte(content), contentCacheTTL).Err(); err != nil {
		logger.Log.Warn("Learning content cache write failed", zap.Error(err))
	}

	return content, nil
}

func buildContentPrompt(req *ContentRequest, proximity string) string {
	if req.SessionType == "Revision" || req.SessionType == "Active Revision" {
		return fmt.Sprintf(`You are an exam revision assistant for SereneStudy.
Your job is to generate concise, high-yield revision content for "%s" in "%s".

RULES:
- Assume the student is close to exam day.
- Focus on formulas, definitions, and common mistakes.
- Avoid long explanations.
- No motivation, no emojis, no AI mentions.
- Output must be structured and skimmable.
- Proximity: %s. Level: %s. Learning Style: %s.

TASK:
1. Provide a breakdown of the topic into subparts.
2. For each subpart, include: Key concepts, Must-remember formulas, Typical exam traps.
3. The final subpart must be "Rapid-Fire Check" containing 5 quick revision questions.

Return JSON object with "subparts" array [ { "title": "...", "content": "..." } ].`,
			req.Topic, req.Subject, proximity, req.Level, req.LearningStyle)
	}

	return fmt.Sprintf(`You are a personalized learning assistant for SereneStudy. Help students study for exams.
STRICT RULES:
- Calm, tutor-like tone. No emojis.
- Proximity: %s. Level: %s. Learning Style: %s.
- TASK: Break "%s" in "%s" into logical subtopics and provide content for each.
- Return JSON object with "subparts" array.`,
		proximity, req.Level, req.LearningStyle, req.Topic, req.Subject)
}

// Resources 推荐 3 条与主题相关的学习资源
func (s *ContentService) Resources(ctx context.Context, subject, topic string) (json.RawMessage, error) {
	prompt := fmt.Sprintf(`Find 3 high-quality educational resources for the topic "%s" in "%s". Provide YouTube links or reputable educational websites. Return as JSON array of objects with title, url, type, description.`, topic, subject)

	return s.AIClient.GenerateJSON(ctx, "Resources Error", []AIPart{{Text: prompt}}, ShapeArray)
}
