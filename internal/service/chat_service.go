package service

import (
	"context"
	"fmt"
	"serenestudy_backend/pkg/logger"

	"go.uber.org/zap"
)

// ChatService 辅导对话：解释概念、答疑，纯文本往返
type ChatService struct {
	AIClient AIClient
}

func NewChatService(aiClient AIClient) *ChatService {
	return &ChatService{AIClient: aiClient}
}

const tutorInstruction = `You are a supportive, calm study tutor for SereneStudy.
A student is feeling stuck on a topic and needs help understanding concepts.

RULES:
- Explain concepts simply and clearly
- Provide helpful analogies when appropriate
- Be encouraging and supportive
- Avoid complex jargon unless necessary
- Keep responses focused and concise
- No emojis or overly casual language
- No mentions of AI or automation`

// Respond 回答一条学生消息
func (s *ChatService) Respond(ctx context.Context, userID uint, message string) (string, error) {
	prompt := fmt.Sprintf("%s\n\nStudent question: %s", tutorInstruction, message)

	text, err := s.AIClient.GenerateText(ctx, "Chat API Error", []AIPart{{Text: prompt}})
	if err != nil {
		return "", err
	}

	logger.Log.Info("Chat response generated",
		zap.Uint("userID", userID),
		zap.Int("chars", len(text)))
	return text, nil
}
