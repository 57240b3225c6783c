package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"serenestudy_backend/internal/config"
	"serenestudy_backend/internal/util"
	"serenestudy_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
)

// JSONShape 期望的 JSON 顶层结构
type JSONShape int

const (
	ShapeArray JSONShape = iota
	ShapeObject
)

// AIPart 一次生成请求中的内容片段：纯文本或内联附件
type AIPart struct {
	Text       string
	InlineData *AIInlineData
}

// AIInlineData base64 编码的附件内容
type AIInlineData struct {
	Data     string
	MimeType string
}

// AIClient 是所有依赖生成模型的服务共用的边界接口，测试中以桩实现替换
type AIClient interface {
	GenerateJSON(ctx context.Context, callContext string, parts []AIPart, shape JSONShape) (json.RawMessage, error)
	GenerateText(ctx context.Context, callContext string, parts []AIPart) (string, error)
}

// 重试上限：共 3 次尝试，第 n 次失败后等待 (n+1)*2s
const maxAIRetries = 2

// AIService 封装对生成模型 REST 接口的调用，进程启动时构造一次并注入各服务
type AIService struct {
	cfg    config.AIConfig
	client *http.Client
	sleep  func(time.Duration)
}

func NewAIService(cfg config.AIConfig) *AIService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &AIService{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		sleep:  time.Sleep,
	}
}

type aiContentPart struct {
	Text       string        `json:"text,omitempty"`
	InlineData *aiInlineData `json:"inlineData,omitempty"`
}

type aiInlineData struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

type aiContent struct {
	Role  string          `json:"role"`
	Parts []aiContentPart `json:"parts"`
}

type aiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type aiRequest struct {
	Contents         []aiContent         `json:"contents"`
	GenerationConfig *aiGenerationConfig `json:"generationConfig,omitempty"`
}

// aiResponse 边界适配类型：无论上游返回哪种结构，调用方只看到提取后的文本
type aiResponse struct {
	Text string
}

// GenerateJSON 调用模型并要求返回 JSON。瞬时错误（限流/配额/超时）按线性退避
// 重试，最多 2 次；格式错误不重试。最终失败写入持久化错误日志后返回 AIError。
func (c *AIService) GenerateJSON(ctx context.Context, callContext string, parts []AIPart, shape JSONShape) (json.RawMessage, error) {
	var lastErr error

	for attempt := 0; ; attempt++ {
		logger.Log.Info("Calling generation model",
			zap.String("context", callContext),
			zap.Int("attempt", attempt+1),
			zap.Int("maxAttempts", maxAIRetries+1))

		resp, err := c.call(ctx, parts, "application/json")
		if err == nil {
			raw, parseErr := parseJSONResponse(resp.Text, shape)
			if parseErr == nil {
				return raw, nil
			}
			// 格式错误不可重试
			lastErr = parseErr
			break
		}

		lastErr = err
		if attempt >= maxAIRetries || !isTransientAIError(err) {
			break
		}

		wait := time.Duration(attempt+1) * 2 * time.Second
		logger.Log.Warn("Transient aiClient error, retrying",
			zap.String("context", callContext),
			zap.Duration("wait", wait),
			zap.Error(err))
		c.sleep(wait)
	}

	logger.Log.Error("AI call failed", zap.String("context", callContext), zap.Error(lastErr))
	logger.LogAIFailure(callContext, lastErr)
	return nil, &util.AIError{Err: lastErr}
}

// GenerateText 调用模型返回自由文本，不做 JSON 清洗，失败不重试
func (c *AIService) GenerateText(ctx context.Context, callContext string, parts []AIPart) (string, error) {
	resp, err := c.call(ctx, parts, "")
	if err != nil {
		logger.Log.Error("AI call failed", zap.String("context", callContext), zap.Error(err))
		logger.LogAIFailure(callContext, err)
		return "", &util.AIError{Err: err}
	}
	return resp.Text, nil
}

func (c *AIService) call(ctx context.Context, parts []AIPart, responseMimeType string) (*aiResponse, error) {
	payload := aiRequest{
		Contents: []aiContent{{Role: "user", Parts: toContentParts(parts)}},
	}
	if responseMimeType != "" {
		payload.GenerationConfig = &aiGenerationConfig{ResponseMimeType: responseMimeType}
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model API error (status %d): %s", resp.StatusCode, string(body))
	}

	text, err := extractResponseText(body)
	if err != nil {
		return nil, err
	}
	return &aiResponse{Text: text}, nil
}

func toContentParts(parts []AIPart) []aiContentPart {
	out := make([]aiContentPart, 0, len(parts))
	for _, p := range parts {
		part := aiContentPart{Text: p.Text}
		if p.InlineData != nil {
			part.InlineData = &aiInlineData{
				Data:     p.InlineData.Data,
				MimeType: p.InlineData.MimeType,
			}
		}
		out = append(out, part)
	}
	return out
}

// extractResponseText 提取上游响应中的生成文本。上游客户端库的响应结构在版本间
// 不稳定，这里按已知形态逐级回退：candidates[].content.parts[].text、顶层 text、
// 嵌套 response.text，全部不命中才报错。
func extractResponseText(body []byte) (string, error) {
	var payload struct {
		Text       string `json:"text"`
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		Response *struct {
			Text string `json:"text"`
		} `json:"response"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrMalformedResponse, err)
	}

	if len(payload.Candidates) > 0 {
		var sb strings.Builder
		for _, part := range payload.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}
	if payload.Text != "" {
		return payload.Text, nil
	}
	if payload.Response != nil && payload.Response.Text != "" {
		return payload.Response.Text, nil
	}

	return "", fmt.Errorf("%w: unable to extract text from aiClient response", util.ErrMalformedResponse)
}

func parseJSONResponse(text string, shape JSONShape) (json.RawMessage, error) {
	var cleaned string
	switch shape {
	case ShapeObject:
		cleaned = util.ExtractJSONObject(text)
	default:
		cleaned = util.ExtractJSONArray(text)
	}

	var raw json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrMalformedResponse, err)
	}
	return raw, nil
}

// isTransientAIError 根据错误信息判断是否为可重试的瞬时错误
func isTransientAIError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, signature := range []string{"quota", "rate limit", "timeout"} {
		if strings.Contains(msg, signature) {
			return true
		}
	}
	return false
}
