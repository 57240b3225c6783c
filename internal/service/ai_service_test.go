package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"serenestudy_backend/internal/config"
	"serenestudy_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func candidateBody(text string) string {
	payload := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*AIService, *[]time.Duration) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewAIService(config.AIConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	})

	sleeps := &[]time.Duration{}
	client.sleep = func(d time.Duration) {
		*sleeps = append(*sleeps, d)
	}
	return client, sleeps
}

func TestGenerateJSONSuccessStripsFences(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		fmt.Fprint(w, candidateBody("Here you go:\n```json\n[{\"subject\":\"Math\"}]\n```"))
	})

	raw, err := client.GenerateJSON(context.Background(), "Plan Generation Error", []AIPart{{Text: "prompt"}}, ShapeArray)

	assert.NoError(t, err)
	assert.JSONEq(t, `[{"subject":"Math"}]`, string(raw))
}

func TestGenerateJSONRetriesTransientErrors(t *testing.T) {
	attempts := 0
	client, sleeps := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	})

	_, err := client.GenerateJSON(context.Background(), "Plan Generation Error", []AIPart{{Text: "prompt"}}, ShapeArray)

	var aiErr *util.AIError
	assert.True(t, errors.As(err, &aiErr))
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *sleeps)
}

func TestGenerateJSONDoesNotRetryPermanentErrors(t *testing.T) {
	attempts := 0
	client, sleeps := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "invalid request", http.StatusBadRequest)
	})

	_, err := client.GenerateJSON(context.Background(), "Plan Generation Error", []AIPart{{Text: "prompt"}}, ShapeArray)

	var aiErr *util.AIError
	assert.True(t, errors.As(err, &aiErr))
	assert.Equal(t, 1, attempts)
	assert.Empty(t, *sleeps)
}

func TestGenerateJSONDoesNotRetryMalformedBody(t *testing.T) {
	attempts := 0
	client, sleeps := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		fmt.Fprint(w, candidateBody("this is not json at all"))
	})

	_, err := client.GenerateJSON(context.Background(), "Plan Generation Error", []AIPart{{Text: "prompt"}}, ShapeArray)

	assert.ErrorIs(t, err, util.ErrMalformedResponse)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, *sleeps)
}

func TestGenerateText(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, candidateBody("A limit describes the value a function approaches."))
	})

	text, err := client.GenerateText(context.Background(), "Chat API Error", []AIPart{{Text: "explain limits"}})

	assert.NoError(t, err)
	assert.Equal(t, "A limit describes the value a function approaches.", text)
}

func TestExtractResponseTextFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"candidates shape", candidateBody("hello"), "hello", false},
		{"multiple parts concatenated", `{"candidates":[{"content":{"parts":[{"text":"foo"},{"text":"bar"}]}}]}`, "foobar", false},
		{"top level text", `{"text":"plain"}`, "plain", false},
		{"nested response text", `{"response":{"text":"nested"}}`, "nested", false},
		{"no text anywhere", `{"candidates":[]}`, "", true},
		{"invalid json body", `<html>502</html>`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractResponseText([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, util.ErrMalformedResponse)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsTransientAIError(t *testing.T) {
	assert.True(t, isTransientAIError(errors.New("Quota exceeded for project")))
	assert.True(t, isTransientAIError(errors.New("429 rate limit hit")))
	assert.True(t, isTransientAIError(errors.New("context deadline exceeded (Client.Timeout)")))
	assert.False(t, isTransientAIError(errors.New("invalid api key")))
}
