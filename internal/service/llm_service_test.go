package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bikkkubo/yeni-auto/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

func newChatServer(t *testing.T, content string, requests *[]chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if requests != nil {
			*requests = append(*requests, req)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"model":   req.Model,
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]any{"role": "assistant", "content": content},
				},
			},
		})
	}))
}

func newLLMService(baseURL string) *LLMService {
	return NewLLMService(&config.OpenAIConfig{
		APIKey:          "test-key",
		BaseURL:         baseURL,
		CompletionModel: "gpt-3.5-turbo",
	}, zap.NewNop())
}

func TestCompleteReturnsCompletionText(t *testing.T) {
	var requests []chatRequest
	server := newChatServer(t, "サイズ表をご確認ください。", &requests)
	defer server.Close()

	svc := newLLMService(server.URL)

	out, err := svc.Complete(context.Background(), CompletionRequest{
		SystemPrompt: "カスタマーサポート担当者です。",
		UserMessage:  "サイズが知りたいです。",
		Temperature:  0.3,
		MaxTokens:    500,
	})
	require.NoError(t, err)
	assert.Equal(t, "サイズ表をご確認ください。", out)

	require.Len(t, requests, 1)
	req := requests[0]
	assert.Equal(t, "gpt-3.5-turbo", req.Model)
	assert.InDelta(t, 0.3, req.Temperature, 1e-9)
	assert.Equal(t, 500, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "カスタマーサポート担当者です。", req.Messages[0].Content)
	assert.Equal(t, "user", req.Messages[1].Role)
	assert.Equal(t, "サイズが知りたいです。", req.Messages[1].Content)
}

func TestCompleteFailsWithoutChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-test","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	svc := newLLMService(server.URL)

	_, err := svc.Complete(context.Background(), CompletionRequest{UserMessage: "hi"})
	assert.Error(t, err)
}

func TestCompleteFailsOnUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer server.Close()

	svc := newLLMService(server.URL)

	_, err := svc.Complete(context.Background(), CompletionRequest{UserMessage: "hi"})
	assert.Error(t, err)
}
