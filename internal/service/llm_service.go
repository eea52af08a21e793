package service

import (
	"context"
	"fmt"

	"github.com/bikkkubo/yeni-auto/pkg/config"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// CompletionRequest is the generation-service boundary: a system instruction,
// the user turn, and the fixed sampling parameters for this request.
type CompletionRequest struct {
	SystemPrompt string
	UserMessage  string
	Temperature  float64
	MaxTokens    int
}

// GenerationClient is implemented by LLMService and by test doubles.
type GenerationClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// LLMService calls the OpenAI chat completions API to produce draft answers.
// Each request is attempted once; resilience lives in the synthesizer's
// fallback policy, not in retries.
type LLMService struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

func NewLLMService(cfg *config.OpenAIConfig, logger *zap.Logger) *LLMService {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &LLMService{
		client: openai.NewClient(opts...),
		model:  cfg.CompletionModel,
		logger: logger,
	}
}

// Complete runs a single chat completion and returns the raw completion text.
func (s *LLMService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserMessage),
		},
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}

	return resp.Choices[0].Message.Content, nil
}
