package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bikkkubo/yeni-auto/pkg/config"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// EmbeddingService turns inquiry text into a fixed-length vector using the
// OpenAI embeddings API. It never retries; callers decide the fallback.
type EmbeddingService struct {
	client openai.Client
	config *config.OpenAIConfig
	dims   int
	logger *zap.Logger
}

func NewEmbeddingService(cfg *config.OpenAIConfig, ragCfg *config.RAGConfig, logger *zap.Logger) *EmbeddingService {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &EmbeddingService{
		client: openai.NewClient(opts...),
		config: cfg,
		dims:   ragCfg.EmbeddingDimensions,
		logger: logger,
	}
}

// Embed generates the embedding vector for a single text. Every upstream
// failure (network, auth, rate limit, malformed response) collapses to
// ErrProviderUnavailable at this boundary.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	// The embedding model handles long lines better than raw newlines
	input := strings.ReplaceAll(text, "\n", " ")

	resp, err := s.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(s.config.EmbeddingModel),
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(input)},
	})
	if err != nil {
		s.logger.Warn("Embedding request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding in response", ErrProviderUnavailable)
	}

	raw := resp.Data[0].Embedding
	if s.dims > 0 && len(raw) != s.dims {
		return nil, fmt.Errorf("%w: expected %d dimensions, got %d", ErrProviderUnavailable, s.dims, len(raw))
	}

	vector := make([]float32, len(raw))
	for i, v := range raw {
		vector[i] = float32(v)
	}

	return vector, nil
}
