package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bikkkubo/yeni-auto/internal/models"
	"github.com/bikkkubo/yeni-auto/pkg/config"

	"go.uber.org/zap"
)

// Embedder is the embedding-provider boundary consumed by retrieval.
// Implemented by EmbeddingService.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// DocumentSearcher is the knowledge-store boundary consumed by retrieval.
// Implemented by repository.DocumentRepository.
type DocumentSearcher interface {
	SearchSimilar(ctx context.Context, embedding []float32, threshold float64, limit int) ([]models.RetrievedPassage, error)
}

// RetrievalService orchestrates embedding generation and similarity search.
// Its output is always non-empty: when the provider is down, the store is
// unreachable, or no passage clears the similarity threshold, the static
// default passage set is substituted so synthesis always has grounding
// context. Availability of a generic answer is preferred over failure.
type RetrievalService struct {
	embedder Embedder
	store    DocumentSearcher
	config   *config.RAGConfig
	logger   *zap.Logger
}

func NewRetrievalService(embedder Embedder, store DocumentSearcher, cfg *config.RAGConfig, logger *zap.Logger) *RetrievalService {
	return &RetrievalService{
		embedder: embedder,
		store:    store,
		config:   cfg,
		logger:   logger,
	}
}

// Retrieve returns the passages grounding the answer to an inquiry.
func (s *RetrievalService) Retrieve(ctx context.Context, inquiry string) []models.RetrievedPassage {
	passages, err := s.search(ctx, inquiry)
	if err != nil {
		switch {
		case errors.Is(err, ErrProviderUnavailable):
			s.logger.Warn("Embedding unavailable, substituting default passages", zap.Error(err))
		case errors.Is(err, ErrRetrievalDegraded):
			s.logger.Info("No qualifying passages, substituting default passages",
				zap.Float64("threshold", s.config.SimilarityThreshold))
		default:
			s.logger.Warn("Knowledge search failed, substituting default passages", zap.Error(err))
		}
		return DefaultPassages()
	}

	s.logger.Info("Knowledge search completed",
		zap.Int("passages", len(passages)),
		zap.Float64("top_similarity", passages[0].Similarity),
	)

	return passages
}

func (s *RetrievalService) search(ctx context.Context, inquiry string) ([]models.RetrievedPassage, error) {
	embedding, err := s.embedder.Embed(ctx, inquiry)
	if err != nil {
		return nil, err
	}

	passages, err := s.store.SearchSimilar(ctx, embedding, s.config.SimilarityThreshold, s.config.TopK)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	if len(passages) == 0 {
		return nil, ErrRetrievalDegraded
	}

	return passages, nil
}

// DefaultPassages is the hand-curated fallback passage set used whenever real
// retrieval is unavailable or returns nothing. It is also the built-in seed
// data for cmd/seed. Returned as a fresh slice so callers may not mutate the
// canonical set.
func DefaultPassages() []models.RetrievedPassage {
	return []models.RetrievedPassage{
		{
			Content:  "ノンワイヤーブラのサイズは、アンダーバスト（胸の下の周囲）とカップサイズによって決まります。お手持ちのブラのサイズを参考に、一般的なサイズ表をご参照ください。",
			Metadata: map[string]string{"source": "product_info", "category": "sizing"},
		},
		{
			Content:  "一般的なノンワイヤーブラのサイズ表: A70, B70, C70, D70, A75, B75, C75, D75, A80, B80, C80, D80, A85, B85, C85, D85",
			Metadata: map[string]string{"source": "size_chart", "category": "sizing"},
		},
		{
			Content:  "サイズ選びで迷われた場合は、お気軽にチャットサポートでご相談ください。お手伝いさせていただきますね。",
			Metadata: map[string]string{"source": "customer_service", "category": "support"},
		},
	}
}
