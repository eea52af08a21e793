package service

import (
	"context"
	"strings"
	"time"

	"github.com/bikkkubo/yeni-auto/internal/models"

	"go.uber.org/zap"
)

// Retriever is the retrieval-pipeline boundary consumed by the orchestrator.
// Implemented by RetrievalService.
type Retriever interface {
	Retrieve(ctx context.Context, inquiry string) []models.RetrievedPassage
}

// Synthesizer is the answer-synthesis boundary consumed by the orchestrator.
// Implemented by SynthesisService.
type Synthesizer interface {
	Synthesize(ctx context.Context, inquiry string, passages []models.RetrievedPassage) string
}

// RAGService is the end-to-end pipeline consumed by the webhook handler:
// retrieval followed by synthesis, with per-stage timing. Both sub-stages
// guarantee non-failing fallback behavior, so the only error Answer can
// return is ErrInvalidInput for an empty inquiry.
type RAGService struct {
	retriever   Retriever
	synthesizer Synthesizer
	logger      *zap.Logger
}

func NewRAGService(retriever Retriever, synthesizer Synthesizer, logger *zap.Logger) *RAGService {
	return &RAGService{
		retriever:   retriever,
		synthesizer: synthesizer,
		logger:      logger,
	}
}

// Answer produces the draft answer for a customer inquiry. The returned draft
// is never empty for valid input, even when every external collaborator is
// failing.
func (s *RAGService) Answer(ctx context.Context, inquiry string) (string, error) {
	if strings.TrimSpace(inquiry) == "" {
		return "", ErrInvalidInput
	}

	start := time.Now()
	passages := s.retriever.Retrieve(ctx, inquiry)
	retrievalDuration := time.Since(start)

	synthesisStart := time.Now()
	draft := s.synthesizer.Synthesize(ctx, inquiry, passages)

	s.logger.Info("Answer draft generated",
		zap.Int("passages", len(passages)),
		zap.Duration("retrieval", retrievalDuration),
		zap.Duration("synthesis", time.Since(synthesisStart)),
		zap.Duration("total", time.Since(start)),
	)

	return draft, nil
}
