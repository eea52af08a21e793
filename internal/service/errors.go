package service

import "errors"

// Failure taxonomy for the answer pipeline.
//
// Only ErrInvalidInput ever crosses the RAGService boundary. The remaining
// errors classify faults that the pipeline absorbs through fallback
// substitution: degraded retrieval swaps in the default passage set, failed
// synthesis swaps in the static apology answer.
var (
	ErrInvalidInput        = errors.New("inquiry text is empty")
	ErrProviderUnavailable = errors.New("embedding provider unavailable")
	ErrRetrievalDegraded   = errors.New("no qualifying passages retrieved")
	ErrSynthesisFailed     = errors.New("answer generation failed")
)
