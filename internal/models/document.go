package models

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeDocument is a knowledge base entry with its precomputed embedding.
// Documents are created at ingestion time (cmd/seed) and read-only afterwards.
type KnowledgeDocument struct {
	ID        uuid.UUID         `db:"id"`
	Content   string            `db:"content"`
	Metadata  map[string]string `db:"metadata"`
	Embedding []float32         `db:"embedding"`
	CreatedAt time.Time         `db:"created_at"`
	UpdatedAt time.Time         `db:"updated_at"`
}

// RetrievedPassage is the slice of a KnowledgeDocument that similarity search
// hands to answer synthesis: content and metadata, embedding dropped.
// Similarity is the cosine similarity against the query vector, in [0,1].
type RetrievedPassage struct {
	Content    string
	Metadata   map[string]string
	Similarity float64
}
