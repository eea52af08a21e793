package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bikkkubo/yeni-auto/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

// DocumentRepository stores knowledge documents in the documents table and
// runs cosine similarity search over their pgvector embeddings.
type DocumentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewDocumentRepository(db *pgxpool.Pool, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *models.KnowledgeDocument) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := squirrel.Insert("documents").
		Columns("id", "content", "metadata", "embedding", "created_at", "updated_at").
		Values(doc.ID, doc.Content, metadataJSON, pgvector.NewVector(doc.Embedding), doc.CreatedAt, doc.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// SearchSimilar returns the passages whose cosine similarity against the
// query embedding is at least threshold, most similar first, at most limit
// rows. The pgvector <=> operator yields cosine distance, so similarity is
// 1 - distance.
func (r *DocumentRepository) SearchSimilar(ctx context.Context, embedding []float32, threshold float64, limit int) ([]models.RetrievedPassage, error) {
	sql, args, err := buildSimilarityQuery(embedding, threshold, limit)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("similarity search query: %w", err)
	}
	defer rows.Close()

	var passages []models.RetrievedPassage
	for rows.Next() {
		var content string
		var metadataJSON []byte
		var similarity float64

		if err := rows.Scan(&content, &metadataJSON, &similarity); err != nil {
			return nil, fmt.Errorf("scanning passage row: %w", err)
		}

		var metadata map[string]string
		if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
			r.logger.Warn("Failed to parse document metadata", zap.Error(err))
			metadata = map[string]string{}
		}

		passages = append(passages, models.RetrievedPassage{
			Content:    content,
			Metadata:   metadata,
			Similarity: similarity,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading passage rows: %w", err)
	}

	return passages, nil
}

func buildSimilarityQuery(embedding []float32, threshold float64, limit int) (string, []interface{}, error) {
	vec := pgvector.NewVector(embedding)

	return squirrel.Select("content", "metadata").
		Column("1 - (embedding <=> ?) AS similarity", vec).
		From("documents").
		Where("1 - (embedding <=> ?) >= ?", vec, threshold).
		OrderBy("similarity DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}
