package main

import (
	"context"
	"crypto/md5"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/bikkkubo/yeni-auto/internal/models"
	"github.com/bikkkubo/yeni-auto/internal/repository"
	"github.com/bikkkubo/yeni-auto/internal/service"
	"github.com/bikkkubo/yeni-auto/pkg/config"
	"github.com/bikkkubo/yeni-auto/pkg/logger"
	"github.com/bikkkubo/yeni-auto/pkg/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Seeds the knowledge base: reads CSV knowledge files (content, source,
// category) from cmd/seed/data, embeds each row once, and inserts the
// documents. A content-hash cache lets re-runs skip rows that were already
// embedded. With no CSV files present, the built-in default passage set is
// seeded so a fresh install can answer sizing questions out of the box.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := ensureSchema(ctx, db, cfg.RAG.EmbeddingDimensions); err != nil {
		appLogger.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	docRepo := repository.NewDocumentRepository(db, appLogger)
	embedder := service.NewEmbeddingService(&cfg.OpenAI, &cfg.RAG, appLogger)

	appLogger.Info("Starting knowledge base seeding")

	seedDir := filepath.Join("cmd", "seed", "data")
	cacheFile := filepath.Join("cmd", "seed", ".seed_cache.json")
	if err := seedKnowledgeBase(ctx, seedDir, cacheFile, docRepo, embedder, appLogger); err != nil {
		appLogger.Fatal("Failed to seed knowledge base", zap.Error(err))
	}

	appLogger.Info("Knowledge base seeding completed")
}

// ensureSchema creates the vector extension and the documents table so a
// fresh database can be seeded without a separate migration step.
func ensureSchema(ctx context.Context, db *pgxpool.Pool, dims int) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY,
			content TEXT NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}',
			embedding vector(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`, dims),
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	return nil
}

// seedEntry is one knowledge base row read from a CSV file.
type seedEntry struct {
	Content  string
	Metadata map[string]string
}

// CacheData records which rows were already embedded and inserted,
// keyed by content hash.
type CacheData struct {
	SeededRows map[string]time.Time `json:"seeded_rows"`
}

func loadCache(cacheFile string) (*CacheData, error) {
	cache := &CacheData{SeededRows: make(map[string]time.Time)}

	data, err := os.ReadFile(cacheFile)
	if os.IsNotExist(err) {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(data) == 0 {
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if cache.SeededRows == nil {
		cache.SeededRows = make(map[string]time.Time)
	}

	return cache, nil
}

func saveCache(cacheFile string, cache *CacheData) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

func contentHash(content string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(content)))
}

func seedKnowledgeBase(
	ctx context.Context,
	seedDir string,
	cacheFile string,
	repo *repository.DocumentRepository,
	embedder *service.EmbeddingService,
	logger *zap.Logger,
) error {
	cache, err := loadCache(cacheFile)
	if err != nil {
		logger.Warn("Failed to load cache, will process all rows", zap.Error(err))
		cache = &CacheData{SeededRows: make(map[string]time.Time)}
	}

	entries, err := readSeedEntries(seedDir, logger)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		logger.Info("No CSV seed files found, seeding built-in default passages")
		for _, passage := range service.DefaultPassages() {
			entries = append(entries, seedEntry{Content: passage.Content, Metadata: passage.Metadata})
		}
	}

	var inserted, skipped int
	for _, entry := range entries {
		hash := contentHash(entry.Content)
		if seededAt, exists := cache.SeededRows[hash]; exists {
			logger.Debug("Row already seeded, skipping",
				zap.String("hash", hash),
				zap.Time("seeded_at", seededAt),
			)
			skipped++
			continue
		}

		embedding, err := embedder.Embed(ctx, entry.Content)
		if err != nil {
			return fmt.Errorf("embedding seed row: %w", err)
		}

		now := time.Now()
		doc := &models.KnowledgeDocument{
			ID:        uuid.New(),
			Content:   entry.Content,
			Metadata:  entry.Metadata,
			Embedding: embedding,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("inserting seed document: %w", err)
		}

		cache.SeededRows[hash] = now
		inserted++
	}

	if err := saveCache(cacheFile, cache); err != nil {
		logger.Warn("Failed to save cache", zap.Error(err))
	}

	logger.Info("Seed run finished",
		zap.Int("inserted", inserted),
		zap.Int("skipped", skipped),
	)

	return nil
}

// readSeedEntries reads every CSV file in seedDir. Expected header:
// content,source,category. Extra columns are ignored.
func readSeedEntries(seedDir string, logger *zap.Logger) ([]seedEntry, error) {
	csvFiles, err := filepath.Glob(filepath.Join(seedDir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("listing seed files: %w", err)
	}

	var entries []seedEntry
	for _, csvFile := range csvFiles {
		fileEntries, err := readSeedFile(csvFile)
		if err != nil {
			logger.Warn("Skipping unreadable seed file",
				zap.String("path", csvFile),
				zap.Error(err),
			)
			continue
		}
		logger.Info("Read seed file",
			zap.String("path", csvFile),
			zap.Int("rows", len(fileEntries)),
		)
		entries = append(entries, fileEntries...)
	}

	return entries, nil
}

func readSeedFile(path string) ([]seedEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 1 || header[0] != "content" {
		return nil, fmt.Errorf("unexpected header %v, want content,source,category", header)
	}

	var entries []seedEntry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if len(record) == 0 || record[0] == "" {
			continue
		}

		metadata := map[string]string{}
		if len(record) > 1 && record[1] != "" {
			metadata["source"] = record[1]
		}
		if len(record) > 2 && record[2] != "" {
			metadata["category"] = record[2]
		}

		entries = append(entries, seedEntry{Content: record[0], Metadata: metadata})
	}

	return entries, nil
}
