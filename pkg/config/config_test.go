package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)

	assert.Equal(t, "text-embedding-3-small", cfg.OpenAI.EmbeddingModel)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAI.CompletionModel)

	assert.InDelta(t, 0.7, cfg.RAG.SimilarityThreshold, 1e-9)
	assert.Equal(t, 5, cfg.RAG.TopK)
	assert.Equal(t, 1536, cfg.RAG.EmbeddingDimensions)
	assert.InDelta(t, 0.3, cfg.RAG.Temperature, 1e-9)
	assert.Equal(t, 500, cfg.RAG.MaxCompletionTokens)

	assert.Empty(t, cfg.Webhook.Token)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RAG_SIMILARITY_THRESHOLD", "0.85")
	t.Setenv("RAG_TOP_K", "3")
	t.Setenv("OPENAI_COMPLETION_MODEL", "gpt-4o-mini")
	t.Setenv("WEBHOOK_TOKEN", "secret-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.InDelta(t, 0.85, cfg.RAG.SimilarityThreshold, 1e-9)
	assert.Equal(t, 3, cfg.RAG.TopK)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.CompletionModel)
	assert.Equal(t, "secret-token", cfg.Webhook.Token)
}
