package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bikkkubo/yeni-auto/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureGenerator struct {
	lastRequest CompletionRequest
	completion  string
	err         error
}

func (g *captureGenerator) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	g.lastRequest = req
	if g.err != nil {
		return "", g.err
	}
	return g.completion, nil
}

func sizingPassages() []models.RetrievedPassage {
	return []models.RetrievedPassage{
		{Content: "サイズ表: A70, B70, C70", Metadata: map[string]string{"source": "size_chart"}},
		{Content: "返品は7日以内に承ります。", Metadata: map[string]string{"source": "policy"}},
	}
}

func TestSynthesizeBuildsGroundedRequest(t *testing.T) {
	gen := &captureGenerator{completion: "回答案です。"}
	svc := NewSynthesisService(gen, testRAGConfig(), zap.NewNop())

	draft := svc.Synthesize(context.Background(), "サイズ表を教えてください", sizingPassages())

	assert.Equal(t, "回答案です。", draft)
	assert.Equal(t, "サイズ表を教えてください", gen.lastRequest.UserMessage)
	assert.InDelta(t, 0.3, gen.lastRequest.Temperature, 1e-9)
	assert.Equal(t, 500, gen.lastRequest.MaxTokens)

	// Every passage and its source annotation lands in the system prompt,
	// together with the grounding instruction.
	prompt := gen.lastRequest.SystemPrompt
	assert.Contains(t, prompt, "参考情報のみを使用して")
	assert.Contains(t, prompt, "1. サイズ表: A70, B70, C70")
	assert.Contains(t, prompt, "(出典: size_chart)")
	assert.Contains(t, prompt, "2. 返品は7日以内に承ります。")
}

func TestSynthesizeFallsBackOnGenerationError(t *testing.T) {
	gen := &captureGenerator{err: errors.New("upstream timeout")}
	svc := NewSynthesisService(gen, testRAGConfig(), zap.NewNop())

	draft := svc.Synthesize(context.Background(), "サイズ表を教えてください", sizingPassages())

	require.NotEmpty(t, draft)
	assert.Equal(t, FallbackAnswer, draft)
}

func TestSynthesizeFallsBackOnEmptyCompletion(t *testing.T) {
	for _, completion := range []string{"", "   \n\t"} {
		gen := &captureGenerator{completion: completion}
		svc := NewSynthesisService(gen, testRAGConfig(), zap.NewNop())

		draft := svc.Synthesize(context.Background(), "サイズ表を教えてください", sizingPassages())
		assert.Equal(t, FallbackAnswer, draft)
	}
}

func TestSynthesizeTrimsAndSanitizesCompletion(t *testing.T) {
	gen := &captureGenerator{completion: "  回答\xffです。\n"}
	svc := NewSynthesisService(gen, testRAGConfig(), zap.NewNop())

	draft := svc.Synthesize(context.Background(), "サイズ表を教えてください", sizingPassages())

	assert.Equal(t, "回答です。", draft)
}
