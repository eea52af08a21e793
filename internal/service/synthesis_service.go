package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bikkkubo/yeni-auto/internal/models"
	"github.com/bikkkubo/yeni-auto/pkg/config"

	"go.uber.org/zap"
)

// groundingInstruction pins the model to the supplied passages. The
// no-hallucination contract is enforced by instruction only; the draft is
// reviewed by a human operator before delivery.
const groundingInstruction = `あなたは親切で丁寧な顧客サポートアシスタントです。
以下の参考情報のみを使用して、問い合わせに対する回答を日本語で生成してください。
回答は丁寧で、敬語を使い、簡潔に情報を提供してください。
参考情報に答えが含まれていない場合は、正直に「その情報は持ち合わせていません」とお伝えください。
参考情報にない事実を決して作り出さないでください。`

// FallbackAnswer is handed to operators when draft generation fails.
const FallbackAnswer = "申し訳ありませんが、技術的な問題により回答を生成できませんでした。スタッフが直接対応いたします。"

// SynthesisService builds the grounded generation request and produces the
// draft answer. It never returns an error: any generation failure or empty
// completion is replaced with FallbackAnswer, so the orchestrator always has
// a draft to hand to the operator.
type SynthesisService struct {
	generator GenerationClient
	config    *config.RAGConfig
	logger    *zap.Logger
}

func NewSynthesisService(generator GenerationClient, cfg *config.RAGConfig, logger *zap.Logger) *SynthesisService {
	return &SynthesisService{
		generator: generator,
		config:    cfg,
		logger:    logger,
	}
}

// Synthesize produces the draft answer for an inquiry grounded in the given
// passages.
func (s *SynthesisService) Synthesize(ctx context.Context, inquiry string, passages []models.RetrievedPassage) string {
	req := CompletionRequest{
		SystemPrompt: buildSystemPrompt(passages),
		UserMessage:  inquiry,
		Temperature:  s.config.Temperature,
		MaxTokens:    s.config.MaxCompletionTokens,
	}

	text, err := s.generator.Complete(ctx, req)
	if err != nil {
		s.logger.Warn("Draft generation failed, substituting fallback answer",
			zap.Error(fmt.Errorf("%w: %v", ErrSynthesisFailed, err)))
		return FallbackAnswer
	}

	draft := strings.TrimSpace(sanitizeUTF8(text))
	if draft == "" {
		s.logger.Warn("Empty completion, substituting fallback answer",
			zap.Error(ErrSynthesisFailed))
		return FallbackAnswer
	}

	return draft
}

func buildSystemPrompt(passages []models.RetrievedPassage) string {
	var builder strings.Builder
	builder.WriteString(groundingInstruction)
	builder.WriteString("\n\n参考情報:\n")

	for i, passage := range passages {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, passage.Content))
		if source := passage.Metadata["source"]; source != "" {
			builder.WriteString(fmt.Sprintf("   (出典: %s)\n", source))
		}
	}

	return builder.String()
}
