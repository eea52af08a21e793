package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/bikkkubo/yeni-auto/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const unknownCustomer = "不明な顧客"

// Answerer is the answer-pipeline boundary. Implemented by service.RAGService.
type Answerer interface {
	Answer(ctx context.Context, inquiry string) (string, error)
}

// Notifier is the operator-notification boundary. Implemented by
// notifier.SlackNotifier.
type Notifier interface {
	SendDraft(ctx context.Context, customerName, inquiry, draft, chatID string) error
	SendError(ctx context.Context, location string, cause error) error
}

type WebhookHandler struct {
	rag      Answerer
	notifier Notifier
	logger   *zap.Logger
}

func NewWebhookHandler(rag Answerer, notifier Notifier, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		rag:      rag,
		notifier: notifier,
		logger:   logger,
	}
}

// HandleInquiry processes an incoming chat message: runs the answer pipeline
// and forwards the draft to the operators. Pipeline degradation never yields
// a 5xx here; the only client errors are a malformed payload or an empty
// inquiry.
func (h *WebhookHandler) HandleInquiry(c *fiber.Ctx) error {
	requestID := uuid.New().String()
	ctx := c.UserContext()

	var req dto.ChannelioWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warn("Failed to parse webhook payload",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payload",
		})
	}

	var inquiry string
	if req.Message != nil {
		inquiry = strings.TrimSpace(req.Message.Text)
	}
	if inquiry == "" {
		h.logger.Warn("Webhook payload without inquiry text", zap.String("request_id", requestID))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Inquiry text is required",
		})
	}

	customerName := unknownCustomer
	if req.User != nil && req.User.Name != "" {
		customerName = req.User.Name
	}
	var chatID string
	if req.Chat != nil {
		chatID = req.Chat.ID
	}

	h.logger.Info("Inquiry received",
		zap.String("request_id", requestID),
		zap.String("customer", customerName),
		zap.String("chat_id", chatID),
		zap.Int("inquiry_length", len(inquiry)),
	)

	draft, err := h.rag.Answer(ctx, inquiry)
	if err != nil {
		// Only invalid input surfaces from the pipeline; the emptiness check
		// above makes this unreachable in practice.
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := h.notifier.SendDraft(ctx, customerName, inquiry, draft, chatID); err != nil {
		h.logger.Error("Failed to notify operators",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		if notifyErr := h.notifier.SendError(ctx, "slack-notification", err); notifyErr != nil {
			h.logger.Error("Failed to send error notification", zap.Error(notifyErr))
		}
	}

	return c.JSON(dto.WebhookResponse{
		Success:   true,
		RequestID: requestID,
		Message:   "Webhookの処理が完了しました",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Readiness answers GET probes on the webhook path so the chat platform can
// verify the endpoint before enabling delivery.
func (h *WebhookHandler) Readiness(c *fiber.Ctx) error {
	return c.JSON(dto.WebhookResponse{
		Success:   true,
		RequestID: uuid.New().String(),
		Message:   "Webhookは問い合わせを受け付ける準備ができています",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
