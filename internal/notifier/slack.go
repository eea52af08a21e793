// Package notifier delivers draft answers and pipeline errors to the
// operator-facing Slack channels. Delivery is best-effort: the answer
// pipeline never depends on a notification succeeding.
package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/bikkkubo/yeni-auto/pkg/config"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

type SlackNotifier struct {
	client         *slack.Client
	channelID      string
	errorChannelID string
	logger         *zap.Logger
}

func NewSlackNotifier(cfg *config.SlackConfig, logger *zap.Logger) *SlackNotifier {
	opts := []slack.Option{}
	if cfg.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(cfg.APIURL))
	}

	return &SlackNotifier{
		client:         slack.New(cfg.BotToken, opts...),
		channelID:      cfg.ChannelID,
		errorChannelID: cfg.ErrorChannelID,
		logger:         logger,
	}
}

// SendDraft posts the inquiry and its draft answer to the operator channel
// for review before delivery to the customer.
func (n *SlackNotifier) SendDraft(ctx context.Context, customerName, inquiry, draft, chatID string) error {
	var chatLink string
	if chatID != "" {
		chatLink = fmt.Sprintf("<https://desk.channel.io/#/chats/%s|Channelioで確認>\n", chatID)
	}

	message := fmt.Sprintf(`*%sからの新規お問い合わせ*
%s
*お問い合わせ内容:*
%s

*AI回答案:*
%s

_内容を確認のうえ、Channelioからお客様にご返信ください。_`, customerName, chatLink, inquiry, draft)

	_, _, err := n.client.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionDisableLinkUnfurl(),
		slack.MsgOptionDisableMediaUnfurl(),
	)
	if err != nil {
		return fmt.Errorf("posting draft to operator channel: %w", err)
	}

	return nil
}

// SendError reports a processing failure to the error channel. Missing error
// channel configuration downgrades to a log entry.
func (n *SlackNotifier) SendError(ctx context.Context, location string, cause error) error {
	if n.errorChannelID == "" {
		n.logger.Error("Error channel not configured, dropping error notification",
			zap.String("location", location),
			zap.Error(cause),
		)
		return nil
	}

	message := fmt.Sprintf(`*自動回答システムでエラーが発生しました*
*場所:* %s
*エラー:* %s
*時刻:* %s`, location, cause.Error(), time.Now().UTC().Format(time.RFC3339))

	_, _, err := n.client.PostMessageContext(ctx, n.errorChannelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		return fmt.Errorf("posting error notification: %w", err)
	}

	return nil
}
