package dto

// ChannelioWebhookRequest mirrors the chat-platform payload fields this
// service consumes. The platform sends more; everything else is ignored.
type ChannelioWebhookRequest struct {
	Message *WebhookMessage `json:"message"`
	User    *WebhookUser    `json:"user"`
	Chat    *WebhookChat    `json:"chat"`
	Source  *WebhookSource  `json:"source"`
}

type WebhookMessage struct {
	Text string `json:"text"`
}

type WebhookUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type WebhookChat struct {
	ID string `json:"id"`
}

type WebhookSource struct {
	Type string `json:"type"`
}

type WebhookResponse struct {
	Success   bool   `json:"success"`
	RequestID string `json:"request_id"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}
