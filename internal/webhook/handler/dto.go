package handler

// WebhookEventRequest is the payload Meta delivers to the webhook endpoint.
// Only the fields this service reads are modeled; everything else in the
// notification is ignored.
type WebhookEventRequest struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry is one account-level entry in a webhook notification
type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange is one change notification within an entry
type WebhookChange struct {
	Field string             `json:"field"`
	Value WebhookChangeValue `json:"value"`
}

// WebhookChangeValue carries the actual messages of a change
type WebhookChangeValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Messages         []WebhookMessage `json:"messages"`
}

// WebhookMessage is one user message inside a change value
type WebhookMessage struct {
	ID        string       `json:"id"`
	From      string       `json:"from"`
	Timestamp string       `json:"timestamp"`
	Type      string       `json:"type"`
	Text      *WebhookText `json:"text,omitempty"`
}

// WebhookText is the body of a text message
type WebhookText struct {
	Body string `json:"body"`
}

// MessageRecordResponse represents one processed message in API responses
type MessageRecordResponse struct {
	MessageID     string `json:"message_id"`
	CorrelationID string `json:"correlation_id"`
	Intent        string `json:"intent"`
	Status        string `json:"status"`
	Reply         string `json:"reply"`
	FailureReason string `json:"failure_reason,omitempty"`
	ReceivedAt    string `json:"received_at"`
	ProcessedAt   string `json:"processed_at"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
