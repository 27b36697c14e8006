package dto

type ChatMessagePayload struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required"`
}

type ChatStreamRequest struct {
	Messages       []ChatMessagePayload `json:"messages" validate:"required,min=1,dive"`
	Model          string               `json:"model"`
	ConversationId string               `json:"conversation_id"`
}

// StreamEvent is the wire format of a single SSE data frame
type StreamEvent struct {
	Content        string `json:"content,omitempty"`
	Done           bool   `json:"done,omitempty"`
	ConversationId string `json:"conversation_id,omitempty"`
	Error          string `json:"error,omitempty"`
}
