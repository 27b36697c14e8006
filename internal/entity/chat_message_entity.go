package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleSystem    = "system"
)

// ChatMessage is a single turn of a conversation transcript.
// Append-only; ordered by CreatedAt within a conversation.
type ChatMessage struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	ConversationId uuid.UUID
	Role           string
	Content        string
	Model          string
	CreatedAt      time.Time
}
