package contract

import (
	"context"
	"time"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdateTitle rewrites the title and touches updated_at.
	UpdateTitle(ctx context.Context, id uuid.UUID, title string, at time.Time) error

	// Touch only moves updated_at forward.
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
}
