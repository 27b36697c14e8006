package contract

import (
	"context"

	"ai-chatbot-be/internal/entity"
)

type OtpRepository interface {
	Create(ctx context.Context, code *entity.OtpCode) error

	// FindLatestByEmail returns the most recently issued code for the
	// address, or nil when none exists.
	FindLatestByEmail(ctx context.Context, email string) (*entity.OtpCode, error)

	DeleteByEmail(ctx context.Context, email string) error
}
