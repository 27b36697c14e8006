package contract

import (
	"context"
	"time"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// MarkVerified flips the verified flag; the flag is set exactly once,
	// on the first successful OTP consumption.
	MarkVerified(ctx context.Context, userId uuid.UUID, at time.Time) error
}
