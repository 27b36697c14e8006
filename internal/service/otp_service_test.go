package service

import (
	"context"
	"testing"
	"time"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOtpService() (OtpService, *memory.Store) {
	store := memory.NewStore()
	return NewOtpService(memory.NewFactory(store), nopLogger{}), store
}

func TestOtpIssueAndConsume(t *testing.T) {
	svc, _ := newOtpService()
	ctx := context.Background()

	code, err := svc.Issue(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Len(t, code, 6)

	err = svc.Consume(ctx, "alice@example.com", code)
	assert.NoError(t, err)
}

func TestOtpConsumeIsSingleUse(t *testing.T) {
	svc, _ := newOtpService()
	ctx := context.Background()

	code, err := svc.Issue(ctx, "alice@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Consume(ctx, "alice@example.com", code))

	err = svc.Consume(ctx, "alice@example.com", code)
	assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredCode)
}

func TestOtpReissueInvalidatesPreviousCode(t *testing.T) {
	svc, _ := newOtpService()
	ctx := context.Background()

	first, err := svc.Issue(ctx, "alice@example.com")
	require.NoError(t, err)

	second, err := svc.Issue(ctx, "alice@example.com")
	require.NoError(t, err)

	// The old code is gone even in the unlikely event both codes match
	if first != second {
		err = svc.Consume(ctx, "alice@example.com", first)
		assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredCode)
	}

	assert.NoError(t, svc.Consume(ctx, "alice@example.com", second))
}

func TestOtpWrongCodeRejected(t *testing.T) {
	svc, _ := newOtpService()
	ctx := context.Background()

	code, err := svc.Issue(ctx, "alice@example.com")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	err = svc.Consume(ctx, "alice@example.com", wrong)
	assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredCode)

	// A failed attempt does not burn the stored code
	assert.NoError(t, svc.Consume(ctx, "alice@example.com", code))
}

func TestOtpExpiredCodeRejected(t *testing.T) {
	store := memory.NewStore()
	factory := memory.NewFactory(store)
	svc := NewOtpService(factory, nopLogger{})
	ctx := context.Background()

	// Plant a code that expired a minute ago
	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.OtpRepository().Create(ctx, &entity.OtpCode{
		Id:        uuid.New(),
		Email:     "alice@example.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-11 * time.Minute),
	}))

	err := svc.Consume(ctx, "alice@example.com", "123456")
	assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredCode)
}

func TestOtpUnknownEmailRejected(t *testing.T) {
	svc, _ := newOtpService()

	err := svc.Consume(context.Background(), "nobody@example.com", "123456")
	assert.ErrorIs(t, err, entity.ErrInvalidOrExpiredCode)
}
