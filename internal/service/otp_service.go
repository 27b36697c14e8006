package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"ai-chatbot-be/internal/constant"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/pkg/logger"
	"ai-chatbot-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type OtpService interface {
	// Issue generates a fresh code for the address and stores it,
	// atomically invalidating any previously issued code.
	Issue(ctx context.Context, email string) (string, error)

	// Consume validates the submitted code against the latest issued one
	// and deletes it on success. A consumed code can never be replayed.
	Consume(ctx context.Context, email, code string) error
}

type otpService struct {
	factory unitofwork.RepositoryFactory
	log     logger.ILogger
}

func NewOtpService(factory unitofwork.RepositoryFactory, log logger.ILogger) OtpService {
	return &otpService{factory: factory, log: log}
}

func generateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *otpService) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}
	defer uow.Rollback()

	// Replacing the record inside one transaction guarantees at most one
	// live code per address.
	if err := uow.OtpRepository().DeleteByEmail(ctx, email); err != nil {
		return "", err
	}

	now := time.Now()
	if err := uow.OtpRepository().Create(ctx, &entity.OtpCode{
		Id:        uuid.New(),
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(constant.OtpValidity),
		CreatedAt: now,
	}); err != nil {
		return "", err
	}

	if err := uow.Commit(); err != nil {
		return "", err
	}

	s.log.Info("otp_service", "otp issued", map[string]interface{}{"email": email})
	return code, nil
}

func (s *otpService) Consume(ctx context.Context, email, code string) error {
	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	stored, err := uow.OtpRepository().FindLatestByEmail(ctx, email)
	if err != nil {
		return err
	}

	// Wrong code and expired code are indistinguishable to the caller
	if stored == nil || stored.Code != code || stored.Expired(time.Now()) {
		return entity.ErrInvalidOrExpiredCode
	}

	if err := uow.OtpRepository().DeleteByEmail(ctx, email); err != nil {
		return err
	}

	return uow.Commit()
}
