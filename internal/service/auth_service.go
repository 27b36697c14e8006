package service

import (
	"context"
	"time"

	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/pkg/logger"
	"ai-chatbot-be/internal/pkg/serverutils"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/internal/repository/unitofwork"
	"ai-chatbot-be/pkg/events"
	natspkg "ai-chatbot-be/pkg/nats"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyEmail(ctx context.Context, req *dto.VerifyOtpRequest) (*dto.AuthTokenResponse, error)
	ResendOtp(ctx context.Context, req *dto.ResendOtpRequest) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	VerifyLoginOtp(ctx context.Context, req *dto.VerifyOtpRequest) (*dto.AuthTokenResponse, error)
	Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
}

type authService struct {
	factory   unitofwork.RepositoryFactory
	otp       OtpService
	mail      MailDispatchService
	publisher *natspkg.Publisher
	log       logger.ILogger
}

func NewAuthService(
	factory unitofwork.RepositoryFactory,
	otp OtpService,
	mail MailDispatchService,
	publisher *natspkg.Publisher,
	log logger.ILogger,
) AuthService {
	return &authService{
		factory:   factory,
		otp:       otp,
		mail:      mail,
		publisher: publisher,
		log:       log,
	}
}

func toUserResponse(user *entity.User) dto.UserResponse {
	createdAt := user.CreatedAt
	return dto.UserResponse{
		Id:            user.Id.String(),
		Email:         user.Email,
		Name:          user.Name,
		EmailVerified: user.EmailVerified,
		CreatedAt:     &createdAt,
	}
}

func (s *authService) findUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	return uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
}

func (s *authService) sendOtp(ctx context.Context, user *entity.User, purpose string) error {
	code, err := s.otp.Issue(ctx, user.Email)
	if err != nil {
		return err
	}
	return s.mail.Dispatch(ctx, dto.OtpMailMessage{
		Email:   user.Email,
		Name:    user.Name,
		Code:    code,
		Purpose: purpose,
	})
}

func (s *authService) publishEvent(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("auth_service", "failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	count, err := uow.UserRepository().Count(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, entity.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if err := s.sendOtp(ctx, user, "verify_email"); err != nil {
		// Account exists either way; the client can hit resend-otp
		s.log.Error("auth_service", "failed to issue registration otp", map[string]interface{}{
			"email": user.Email,
			"error": err.Error(),
		})
	}

	s.publishEvent(ctx, events.NewUserRegisteredEvent(user.Id.String(), user.Email))
	s.log.Info("auth_service", "user registered", map[string]interface{}{"email": user.Email})

	return &dto.RegisterResponse{
		Message: "Registration successful. Please check your email for the verification code.",
		Email:   user.Email,
	}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *dto.VerifyOtpRequest) (*dto.AuthTokenResponse, error) {
	user, err := s.findUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	// An unregistered address is indistinguishable from a bad code
	if user == nil {
		return nil, entity.ErrInvalidOrExpiredCode
	}
	if user.EmailVerified {
		return nil, entity.ErrAlreadyVerified
	}

	if err := s.otp.Consume(ctx, req.Email, req.OtpCode); err != nil {
		return nil, err
	}

	now := time.Now()
	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.UserRepository().MarkVerified(ctx, user.Id, now); err != nil {
		return nil, err
	}
	user.EmailVerified = true
	user.EmailVerifiedAt = &now

	token, err := serverutils.GenerateToken(user.Id, user.Email)
	if err != nil {
		return nil, err
	}

	s.log.Info("auth_service", "email verified", map[string]interface{}{"email": user.Email})
	return &dto.AuthTokenResponse{Token: token, User: toUserResponse(user)}, nil
}

func (s *authService) ResendOtp(ctx context.Context, req *dto.ResendOtpRequest) error {
	user, err := s.findUserByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return entity.ErrUserNotFound
	}
	if user.EmailVerified {
		return entity.ErrAlreadyVerified
	}
	return s.sendOtp(ctx, user, "verify_email")
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.findUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	// Unknown email and wrong password are reported identically
	if user == nil {
		return nil, entity.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, entity.ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return nil, entity.ErrNotVerified
	}

	// Correct password alone never yields a token; a second factor is
	// always required.
	if err := s.sendOtp(ctx, user, "login"); err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		RequiresOtp: true,
		Email:       user.Email,
		Message:     "Verification code sent to your email.",
	}, nil
}

func (s *authService) VerifyLoginOtp(ctx context.Context, req *dto.VerifyOtpRequest) (*dto.AuthTokenResponse, error) {
	user, err := s.findUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, entity.ErrInvalidOrExpiredCode
	}

	if err := s.otp.Consume(ctx, req.Email, req.OtpCode); err != nil {
		return nil, err
	}

	token, err := serverutils.GenerateToken(user.Id, user.Email)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewUserLoginEvent(user.Id.String(), user.Email))
	s.log.Info("auth_service", "user logged in", map[string]interface{}{"email": user.Email})

	return &dto.AuthTokenResponse{Token: token, User: toUserResponse(user)}, nil
}

func (s *authService) Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, entity.ErrUserNotFound
	}
	resp := toUserResponse(user)
	return &resp, nil
}
