package service

import (
	"context"
	"time"

	"ai-chatbot-be/internal/constant"
	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/pkg/logger"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ConversationService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]dto.ConversationResponse, error)
	GetMessages(ctx context.Context, userId, conversationId uuid.UUID) ([]dto.ChatHistoryMessageResponse, error)
	Delete(ctx context.Context, userId, conversationId uuid.UUID) error
}

type conversationService struct {
	factory unitofwork.RepositoryFactory
	log     logger.ILogger
}

func NewConversationService(factory unitofwork.RepositoryFactory, log logger.ILogger) ConversationService {
	return &conversationService{factory: factory, log: log}
}

func toConversationResponse(c *entity.Conversation) dto.ConversationResponse {
	return dto.ConversationResponse{
		Id:        c.Id.String(),
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// findOwned resolves a conversation and enforces ownership. A foreign
// conversation is reported as not found, never as forbidden.
func findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, conversationId uuid.UUID) (*entity.Conversation, error) {
	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, entity.ErrConversationNotFound
	}
	return conversation, nil
}

func (s *conversationService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error) {
	title := req.Title
	if title == "" {
		title = constant.DefaultConversationTitle
	}

	now := time.Now()
	conversation := &entity.Conversation{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, err
	}

	resp := toConversationResponse(conversation)
	return &resp, nil
}

func (s *conversationService) List(ctx context.Context, userId uuid.UUID) ([]dto.ConversationResponse, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		responses = append(responses, toConversationResponse(c))
	}
	return responses, nil
}

func (s *conversationService) GetMessages(ctx context.Context, userId, conversationId uuid.UUID) ([]dto.ChatHistoryMessageResponse, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	if _, err := findOwned(ctx, uow, userId, conversationId); err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ChatHistoryMessageResponse, 0, len(messages))
	for _, m := range messages {
		responses = append(responses, dto.ChatHistoryMessageResponse{
			Id:        m.Id.String(),
			Role:      m.Role,
			Content:   m.Content,
			Model:     m.Model,
			CreatedAt: m.CreatedAt,
		})
	}
	return responses, nil
}

func (s *conversationService) Delete(ctx context.Context, userId, conversationId uuid.UUID) error {
	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if _, err := findOwned(ctx, uow, userId, conversationId); err != nil {
		return err
	}

	if err := uow.ChatMessageRepository().DeleteByConversationId(ctx, conversationId); err != nil {
		return err
	}
	if err := uow.ConversationRepository().Delete(ctx, conversationId); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.log.Info("conversation_service", "conversation deleted", map[string]interface{}{
		"conversation_id": conversationId.String(),
	})
	return nil
}
