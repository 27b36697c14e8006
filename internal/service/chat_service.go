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
	"ai-chatbot-be/pkg/llm"

	"github.com/google/uuid"
)

type ChatService interface {
	// StreamChat relays the chat history to the model and forwards each
	// content delta to emit in arrival order. Once the upstream stream
	// ends cleanly and a conversation id was supplied, the final user
	// turn and the assistant reply are recorded in a single transaction;
	// an aborted stream or an id-less request records nothing.
	StreamChat(ctx context.Context, userId uuid.UUID, req *dto.ChatStreamRequest, emit func(dto.StreamEvent) error) error
}

type chatService struct {
	factory  unitofwork.RepositoryFactory
	provider llm.LLMProvider
	log      logger.ILogger
}

func NewChatService(factory unitofwork.RepositoryFactory, provider llm.LLMProvider, log logger.ILogger) ChatService {
	return &chatService{factory: factory, provider: provider, log: log}
}

func truncateTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= constant.TitleMaxLength {
		return content
	}
	return string(runes[:constant.TitleMaxLength]) + "..."
}

// lastUserMessage returns the newest user turn in the submitted history.
func lastUserMessage(messages []dto.ChatMessagePayload) *dto.ChatMessagePayload {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == entity.ChatRoleUser {
			return &messages[i]
		}
	}
	return nil
}

// resolveConversation validates the supplied conversation id against the
// caller. Requests without an id run as ephemeral chats and return nil.
func (s *chatService) resolveConversation(ctx context.Context, userId uuid.UUID, conversationId string) (*entity.Conversation, error) {
	if conversationId == "" {
		return nil, nil
	}

	id, err := uuid.Parse(conversationId)
	if err != nil {
		return nil, entity.ErrConversationNotFound
	}
	uow := s.factory.NewUnitOfWork(ctx)
	return findOwned(ctx, uow, userId, id)
}

func (s *chatService) StreamChat(ctx context.Context, userId uuid.UUID, req *dto.ChatStreamRequest, emit func(dto.StreamEvent) error) error {
	conversation, err := s.resolveConversation(ctx, userId, req.ConversationId)
	if err != nil {
		return err
	}

	model := req.Model
	if model == "" {
		model = constant.DefaultChatModel
	}

	history := make([]llm.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}

	full, err := s.provider.ChatStream(ctx, history, func(delta string) error {
		return emit(dto.StreamEvent{Content: delta})
	}, llm.WithModel(model))
	if err != nil {
		// The transcript is only written after a clean upstream end, so
		// an aborted stream leaves no partial assistant turn behind.
		s.log.Warn("chat_service", "stream aborted before completion", map[string]interface{}{
			"conversation_id": req.ConversationId,
			"error":           err.Error(),
		})
		return err
	}

	if conversation == nil {
		return emit(dto.StreamEvent{Done: true})
	}

	if err := s.recordExchange(ctx, userId, conversation, req.Messages, full, model); err != nil {
		s.log.Error("chat_service", "failed to record chat history", map[string]interface{}{
			"conversation_id": conversation.Id.String(),
			"error":           err.Error(),
		})
		return err
	}

	return emit(dto.StreamEvent{Done: true, ConversationId: conversation.Id.String()})
}

// recordExchange persists the final user turn and the assistant reply
// atomically, and titles the conversation after its first user turn.
func (s *chatService) recordExchange(ctx context.Context, userId uuid.UUID, conversation *entity.Conversation, messages []dto.ChatMessagePayload, reply, model string) error {
	userTurn := lastUserMessage(messages)

	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	// Counted before the insert: zero prior user turns means this
	// exchange is the one that names the conversation.
	priorUserTurns, err := uow.ChatMessageRepository().Count(ctx,
		specification.ByConversationID{ConversationID: conversation.Id},
		specification.ByRole{Role: entity.ChatRoleUser},
	)
	if err != nil {
		return err
	}

	now := time.Now()
	if userTurn != nil {
		if err := uow.ChatMessageRepository().Create(ctx, &entity.ChatMessage{
			Id:             uuid.New(),
			UserId:         userId,
			ConversationId: conversation.Id,
			Role:           entity.ChatRoleUser,
			Content:        userTurn.Content,
			Model:          model,
			CreatedAt:      now,
		}); err != nil {
			return err
		}
	}

	if err := uow.ChatMessageRepository().Create(ctx, &entity.ChatMessage{
		Id:             uuid.New(),
		UserId:         userId,
		ConversationId: conversation.Id,
		Role:           entity.ChatRoleAssistant,
		Content:        reply,
		Model:          model,
		CreatedAt:      now.Add(time.Millisecond),
	}); err != nil {
		return err
	}

	if priorUserTurns == 0 && userTurn != nil {
		if err := uow.ConversationRepository().UpdateTitle(ctx, conversation.Id, truncateTitle(userTurn.Content), now); err != nil {
			return err
		}
	} else {
		if err := uow.ConversationRepository().Touch(ctx, conversation.Id, now); err != nil {
			return err
		}
	}

	return uow.Commit()
}
