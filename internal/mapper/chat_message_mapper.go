package mapper

import (
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/model"
)

type ChatMessageMapper struct{}

func NewChatMessageMapper() *ChatMessageMapper {
	return &ChatMessageMapper{}
}

func (m *ChatMessageMapper) ToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}
	return &entity.ChatMessage{
		Id:             msg.Id,
		UserId:         msg.UserId,
		ConversationId: msg.ConversationId,
		Role:           msg.Role,
		Content:        msg.Content,
		Model:          msg.Model,
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *ChatMessageMapper) ToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}
	return &model.ChatMessage{
		Id:             msg.Id,
		UserId:         msg.UserId,
		ConversationId: msg.ConversationId,
		Role:           msg.Role,
		Content:        msg.Content,
		Model:          msg.Model,
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *ChatMessageMapper) ToEntities(msgs []*model.ChatMessage) []*entity.ChatMessage {
	result := make([]*entity.ChatMessage, len(msgs))
	for i, msg := range msgs {
		result[i] = m.ToEntity(msg)
	}
	return result
}
