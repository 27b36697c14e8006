package memory

import (
	"context"
	"sort"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type chatMessageRepository struct {
	store *Store
}

func matchMessage(m *entity.ChatMessage, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByConversationID:
			if m.ConversationId != s.ConversationID {
				return false
			}
		case specification.ByRole:
			if m.Role != s.Role {
				return false
			}
		case specification.UserOwnedBy:
			if m.UserId != s.UserID {
				return false
			}
		}
	}
	return true
}

func (r *chatMessageRepository) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	clone := *message
	r.store.messages = append(r.store.messages, &clone)
	return nil
}

func (r *chatMessageRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var result []*entity.ChatMessage
	for _, m := range r.store.messages {
		if matchMessage(m, specs) {
			clone := *m
			result = append(result, &clone)
		}
	}
	for _, spec := range specs {
		if order, ok := spec.(specification.OrderBy); ok {
			desc := order.Desc
			sort.Slice(result, func(i, j int) bool {
				if desc {
					return result[i].CreatedAt.After(result[j].CreatedAt)
				}
				return result[i].CreatedAt.Before(result[j].CreatedAt)
			})
		}
	}
	return result, nil
}

func (r *chatMessageRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, m := range r.store.messages {
		if matchMessage(m, specs) {
			count++
		}
	}
	return count, nil
}

func (r *chatMessageRepository) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.messages[:0]
	for _, m := range r.store.messages {
		if m.ConversationId != conversationId {
			kept = append(kept, m)
		}
	}
	r.store.messages = kept
	return nil
}
