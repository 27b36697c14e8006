package memory

import (
	"context"
	"sort"
	"time"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type conversationRepository struct {
	store *Store
}

func matchConversation(c *entity.Conversation, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if c.Id != s.ID {
				return false
			}
		case specification.UserOwnedBy:
			if c.UserId != s.UserID {
				return false
			}
		}
	}
	return true
}

func (r *conversationRepository) Create(ctx context.Context, conversation *entity.Conversation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if conversation.Id == uuid.Nil {
		conversation.Id = uuid.New()
	}
	clone := *conversation
	r.store.conversations[conversation.Id] = &clone
	return nil
}

func (r *conversationRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, c := range r.store.conversations {
		if matchConversation(c, specs) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *conversationRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var result []*entity.Conversation
	for _, c := range r.store.conversations {
		if matchConversation(c, specs) {
			clone := *c
			result = append(result, &clone)
		}
	}
	for _, spec := range specs {
		if order, ok := spec.(specification.OrderBy); ok {
			sortConversations(result, order)
		}
	}
	return result, nil
}

func sortConversations(convs []*entity.Conversation, order specification.OrderBy) {
	sort.Slice(convs, func(i, j int) bool {
		var ti, tj time.Time
		switch order.Field {
		case "updated_at":
			ti, tj = convs[i].UpdatedAt, convs[j].UpdatedAt
		default:
			ti, tj = convs[i].CreatedAt, convs[j].CreatedAt
		}
		if order.Desc {
			return ti.After(tj)
		}
		return ti.Before(tj)
	})
}

func (r *conversationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.conversations, id)
	return nil
}

func (r *conversationRepository) UpdateTitle(ctx context.Context, id uuid.UUID, title string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if c, ok := r.store.conversations[id]; ok {
		c.Title = title
		c.UpdatedAt = at
	}
	return nil
}

func (r *conversationRepository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if c, ok := r.store.conversations[id]; ok {
		c.UpdatedAt = at
	}
	return nil
}
