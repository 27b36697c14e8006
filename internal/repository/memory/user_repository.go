package memory

import (
	"context"
	"time"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type userRepository struct {
	store *Store
}

func matchUser(u *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByEmail:
			if u.Email != s.Email {
				return false
			}
		case specification.ByID:
			if u.Id != s.ID {
				return false
			}
		}
	}
	return true
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	clone := *user
	r.store.users[user.Id] = &clone
	return nil
}

func (r *userRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if matchUser(u, specs) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *userRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, u := range r.store.users {
		if matchUser(u, specs) {
			count++
		}
	}
	return count, nil
}

func (r *userRepository) MarkVerified(ctx context.Context, userId uuid.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if u, ok := r.store.users[userId]; ok {
		u.EmailVerified = true
		verifiedAt := at
		u.EmailVerifiedAt = &verifiedAt
	}
	return nil
}
