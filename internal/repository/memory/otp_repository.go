package memory

import (
	"context"

	"ai-chatbot-be/internal/entity"

	"github.com/google/uuid"
)

type otpRepository struct {
	store *Store
}

func (r *otpRepository) Create(ctx context.Context, code *entity.OtpCode) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if code.Id == uuid.Nil {
		code.Id = uuid.New()
	}
	clone := *code
	r.store.otps = append(r.store.otps, &clone)
	return nil
}

func (r *otpRepository) FindLatestByEmail(ctx context.Context, email string) (*entity.OtpCode, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var latest *entity.OtpCode
	for _, o := range r.store.otps {
		if o.Email != email {
			continue
		}
		if latest == nil || o.CreatedAt.After(latest.CreatedAt) {
			latest = o
		}
	}
	if latest == nil {
		return nil, nil
	}
	clone := *latest
	return &clone, nil
}

func (r *otpRepository) DeleteByEmail(ctx context.Context, email string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.otps[:0]
	for _, o := range r.store.otps {
		if o.Email != email {
			kept = append(kept, o)
		}
	}
	r.store.otps = kept
	return nil
}
