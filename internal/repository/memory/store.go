// Package memory provides in-memory repository fakes satisfying the
// unitofwork contracts, used by service tests instead of a live database.
package memory

import (
	"context"
	"sync"

	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/contract"
	"ai-chatbot-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Store holds all table state shared by every unit of work the factory
// hands out.
type Store struct {
	mu            sync.RWMutex
	users         map[uuid.UUID]*entity.User
	otps          []*entity.OtpCode
	conversations map[uuid.UUID]*entity.Conversation
	messages      []*entity.ChatMessage
}

func NewStore() *Store {
	return &Store{
		users:         make(map[uuid.UUID]*entity.User),
		conversations: make(map[uuid.UUID]*entity.Conversation),
	}
}

type Factory struct {
	store *Store
}

func NewFactory(store *Store) unitofwork.RepositoryFactory {
	return &Factory{store: store}
}

func (f *Factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

// unitOfWork applies every operation directly against the shared store.
// Begin/Commit/Rollback are accepted but not transactional; tests assert
// on final state, not isolation.
type unitOfWork struct {
	store *Store
}

func (u *unitOfWork) Begin(ctx context.Context) error { return nil }
func (u *unitOfWork) Commit() error                   { return nil }
func (u *unitOfWork) Rollback() error                 { return nil }

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return &userRepository{store: u.store}
}

func (u *unitOfWork) OtpRepository() contract.OtpRepository {
	return &otpRepository{store: u.store}
}

func (u *unitOfWork) ConversationRepository() contract.ConversationRepository {
	return &conversationRepository{store: u.store}
}

func (u *unitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return &chatMessageRepository{store: u.store}
}
