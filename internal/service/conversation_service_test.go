package service

import (
	"context"
	"testing"
	"time"

	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/memory"
	"ai-chatbot-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConversationFixture() (ConversationService, unitofwork.RepositoryFactory) {
	store := memory.NewStore()
	factory := memory.NewFactory(store)
	return NewConversationService(factory, nopLogger{}), factory
}

func TestCreateConversationDefaultsTitle(t *testing.T) {
	svc, _ := newConversationFixture()

	resp, err := svc.Create(context.Background(), uuid.New(), &dto.CreateConversationRequest{})
	require.NoError(t, err)
	assert.Equal(t, "New Conversation", resp.Title)

	named, err := svc.Create(context.Background(), uuid.New(), &dto.CreateConversationRequest{Title: "Trip planning"})
	require.NoError(t, err)
	assert.Equal(t, "Trip planning", named.Title)
}

func TestListConversationsScopedToOwnerNewestFirst(t *testing.T) {
	svc, factory := newConversationFixture()
	owner := uuid.New()
	stranger := uuid.New()

	// Seed with distinct updated_at values
	uow := factory.NewUnitOfWork(context.Background())
	base := time.Now()
	for i, title := range []string{"old", "new"} {
		require.NoError(t, uow.ConversationRepository().Create(context.Background(), &entity.Conversation{
			Id:        uuid.New(),
			UserId:    owner,
			Title:     title,
			CreatedAt: base,
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, uow.ConversationRepository().Create(context.Background(), &entity.Conversation{
		Id:        uuid.New(),
		UserId:    stranger,
		Title:     "not yours",
		CreatedAt: base,
		UpdatedAt: base,
	}))

	list, err := svc.List(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Title)
	assert.Equal(t, "old", list[1].Title)
}

func TestGetMessagesEnforcesOwnership(t *testing.T) {
	svc, _ := newConversationFixture()
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, &dto.CreateConversationRequest{})
	require.NoError(t, err)

	_, err = svc.GetMessages(context.Background(), uuid.New(), uuid.MustParse(created.Id))
	assert.ErrorIs(t, err, entity.ErrConversationNotFound)

	messages, err := svc.GetMessages(context.Background(), owner, uuid.MustParse(created.Id))
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestDeleteConversationRemovesTranscript(t *testing.T) {
	svc, factory := newConversationFixture()
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, &dto.CreateConversationRequest{})
	require.NoError(t, err)
	conversationId := uuid.MustParse(created.Id)

	uow := factory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.ChatMessageRepository().Create(context.Background(), &entity.ChatMessage{
		Id:             uuid.New(),
		UserId:         owner,
		ConversationId: conversationId,
		Role:           entity.ChatRoleUser,
		Content:        "hello",
		CreatedAt:      time.Now(),
	}))

	require.NoError(t, svc.Delete(context.Background(), owner, conversationId))

	count, err := uow.ChatMessageRepository().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = svc.GetMessages(context.Background(), owner, conversationId)
	assert.ErrorIs(t, err, entity.ErrConversationNotFound)
}

func TestDeleteForeignConversationRejected(t *testing.T) {
	svc, _ := newConversationFixture()
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, &dto.CreateConversationRequest{})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), uuid.New(), uuid.MustParse(created.Id))
	assert.ErrorIs(t, err, entity.ErrConversationNotFound)
}
