package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/repository/memory"
	"ai-chatbot-be/internal/repository/specification"
	"ai-chatbot-be/internal/repository/unitofwork"
	"ai-chatbot-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider replays scripted deltas, optionally failing mid-stream.
type fakeProvider struct {
	deltas  []string
	failAt  int // fail before emitting delta at this index; -1 disables
	history []llm.Message
}

func (p *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return strings.Join(p.deltas, ""), nil
}

func (p *fakeProvider) ChatStream(ctx context.Context, history []llm.Message, onDelta func(string) error, options ...llm.Option) (string, error) {
	p.history = history
	var full strings.Builder
	for i, delta := range p.deltas {
		if p.failAt == i {
			return full.String(), errors.New("upstream connection lost")
		}
		full.WriteString(delta)
		if err := onDelta(delta); err != nil {
			return full.String(), err
		}
	}
	return full.String(), nil
}

type chatFixture struct {
	chat     ChatService
	provider *fakeProvider
	factory  unitofwork.RepositoryFactory
	userId   uuid.UUID
}

func newChatFixture(deltas []string) *chatFixture {
	store := memory.NewStore()
	factory := memory.NewFactory(store)
	provider := &fakeProvider{deltas: deltas, failAt: -1}
	return &chatFixture{
		chat:     NewChatService(factory, provider, nopLogger{}),
		provider: provider,
		factory:  factory,
		userId:   uuid.New(),
	}
}

func (f *chatFixture) newConversation(t *testing.T) uuid.UUID {
	t.Helper()
	now := time.Now()
	conversation := &entity.Conversation{
		Id:        uuid.New(),
		UserId:    f.userId,
		Title:     "New Conversation",
		CreatedAt: now,
		UpdatedAt: now,
	}
	uow := f.factory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.ConversationRepository().Create(context.Background(), conversation))
	return conversation.Id
}

func (f *chatFixture) messages(t *testing.T, conversationId uuid.UUID) []*entity.ChatMessage {
	t.Helper()
	uow := f.factory.NewUnitOfWork(context.Background())
	messages, err := uow.ChatMessageRepository().FindAll(context.Background(),
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	require.NoError(t, err)
	return messages
}

func (f *chatFixture) messageCount(t *testing.T) int64 {
	t.Helper()
	uow := f.factory.NewUnitOfWork(context.Background())
	count, err := uow.ChatMessageRepository().Count(context.Background())
	require.NoError(t, err)
	return count
}

func (f *chatFixture) conversation(t *testing.T, id uuid.UUID) *entity.Conversation {
	t.Helper()
	uow := f.factory.NewUnitOfWork(context.Background())
	conversation, err := uow.ConversationRepository().FindOne(context.Background(), specification.ByID{ID: id})
	require.NoError(t, err)
	require.NotNil(t, conversation)
	return conversation
}

func collectEvents(events *[]dto.StreamEvent) func(dto.StreamEvent) error {
	return func(event dto.StreamEvent) error {
		*events = append(*events, event)
		return nil
	}
}

func TestStreamChatEmitsDeltasInOrderAndRecordsExchange(t *testing.T) {
	f := newChatFixture([]string{"Hi", " there"})
	conversationId := f.newConversation(t)

	var events []dto.StreamEvent
	err := f.chat.StreamChat(context.Background(), f.userId, &dto.ChatStreamRequest{
		Messages:       []dto.ChatMessagePayload{{Role: "user", Content: "Hello"}},
		ConversationId: conversationId.String(),
	}, collectEvents(&events))
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, "Hi", events[0].Content)
	assert.Equal(t, " there", events[1].Content)
	assert.True(t, events[2].Done)
	assert.Equal(t, conversationId.String(), events[2].ConversationId)

	messages := f.messages(t, conversationId)
	require.Len(t, messages, 2)
	assert.Equal(t, entity.ChatRoleUser, messages[0].Role)
	assert.Equal(t, "Hello", messages[0].Content)
	assert.Equal(t, entity.ChatRoleAssistant, messages[1].Role)
	assert.Equal(t, "Hi there", messages[1].Content)
	assert.NotEmpty(t, messages[1].Model)
}

func TestStreamChatWithoutConversationIsEphemeral(t *testing.T) {
	f := newChatFixture([]string{"Hi", " there"})

	var events []dto.StreamEvent
	err := f.chat.StreamChat(context.Background(), f.userId, &dto.ChatStreamRequest{
		Messages: []dto.ChatMessagePayload{{Role: "user", Content: "Hello"}},
	}, collectEvents(&events))
	require.NoError(t, err)

	// The full stream still flows, but nothing lands in storage
	require.Len(t, events, 3)
	assert.True(t, events[2].Done)
	assert.Empty(t, events[2].ConversationId)
	assert.Zero(t, f.messageCount(t))
}

func TestStreamChatTitlesConversationFromFirstUserTurn(t *testing.T) {
	f := newChatFixture([]string{"ok"})
	conversationId := f.newConversation(t)

	long := strings.Repeat("a", 50)
	var events []dto.StreamEvent
	err := f.chat.StreamChat(context.Background(), f.userId, &dto.ChatStreamRequest{
		Messages:       []dto.ChatMessagePayload{{Role: "user", Content: long}},
		ConversationId: conversationId.String(),
	}, collectEvents(&events))
	require.NoError(t, err)

	conversation := f.conversation(t, conversationId)
	assert.Equal(t, strings.Repeat("a", 40)+"...", conversation.Title)
}

func TestStreamChatShortFirstTurnTitleKeptVerbatim(t *testing.T) {
	f := newChatFixture([]string{"ok"})
	conversationId := f.newConversation(t)

	var events []dto.StreamEvent
	err := f.chat.StreamChat(context.Background(), f.userId, &dto.ChatStreamRequest{
		Messages:       []dto.ChatMessagePayload{{Role: "user", Content: "Short question"}},
		ConversationId: conversationId.String(),
	}, collectEvents(&events))
	require.NoError(t, err)

	conversation := f.conversation(t, conversationId)
	assert.Equal(t, "Short question", conversation.Title)
}

func TestStreamChatSecondTurnKeepsTitle(t *testing.T) {
	f := newChatFixture([]string{"first reply"})
	conversationId := f.newConversation(t)

	var events []dto.StreamEvent
	err := f.chat.StreamChat(context.Background(), f.userId, &dto.ChatStreamRequest{
		Messages:       []dto.ChatMessagePayload{{Role: "user", Content: "First question"}},
		ConversationId: conversationId.String(),
	}, collectEvents(&events))
	require.NoError(t, err)

	events = nil
	err = f.chat.StreamChat(context.Background(), f.userId, &dto.ChatStreamRequest{
		Messages: []dto.ChatMessagePayload{
			{Role: "user", Content: "First question"},
			{Role: "assistant", Content: "first reply"},
			{Role: "user", Content: "Second question"},
		},
		ConversationId: conversationId.String(),
	}, collectEvents(&events))
	require.NoError(t, err)

	conversation := f.conversation(t, conversationId)
	assert.Equal(t, "First question", conversation.Title)

	// Only the newest user turn is appended, not the replayed history
	messages := f.messages(t, conversationId)
	require.Len(t, messages, 4)
	assert.Equal(t, "Second question", messages[2].Content)
}

func TestStreamChatUpstreamFailureRecordsNothing(t *testing.T) {
	f := newChatFixture([]string{"partial", " answer"})
	f.provider.failAt = 1
	conversationId := f.newConversation(t)

	var events []dto.StreamEvent
	err := f.chat.StreamChat(context.Background(), f.userId, &dto.ChatStreamRequest{
		Messages:       []dto.ChatMessagePayload{{Role: "user", Content: "Hello"}},
		ConversationId: conversationId.String(),
	}, collectEvents(&events))
	require.Error(t, err)

	// One delta got through before the failure, but nothing was persisted
	require.Len(t, events, 1)
	assert.Zero(t, f.messageCount(t))
}

func TestStreamChatClientDisconnectRecordsNothing(t *testing.T) {
	f := newChatFixture([]string{"Hi", " there"})
	conversationId := f.newConversation(t)

	calls := 0
	err := f.chat.StreamChat(context.Background(), f.userId, &dto.ChatStreamRequest{
		Messages:       []dto.ChatMessagePayload{{Role: "user", Content: "Hello"}},
		ConversationId: conversationId.String(),
	}, func(event dto.StreamEvent) error {
		calls++
		if calls == 2 {
			return errors.New("client gone")
		}
		return nil
	})
	require.Error(t, err)
	assert.Zero(t, f.messageCount(t))
}

func TestStreamChatForeignConversationRejected(t *testing.T) {
	f := newChatFixture([]string{"ok"})
	conversationId := f.newConversation(t)

	otherUser := uuid.New()
	var events []dto.StreamEvent
	err := f.chat.StreamChat(context.Background(), otherUser, &dto.ChatStreamRequest{
		Messages:       []dto.ChatMessagePayload{{Role: "user", Content: "Hello"}},
		ConversationId: conversationId.String(),
	}, collectEvents(&events))
	assert.ErrorIs(t, err, entity.ErrConversationNotFound)
	assert.Empty(t, events)
}

func TestStreamChatMalformedConversationIdRejected(t *testing.T) {
	f := newChatFixture([]string{"ok"})

	err := f.chat.StreamChat(context.Background(), f.userId, &dto.ChatStreamRequest{
		Messages:       []dto.ChatMessagePayload{{Role: "user", Content: "Hello"}},
		ConversationId: "not-a-uuid",
	}, func(dto.StreamEvent) error { return nil })
	assert.ErrorIs(t, err, entity.ErrConversationNotFound)
}

func TestStreamChatPassesFullHistoryUpstream(t *testing.T) {
	f := newChatFixture([]string{"ok"})

	history := []dto.ChatMessagePayload{
		{Role: "system", Content: "You are helpful."},
		{Role: "user", Content: "First"},
		{Role: "assistant", Content: "Reply"},
		{Role: "user", Content: "Second"},
	}
	var events []dto.StreamEvent
	err := f.chat.StreamChat(context.Background(), f.userId, &dto.ChatStreamRequest{
		Messages: history,
	}, collectEvents(&events))
	require.NoError(t, err)

	require.Len(t, f.provider.history, 4)
	assert.Equal(t, "You are helpful.", f.provider.history[0].Content)
	assert.Equal(t, "Second", f.provider.history[3].Content)
}
