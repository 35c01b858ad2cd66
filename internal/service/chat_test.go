package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/neuronova/neuronova/internal/ai"
	"github.com/neuronova/neuronova/internal/model"
	"github.com/neuronova/neuronova/internal/repository"
)

type fakeConversationStore struct {
	users         map[string]*model.UserProfile
	conversations []*model.Conversation
	messages      []*model.Message

	createConversationErr error
	// failOnMessage fails the nth CreateMessage call (1-based).
	failOnMessage int
	messageCalls  int
}

func (f *fakeConversationStore) GetUserByID(_ context.Context, id string) (*model.UserProfile, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeConversationStore) GetLatestConversation(_ context.Context, userID string) (*model.Conversation, error) {
	var latest *model.Conversation
	for _, c := range f.conversations {
		if c.UserID != userID {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, repository.ErrConversationNotFound
	}
	return latest, nil
}

func (f *fakeConversationStore) GetConversation(_ context.Context, id string) (*model.Conversation, error) {
	for _, c := range f.conversations {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, repository.ErrConversationNotFound
}

func (f *fakeConversationStore) CreateConversation(_ context.Context, conv *model.Conversation) error {
	if f.createConversationErr != nil {
		return f.createConversationErr
	}
	f.conversations = append(f.conversations, conv)
	return nil
}

func (f *fakeConversationStore) CreateMessage(_ context.Context, msg *model.Message) error {
	f.messageCalls++
	if f.failOnMessage == f.messageCalls {
		return errors.New("insert failed")
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeConversationStore) ListMessages(_ context.Context, conversationID string) ([]*model.Message, error) {
	var out []*model.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeCompleter struct {
	reply string
	err   error

	calls      int
	lastPrompt []ai.ChatMessage
}

func (f *fakeCompleter) Complete(_ context.Context, messages []ai.ChatMessage) (string, error) {
	f.calls++
	f.lastPrompt = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestChat(store *fakeConversationStore, completer *fakeCompleter) *ChatService {
	return NewChatService(store, completer, testLogger(), nil)
}

func seedConversation(store *fakeConversationStore, userID string) *model.Conversation {
	conv := &model.Conversation{
		ID:        "conv-" + userID,
		UserID:    userID,
		Title:     model.DefaultConversationTitle,
		CreatedAt: time.Now().UTC(),
	}
	store.conversations = append(store.conversations, conv)
	return conv
}

func TestResolveActiveConversation_CreatesWithWelcome(t *testing.T) {
	t.Parallel()

	store := &fakeConversationStore{
		users: map[string]*model.UserProfile{
			"u1": {ID: "u1", DisplayName: "Maya"},
		},
	}
	svc := newTestChat(store, &fakeCompleter{})

	conv, messages, err := svc.ResolveActiveConversation(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ResolveActiveConversation() error = %v", err)
	}
	if conv.UserID != "u1" {
		t.Errorf("conversation user = %q, want u1", conv.UserID)
	}
	if conv.Title != model.DefaultConversationTitle {
		t.Errorf("conversation title = %q", conv.Title)
	}
	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(messages))
	}
	if messages[0].Role != model.RoleAssistant {
		t.Errorf("welcome role = %q, want assistant", messages[0].Role)
	}
	want := "Hey Maya, I'm here for you. How are you feeling today?"
	if messages[0].Content != want {
		t.Errorf("welcome content = %q, want %q", messages[0].Content, want)
	}
}

func TestResolveActiveConversation_ReturnsExisting(t *testing.T) {
	t.Parallel()

	store := &fakeConversationStore{
		users: map[string]*model.UserProfile{"u1": {ID: "u1", DisplayName: "Maya"}},
	}
	conv := seedConversation(store, "u1")
	store.messages = append(store.messages,
		&model.Message{ID: "m1", ConversationID: conv.ID, UserID: "u1", Role: model.RoleAssistant, Content: "hi"},
		&model.Message{ID: "m2", ConversationID: conv.ID, UserID: "u1", Role: model.RoleUser, Content: "hello"},
	)
	svc := newTestChat(store, &fakeCompleter{})

	got, messages, err := svc.ResolveActiveConversation(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ResolveActiveConversation() error = %v", err)
	}
	if got.ID != conv.ID {
		t.Errorf("conversation = %q, want %q", got.ID, conv.ID)
	}
	if len(messages) != 2 {
		t.Errorf("got %d messages, want 2", len(messages))
	}
	if len(store.conversations) != 1 {
		t.Errorf("created a conversation when one already existed")
	}
}

func TestResolveActiveConversation_UnknownUser(t *testing.T) {
	t.Parallel()

	store := &fakeConversationStore{users: map[string]*model.UserProfile{}}
	svc := newTestChat(store, &fakeCompleter{})

	_, _, err := svc.ResolveActiveConversation(context.Background(), "ghost")
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
	if len(store.conversations) != 0 {
		t.Errorf("conversation created for unknown user")
	}
}

func TestSendTurn_PersistsBothMessages(t *testing.T) {
	t.Parallel()

	store := &fakeConversationStore{}
	conv := seedConversation(store, "u1")
	completer := &fakeCompleter{reply: "That sounds hard. Tell me more."}
	svc := newTestChat(store, completer)

	history := []*model.Message{
		{ConversationID: conv.ID, Role: model.RoleAssistant, Content: "hi"},
	}
	turn, err := svc.SendTurn(context.Background(), conv.ID, "u1", "I feel anxious", history)
	if err != nil {
		t.Fatalf("SendTurn() error = %v", err)
	}
	if turn.UserMessage.Role != model.RoleUser || turn.UserMessage.Content != "I feel anxious" {
		t.Errorf("user message = %+v", turn.UserMessage)
	}
	if turn.AssistantMessage.Role != model.RoleAssistant || turn.AssistantMessage.Content != completer.reply {
		t.Errorf("assistant message = %+v", turn.AssistantMessage)
	}
	if len(store.messages) != 2 {
		t.Errorf("persisted %d messages, want 2", len(store.messages))
	}

	if completer.calls != 1 {
		t.Fatalf("completer called %d times, want 1", completer.calls)
	}
	last := completer.lastPrompt[len(completer.lastPrompt)-1]
	if last.Role != "user" || last.Content != "I feel anxious" {
		t.Errorf("prompt tail = %+v", last)
	}
	if len(completer.lastPrompt) != len(history)+1 {
		t.Errorf("prompt length = %d, want %d", len(completer.lastPrompt), len(history)+1)
	}
}

func TestSendTurn_FallbackOnCompletionError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"not configured", ai.ErrNotConfigured},
		{"upstream error", &ai.UpstreamError{StatusCode: 500, Message: "overloaded"}},
		{"transport error", errors.New("dial tcp: connection refused")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &fakeConversationStore{}
			conv := seedConversation(store, "u1")
			svc := newTestChat(store, &fakeCompleter{err: tt.err})

			turn, err := svc.SendTurn(context.Background(), conv.ID, "u1", "hello", nil)
			if err != nil {
				t.Fatalf("SendTurn() error = %v", err)
			}
			if turn.AssistantMessage.Content != FallbackReply {
				t.Errorf("assistant content = %q, want fallback", turn.AssistantMessage.Content)
			}
			if len(store.messages) != 2 {
				t.Errorf("persisted %d messages, want 2", len(store.messages))
			}
		})
	}
}

func TestSendTurn_EmptyMessage(t *testing.T) {
	t.Parallel()

	store := &fakeConversationStore{}
	conv := seedConversation(store, "u1")
	completer := &fakeCompleter{reply: "ok"}
	svc := newTestChat(store, completer)

	_, err := svc.SendTurn(context.Background(), conv.ID, "u1", "   \n\t ", nil)
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("error = %v, want ErrEmptyMessage", err)
	}
	if len(store.messages) != 0 {
		t.Errorf("persisted %d messages, want 0", len(store.messages))
	}
	if completer.calls != 0 {
		t.Errorf("completer called on empty message")
	}
}

func TestSendTurn_MessageTooLong(t *testing.T) {
	t.Parallel()

	store := &fakeConversationStore{}
	conv := seedConversation(store, "u1")
	svc := newTestChat(store, &fakeCompleter{reply: "ok"})

	_, err := svc.SendTurn(context.Background(), conv.ID, "u1", strings.Repeat("a", maxMessageLength+1), nil)
	if !errors.Is(err, ErrMessageTooLong) {
		t.Fatalf("error = %v, want ErrMessageTooLong", err)
	}
}

func TestSendTurn_UserPersistFailureSkipsCompletion(t *testing.T) {
	t.Parallel()

	store := &fakeConversationStore{failOnMessage: 1}
	conv := seedConversation(store, "u1")
	completer := &fakeCompleter{reply: "ok"}
	svc := newTestChat(store, completer)

	_, err := svc.SendTurn(context.Background(), conv.ID, "u1", "hello", nil)
	if err == nil {
		t.Fatal("SendTurn() error = nil, want error")
	}
	if len(store.messages) != 0 {
		t.Errorf("persisted %d messages, want 0", len(store.messages))
	}
	if completer.calls != 0 {
		t.Errorf("completer called after persist failure")
	}
}

func TestSendTurn_AssistantPersistFailure(t *testing.T) {
	t.Parallel()

	store := &fakeConversationStore{failOnMessage: 2}
	conv := seedConversation(store, "u1")
	svc := newTestChat(store, &fakeCompleter{reply: "ok"})

	_, err := svc.SendTurn(context.Background(), conv.ID, "u1", "hello", nil)
	if err == nil {
		t.Fatal("SendTurn() error = nil, want error")
	}
}

func TestSendTurn_ForeignConversation(t *testing.T) {
	t.Parallel()

	store := &fakeConversationStore{}
	conv := seedConversation(store, "owner")
	completer := &fakeCompleter{reply: "ok"}
	svc := newTestChat(store, completer)

	_, err := svc.SendTurn(context.Background(), conv.ID, "intruder", "hello", nil)
	if !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("error = %v, want ErrConversationNotFound", err)
	}
	if completer.calls != 0 {
		t.Errorf("completer called for foreign conversation")
	}
}

func TestSendTurn_UnknownConversation(t *testing.T) {
	t.Parallel()

	svc := newTestChat(&fakeConversationStore{}, &fakeCompleter{})

	_, err := svc.SendTurn(context.Background(), "missing", "u1", "hello", nil)
	if !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("error = %v, want ErrConversationNotFound", err)
	}
}

func TestSendMessage_LoadsHistory(t *testing.T) {
	t.Parallel()

	store := &fakeConversationStore{}
	conv := seedConversation(store, "u1")
	store.messages = append(store.messages,
		&model.Message{ID: "m1", ConversationID: conv.ID, UserID: "u1", Role: model.RoleAssistant, Content: "hi"},
		&model.Message{ID: "m2", ConversationID: conv.ID, UserID: "u1", Role: model.RoleUser, Content: "hello"},
	)
	completer := &fakeCompleter{reply: "go on"}
	svc := newTestChat(store, completer)

	_, err := svc.SendMessage(context.Background(), conv.ID, "u1", "I had a rough day")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	// prior history (2) + new user message
	if len(completer.lastPrompt) != 3 {
		t.Errorf("prompt length = %d, want 3", len(completer.lastPrompt))
	}
	if completer.lastPrompt[0].Role != "assistant" {
		t.Errorf("prompt[0] role = %q, want assistant", completer.lastPrompt[0].Role)
	}
}
