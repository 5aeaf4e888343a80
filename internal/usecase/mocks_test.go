//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"telegram-relay-bot/internal/domain"
	"telegram-relay-bot/internal/domain/model"
	"telegram-relay-bot/internal/domain/ports/adapter"
	"telegram-relay-bot/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memUserRepo is a small in-memory implementation used by unit tests.
type memUserRepo struct {
	mu    sync.RWMutex
	store map[int64]*model.User

	ensureErr error // simulate storage failures
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[int64]*model.User)}
}

func (m *memUserRepo) EnsureExists(ctx context.Context, tx repository.Tx, tgID int64) error {
	if m.ensureErr != nil {
		return m.ensureErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[tgID]; !ok {
		u, err := model.NewUser(tgID)
		if err != nil {
			return err
		}
		m.store[tgID] = u
	}
	return nil
}

func (m *memUserRepo) MarkJoined(ctx context.Context, tx repository.Tx, tgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.store[tgID]; ok {
		u.MarkJoined()
	}
	return nil
}

func (m *memUserRepo) FindByID(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) IsJoined(ctx context.Context, tx repository.Tx, tgID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.store[tgID]; ok {
		return u.Joined, nil
	}
	return false, nil
}

func (m *memUserRepo) ListIDs(ctx context.Context, tx repository.Tx) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int64, 0, len(m.store))
	for id := range m.store {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

// sentMessage captures one SendMessage call on the mock bot.
type sentMessage struct {
	ChatID int64
	Text   string
}

// mockBot records transport calls; individual funcs can be overridden.
type mockBot struct {
	mu       sync.Mutex
	Sent     []sentMessage
	Edited   []sentMessage
	Answers  []string
	Member   adapter.MembershipStatus
	SendFunc func(ctx context.Context, chatID int64, text string) error
}

func newMockBot() *mockBot {
	return &mockBot{Member: adapter.MembershipNotMember}
}

func (b *mockBot) SendMessage(ctx context.Context, chatID int64, text string) error {
	if b.SendFunc != nil {
		if err := b.SendFunc(ctx, chatID, text); err != nil {
			return err
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Sent = append(b.Sent, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (b *mockBot) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	return b.SendMessage(ctx, chatID, text)
}

func (b *mockBot) EditMessage(ctx context.Context, chatID int64, messageID int, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Edited = append(b.Edited, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (b *mockBot) AnswerCallback(ctx context.Context, callbackID string, text string, alert bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Answers = append(b.Answers, text)
	return nil
}

func (b *mockBot) CheckChannelMember(ctx context.Context, userID int64) adapter.MembershipStatus {
	return b.Member
}

// sentTo returns the messages delivered to one chat.
func (b *mockBot) sentTo(chatID int64) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, m := range b.Sent {
		if m.ChatID == chatID {
			out = append(out, m.Text)
		}
	}
	return out
}

// mockAI counts calls and replays a canned response.
type mockAI struct {
	mu       sync.Mutex
	Calls    int
	Messages []adapter.Message
	Model    string
	Reply    string
	Err      error
}

func (a *mockAI) Provider() string { return "mock" }

func (a *mockAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Calls++
	a.Model = model
	a.Messages = messages
	if a.Err != nil {
		return "", a.Err
	}
	return a.Reply, nil
}

// fixedTokens is a deterministic TokenCounter stand-in.
type fixedTokens struct{ N int }

func (f fixedTokens) Count(text string) int { return f.N }

// keyTexter echoes the key (plus args) so tests can assert on message keys
// without dragging the real catalog in.
type keyTexter struct{}

func (keyTexter) T(key string, args ...interface{}) string {
	if len(args) > 0 {
		return key + ": " + fmt.Sprint(args...)
	}
	return key
}
