// SPDX-License-Identifier: MIT

package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/endulce/veci/internal/domain"
	"github.com/endulce/veci/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeAI is a scripted Capability.
type fakeAI struct {
	mu sync.Mutex

	intent    domain.Intent
	intentErr error
	reply     string
	replyErr  error
	delta     domain.Delta
	deltaErr  error

	classifyCalls int
	generateCalls int
	extractCalls  int

	lastExtractHistory []domain.Turn
}

func (f *fakeAI) ClassifyIntent(_ context.Context, _ string) (domain.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.classifyCalls++
	if f.intentErr != nil {
		return domain.IntentOther, f.intentErr
	}
	return f.intent, nil
}

func (f *fakeAI) GenerateReply(_ context.Context, _ string, _ domain.Intent, _ []domain.Turn) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generateCalls++
	return f.reply, f.replyErr
}

func (f *fakeAI) ExtractDelta(_ context.Context, _ string, history []domain.Turn) (domain.Delta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.extractCalls++
	f.lastExtractHistory = history
	return f.delta, f.deltaErr
}

// fakeOrders records saves and can fail on demand.
type fakeOrders struct {
	mu      sync.Mutex
	saveErr error
	saved   []fakeOrder
}

type fakeOrder struct {
	user  string
	items []domain.LineItem
	total string
}

func (f *fakeOrders) Save(_ context.Context, user string, items []domain.LineItem, total string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, fakeOrder{user: user, items: items, total: total})
	return nil
}

func (f *fakeOrders) ListRecent(_ context.Context, _ int) ([]domain.Order, error) {
	return nil, nil
}

// fakeNotifier records notifications and can fail on demand.
type fakeNotifier struct {
	mu       sync.Mutex
	err      error
	orders   int
	handoffs []string
}

func (f *fakeNotifier) NewOrder(_ context.Context, _ string, _ []domain.LineItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders++
	return f.err
}

func (f *fakeNotifier) Handoff(_ context.Context, _ string, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handoffs = append(f.handoffs, reason)
	return f.err
}

// env bundles a controller with its collaborators for assertions.
type env struct {
	ctrl     *Controller
	sessions *session.MemoryStore
	ai       *fakeAI
	orders   *fakeOrders
	notifier *fakeNotifier
}

func newEnv(t *testing.T, mutate ...func(*Config)) *env {
	t.Helper()

	cfg := Config{
		Location:  time.UTC,
		OpenHour:  0,
		CloseHour: 0, // gate disabled by default in tests
	}
	for _, m := range mutate {
		m(&cfg)
	}

	e := &env{
		sessions: session.NewMemoryStore(time.Hour, 0),
		ai:       &fakeAI{},
		orders:   &fakeOrders{},
		notifier: &fakeNotifier{},
	}
	e.ctrl = New(e.sessions, e.ai, e.orders, e.notifier, cfg)
	return e
}

// seed puts a session into a given state with a cart and one history turn so
// pacing never kicks in.
func (e *env) seed(t *testing.T, user string, state domain.State, cart domain.Cart) {
	t.Helper()
	ctx := context.Background()
	if err := e.sessions.SetState(ctx, user, state); err != nil {
		t.Fatal(err)
	}
	if err := e.sessions.SetCart(ctx, user, cart); err != nil {
		t.Fatal(err)
	}
	if err := e.sessions.AppendHistory(ctx, user,
		domain.Turn{Speaker: domain.SpeakerUser, Text: "hola"},
		domain.Turn{Speaker: domain.SpeakerAssistant, Text: "buenas veci"},
	); err != nil {
		t.Fatal(err)
	}
}
