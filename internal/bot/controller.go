// SPDX-License-Identifier: MIT

// Package bot implements the dialogue controller: global guards, per-user
// state dispatch, cart mutation, and reply selection for one turn.
package bot

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/endulce/veci/internal/ai"
	"github.com/endulce/veci/internal/domain"
	"github.com/endulce/veci/internal/log"
	"github.com/endulce/veci/internal/metrics"
	"github.com/endulce/veci/internal/notify"
	"github.com/endulce/veci/internal/orders"
	"github.com/endulce/veci/internal/session"
)

// Config holds the controller's guard and pacing settings.
type Config struct {
	// Blocklist holds sender identifiers whose messages are dropped silently.
	Blocklist []string

	// Business-hours window in Location local time. OpenHour == CloseHour
	// disables the gate; a window with CloseHour < OpenHour spans midnight.
	Location  *time.Location
	OpenHour  int
	CloseHour int

	// Pacing delay bounds applied to the first turn of a session.
	// A zero GreetDelayMax disables pacing.
	GreetDelayMin time.Duration
	GreetDelayMax time.Duration

	// Now is the clock; nil means time.Now. Tests inject a fixed clock.
	Now func() time.Time
}

// Controller runs one conversation turn per inbound message.
//
// The per-user read-modify-write against the session store is not atomic:
// messaging channels deliver per sender in order, so at most one in-flight
// turn per user is assumed. Distinct users are handled concurrently.
type Controller struct {
	sessions session.Store
	ai       ai.Capability
	orders   orders.Store
	notifier notify.Notifier
	cfg      Config
	blocked  map[string]struct{}
	logger   zerolog.Logger
}

// New wires a dialogue controller.
func New(sessions session.Store, capability ai.Capability, orderStore orders.Store, notifier notify.Notifier, cfg Config) *Controller {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	blocked := make(map[string]struct{}, len(cfg.Blocklist))
	for _, id := range cfg.Blocklist {
		blocked[strings.TrimSpace(id)] = struct{}{}
	}
	return &Controller{
		sessions: sessions,
		ai:       capability,
		orders:   orderStore,
		notifier: notifier,
		cfg:      cfg,
		blocked:  blocked,
		logger:   log.WithComponent("bot"),
	}
}

// turn is the mutable session snapshot handlers work on. The controller
// persists it after dispatch unless the session was cleared.
type turn struct {
	user    string
	state   domain.State
	cart    domain.Cart
	history []domain.Turn
	cleared bool
}

// ProcessMessage handles one inbound message and returns the reply text.
// An empty reply means "send nothing". Failures never escape as errors to
// the user; they degrade into apologies, silence, or fallback stores.
func (c *Controller) ProcessMessage(ctx context.Context, user, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	logger := c.logger.With().Str(log.FieldUser, log.MaskUser(user)).Logger()

	// Global guard chain. Guards run before the session is loaded and before
	// any AI call, so blocked, after-hours, and frustrated senders never
	// consume a classification nor leave history behind.
	if _, ok := c.blocked[user]; ok {
		metrics.GuardFiredTotal.WithLabelValues("blocklist").Inc()
		logger.Debug().Str(log.FieldGuard, "blocklist").Msg("message dropped")
		return ""
	}
	if !c.withinBusinessHours() {
		metrics.GuardFiredTotal.WithLabelValues("hours").Inc()
		return msgClosed
	}
	if containsAny(lower, frustrationKeywords) {
		metrics.GuardFiredTotal.WithLabelValues("frustration").Inc()
		c.handoff(ctx, logger, user, reasonUpset)
		return msgHandoff
	}
	if strings.Contains(lower, "cancel") {
		metrics.GuardFiredTotal.WithLabelValues("cancel").Inc()
		if err := c.sessions.Clear(ctx, user); err != nil {
			logger.Warn().Err(err).Msg("session clear on cancel failed")
		}
		return msgCancelled
	}

	t := c.load(ctx, logger, user)

	// First contact in this session: pause briefly so the reply does not
	// arrive implausibly fast. Suspends only this turn.
	if len(t.history) == 0 {
		c.pace(ctx)
	}

	intent, err := c.ai.ClassifyIntent(ctx, text)
	if err != nil {
		logger.Warn().Err(err).Msg("intent classification failed, treating as other")
		intent = domain.IntentOther
	}
	metrics.IntentTotal.WithLabelValues(string(intent)).Inc()
	logger.Debug().Str(log.FieldIntent, string(intent)).Str(log.FieldOldState, string(t.state)).Msg("dispatching turn")

	var reply string
	switch t.state {
	case domain.StateOrdering:
		reply = c.handleOrdering(ctx, logger, t, text, intent)
	case domain.StateConfirming:
		reply = c.handleConfirming(ctx, logger, t, text)
	default:
		reply = c.handleIdle(ctx, logger, t, text, intent)
	}
	metrics.TurnsTotal.WithLabelValues(string(t.state)).Inc()

	// Silence never touches history; a cleared session has nothing to persist.
	if reply != "" && !t.cleared {
		c.persist(ctx, logger, t, text, reply)
	}
	return reply
}

// handleIdle dispatches on intent when no order flow is active.
func (c *Controller) handleIdle(ctx context.Context, logger zerolog.Logger, t *turn, text string, intent domain.Intent) string {
	switch intent {
	case domain.IntentHandoff:
		c.handoff(ctx, logger, t.user, reasonDirect)
		return msgHandoff
	case domain.IntentOrder:
		// The triggering message usually already names items; reprocess it
		// as an ordering turn so nothing is lost.
		t.state = domain.StateOrdering
		return c.handleOrdering(ctx, logger, t, text, intent)
	default:
		return c.freeform(ctx, logger, text, intent, t.history)
	}
}

// handoff alerts the operator and keeps the dialogue state untouched.
// Notification failures never reach the user.
func (c *Controller) handoff(ctx context.Context, logger zerolog.Logger, user, reason string) {
	if err := c.notifier.Handoff(ctx, user, reason); err != nil {
		logger.Warn().Err(err).Str("reason", reason).Msg("handoff notification failed")
	}
}

// freeform delegates to the language model; an AI failure becomes an apology.
func (c *Controller) freeform(ctx context.Context, logger zerolog.Logger, text string, intent domain.Intent, history []domain.Turn) string {
	reply, err := c.ai.GenerateReply(ctx, text, intent, history)
	if err != nil || strings.TrimSpace(reply) == "" {
		logger.Warn().Err(err).Msg("freeform generation failed")
		return msgApology
	}
	return reply
}

func (c *Controller) load(ctx context.Context, logger zerolog.Logger, user string) *turn {
	t := &turn{user: user, state: domain.StateIdle}

	state, err := c.sessions.State(ctx, user)
	if err != nil {
		logger.Warn().Err(err).Msg("state load failed, assuming IDLE")
	} else {
		t.state = state
	}
	cart, err := c.sessions.Cart(ctx, user)
	if err != nil {
		logger.Warn().Err(err).Msg("cart load failed, starting empty")
	} else {
		t.cart = cart
	}
	history, err := c.sessions.History(ctx, user)
	if err != nil {
		logger.Warn().Err(err).Msg("history load failed, starting empty")
	} else {
		t.history = history
	}
	return t
}

func (c *Controller) persist(ctx context.Context, logger zerolog.Logger, t *turn, userText, reply string) {
	if err := c.sessions.SetState(ctx, t.user, t.state); err != nil {
		logger.Warn().Err(err).Msg("state persist failed")
	}
	if err := c.sessions.SetCart(ctx, t.user, t.cart); err != nil {
		logger.Warn().Err(err).Msg("cart persist failed")
	}
	if err := c.sessions.AppendHistory(ctx, t.user,
		domain.Turn{Speaker: domain.SpeakerUser, Text: userText},
		domain.Turn{Speaker: domain.SpeakerAssistant, Text: reply},
	); err != nil {
		logger.Warn().Err(err).Msg("history persist failed")
	}
}

// clearSession wipes the session and marks the turn so nothing is re-persisted.
func (c *Controller) clearSession(ctx context.Context, logger zerolog.Logger, t *turn) {
	if err := c.sessions.Clear(ctx, t.user); err != nil {
		logger.Warn().Err(err).Msg("session clear failed")
	}
	t.state = domain.StateIdle
	t.cart = domain.Cart{}
	t.cleared = true
}

func (c *Controller) withinBusinessHours() bool {
	if c.cfg.OpenHour == c.cfg.CloseHour {
		return true
	}
	hour := c.cfg.Now().In(c.cfg.Location).Hour()
	if c.cfg.OpenHour < c.cfg.CloseHour {
		return hour >= c.cfg.OpenHour && hour < c.cfg.CloseHour
	}
	// Window spans midnight.
	return hour >= c.cfg.OpenHour || hour < c.cfg.CloseHour
}

// pace suspends this turn for a random interval inside the configured bounds.
// Cancellation of the request context cuts the pause short.
func (c *Controller) pace(ctx context.Context) {
	d := c.cfg.GreetDelayMin
	if span := c.cfg.GreetDelayMax - c.cfg.GreetDelayMin; span > 0 {
		d += rand.N(span)
	}
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
