// SPDX-License-Identifier: MIT

package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/endulce/veci/internal/domain"
)

const user = "+593999000111"

// Scenario: an order-bearing first message is not wasted. The IDLE dispatch
// transitions to ORDERING and reprocesses the same message.
func TestIdle_OrderIntentCapturesTriggeringMessage(t *testing.T) {
	e := newEnv(t)
	e.ai.intent = domain.IntentOrder
	e.ai.delta = domain.Delta{Items: []domain.DeltaItem{{Product: "cheesecake", Quantity: 2, Action: domain.ActionAdd}}}

	reply := e.ctrl.ProcessMessage(context.Background(), user, "quiero 2 cheesecakes")

	assert.Contains(t, reply, "✅ Anotado: 2x cheesecake.")
	assert.Equal(t, 1, e.ai.extractCalls, "the triggering message itself is extracted")

	ctx := context.Background()
	state, err := e.sessions.State(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, domain.StateOrdering, state)

	cart, err := e.sessions.Cart(ctx, user)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, domain.LineItem{Product: "cheesecake", Quantity: 2}, cart.Items[0])

	history, err := e.sessions.History(ctx, user)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.SpeakerUser, history[0].Speaker)
	assert.Equal(t, "quiero 2 cheesecakes", history[0].Text)
}

func TestIdle_FreeformForOtherIntents(t *testing.T) {
	e := newEnv(t)
	e.ai.intent = domain.IntentGreeting
	e.ai.reply = "¡Buenas veci! ☕"

	reply := e.ctrl.ProcessMessage(context.Background(), user, "hola")

	assert.Equal(t, "¡Buenas veci! ☕", reply)
	assert.Equal(t, 1, e.ai.generateCalls)
	assert.Zero(t, e.ai.extractCalls)
}

func TestIdle_HandoffIntentNotifiesWithoutStateChange(t *testing.T) {
	e := newEnv(t)
	e.ai.intent = domain.IntentHandoff

	reply := e.ctrl.ProcessMessage(context.Background(), user, "quiero hablar con una persona")

	assert.Equal(t, msgHandoff, reply)
	assert.Equal(t, []string{"Solicitud directa"}, e.notifier.handoffs)

	state, err := e.sessions.State(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, state)
}

func TestGuard_BlocklistedSenderIsSilentlyDropped(t *testing.T) {
	e := newEnv(t, func(c *Config) { c.Blocklist = []string{user} })

	reply := e.ctrl.ProcessMessage(context.Background(), user, "hola")

	assert.Empty(t, reply)
	assert.Zero(t, e.ai.classifyCalls, "blocked users never consume an AI call")

	history, err := e.sessions.History(context.Background(), user)
	require.NoError(t, err)
	assert.Empty(t, history, "blocked users leave no history")
}

func TestGuard_AfterHoursReturnsClosedMessage(t *testing.T) {
	e := newEnv(t, func(c *Config) {
		c.OpenHour = 8
		c.CloseHour = 20
		c.Now = func() time.Time { return time.Date(2026, 8, 28, 23, 15, 0, 0, time.UTC) }
	})

	reply := e.ctrl.ProcessMessage(context.Background(), user, "hola")

	assert.Equal(t, msgClosed, reply)
	assert.Zero(t, e.ai.classifyCalls)
}

func TestGuard_BusinessHoursSpanningMidnight(t *testing.T) {
	e := newEnv(t, func(c *Config) {
		c.OpenHour = 20
		c.CloseHour = 2
		c.Now = func() time.Time { return time.Date(2026, 8, 28, 23, 0, 0, 0, time.UTC) }
	})
	e.ai.intent = domain.IntentGreeting
	e.ai.reply = "buenas noches veci"

	assert.Equal(t, "buenas noches veci", e.ctrl.ProcessMessage(context.Background(), user, "hola"))
}

// Scenario: frustration fires from every state, alerts the operator, and
// leaves the dialogue state untouched.
func TestGuard_FrustrationTriggersHandoffInAnyState(t *testing.T) {
	for _, state := range []domain.State{domain.StateIdle, domain.StateOrdering, domain.StateConfirming} {
		t.Run(string(state), func(t *testing.T) {
			e := newEnv(t)
			e.seed(t, user, state, domain.Cart{})

			reply := e.ctrl.ProcessMessage(context.Background(), user, "esto es un pesimo servicio")

			assert.Equal(t, msgHandoff, reply)
			assert.Equal(t, []string{"Cliente molesto"}, e.notifier.handoffs)
			assert.Zero(t, e.ai.classifyCalls)

			got, err := e.sessions.State(context.Background(), user)
			require.NoError(t, err)
			assert.Equal(t, state, got, "handoff must not change state")
		})
	}
}

func TestGuard_CancelClearsSessionFromAnyState(t *testing.T) {
	e := newEnv(t)
	e.seed(t, user, domain.StateConfirming, domain.Cart{Items: []domain.LineItem{{Product: "torta", Quantity: 1}}})

	reply := e.ctrl.ProcessMessage(context.Background(), user, "mejor cancelar todo")

	assert.Equal(t, msgCancelled, reply)

	ctx := context.Background()
	state, err := e.sessions.State(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, state)

	cart, err := e.sessions.Cart(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestClassificationFailureFallsBackToFreeform(t *testing.T) {
	e := newEnv(t)
	e.ai.intentErr = assert.AnError
	e.ai.reply = "con mucho gusto veci"

	reply := e.ctrl.ProcessMessage(context.Background(), user, "mmm")

	assert.Equal(t, "con mucho gusto veci", reply)
}

func TestFreeformFailureBecomesApology(t *testing.T) {
	e := newEnv(t)
	e.ai.intent = domain.IntentGreeting
	e.ai.replyErr = assert.AnError

	assert.Equal(t, msgApology, e.ctrl.ProcessMessage(context.Background(), user, "hola"))
}

func TestEmptyMessageIsIgnored(t *testing.T) {
	e := newEnv(t)
	assert.Empty(t, e.ctrl.ProcessMessage(context.Background(), user, "   "))
	assert.Zero(t, e.ai.classifyCalls)
}

func TestPacing_CancelledContextDoesNotBlock(t *testing.T) {
	e := newEnv(t, func(c *Config) {
		c.GreetDelayMin = 2 * time.Second
		c.GreetDelayMax = 4 * time.Second
	})
	e.ai.intent = domain.IntentGreeting
	e.ai.reply = "hola veci"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	e.ctrl.ProcessMessage(ctx, user, "hola")
	assert.Less(t, time.Since(start), time.Second, "cancelled pacing must not block the turn")
}

func TestPacing_OnlyFirstTurnOfSession(t *testing.T) {
	e := newEnv(t, func(c *Config) {
		c.GreetDelayMin = 30 * time.Millisecond
		c.GreetDelayMax = 60 * time.Millisecond
	})
	e.seed(t, user, domain.StateIdle, domain.Cart{})
	e.ai.intent = domain.IntentGreeting
	e.ai.reply = "hola de nuevo"

	start := time.Now()
	e.ctrl.ProcessMessage(context.Background(), user, "hola")
	assert.Less(t, time.Since(start), 30*time.Millisecond, "later turns skip the pacing delay")
}
