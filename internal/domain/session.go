// SPDX-License-Identifier: MIT

// Package domain holds the typed conversation model: dialogue states, intents,
// the cart with its merge semantics, and finalized orders.
package domain

// State is the per-user dialogue state.
type State string

const (
	StateIdle       State = "IDLE"
	StateOrdering   State = "ORDERING"
	StateConfirming State = "CONFIRMING"
)

// ParseState maps a stored value back to a State, defaulting to IDLE.
func ParseState(s string) State {
	switch State(s) {
	case StateOrdering:
		return StateOrdering
	case StateConfirming:
		return StateConfirming
	default:
		return StateIdle
	}
}

// Speaker identifies who produced a history turn.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one utterance in the conversation history.
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Intent is the per-turn classification label. It is consumed within the turn
// that produced it and never persisted.
type Intent string

const (
	IntentGreeting          Intent = "greeting"
	IntentMenuQuery         Intent = "menu_query"
	IntentPriceQuery        Intent = "price_query"
	IntentAvailabilityQuery Intent = "availability_query"
	IntentOrder             Intent = "order_intent"
	IntentHandoff           Intent = "handoff"
	IntentClosing           Intent = "closing"
	IntentOther             Intent = "other"
)

// ParseIntent normalises a classifier label, defaulting to "other".
func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentGreeting, IntentMenuQuery, IntentPriceQuery, IntentAvailabilityQuery,
		IntentOrder, IntentHandoff, IntentClosing:
		return Intent(s)
	default:
		return IntentOther
	}
}
