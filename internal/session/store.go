// SPDX-License-Identifier: MIT

// Package session persists per-user dialogue state, cart, and bounded
// conversation history, with expiry from last write.
package session

import (
	"context"

	"github.com/endulce/veci/internal/domain"
)

// HistoryLimit bounds how many turns a session keeps. Older turns are dropped.
const HistoryLimit = 20

// Store is the session persistence contract. Implementations expire all of a
// user's keys a fixed TTL after the last write.
//
// The dialogue controller performs an unguarded read-modify-write per turn:
// messaging channels serialize messages per sender, so at most one turn per
// user is assumed in flight. Concurrent turns for the same user race with
// last-write-wins semantics.
type Store interface {
	// State returns the user's dialogue state, IDLE when absent.
	State(ctx context.Context, user string) (domain.State, error)
	// SetState stores the user's dialogue state and refreshes the TTL.
	SetState(ctx context.Context, user string, state domain.State) error

	// Cart returns the user's cart, empty when absent.
	Cart(ctx context.Context, user string) (domain.Cart, error)
	// SetCart stores the user's cart and refreshes the TTL.
	SetCart(ctx context.Context, user string, cart domain.Cart) error

	// History returns the user's conversation history, oldest first.
	History(ctx context.Context, user string) ([]domain.Turn, error)
	// AppendHistory appends turns, trimming to HistoryLimit.
	AppendHistory(ctx context.Context, user string, turns ...domain.Turn) error

	// Clear removes every trace of the user's session.
	Clear(ctx context.Context, user string) error
}
