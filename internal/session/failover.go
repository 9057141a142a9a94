// SPDX-License-Identifier: MIT

package session

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/endulce/veci/internal/domain"
	"github.com/endulce/veci/internal/log"
	"github.com/endulce/veci/internal/metrics"
)

// FailoverStore wraps a primary Store with a process-local fallback. When a
// primary operation fails, the same operation is served by the fallback, so a
// store outage degrades durability but never the reply. Sessions that land in
// the fallback die with the process.
type FailoverStore struct {
	primary  Store
	fallback Store
	logger   zerolog.Logger
}

// NewFailoverStore wires a primary store with an ephemeral fallback.
func NewFailoverStore(primary, fallback Store) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   log.WithComponent("session"),
	}
}

func (f *FailoverStore) degrade(op string, err error) {
	metrics.SessionFallbackTotal.Inc()
	f.logger.Warn().Err(err).Str("op", op).Msg("primary session store failed, using in-memory fallback")
}

func (f *FailoverStore) State(ctx context.Context, user string) (domain.State, error) {
	state, err := f.primary.State(ctx, user)
	if err != nil {
		f.degrade("state", err)
		return f.fallback.State(ctx, user)
	}
	return state, nil
}

func (f *FailoverStore) SetState(ctx context.Context, user string, state domain.State) error {
	if err := f.primary.SetState(ctx, user, state); err != nil {
		f.degrade("set_state", err)
		return f.fallback.SetState(ctx, user, state)
	}
	return nil
}

func (f *FailoverStore) Cart(ctx context.Context, user string) (domain.Cart, error) {
	cart, err := f.primary.Cart(ctx, user)
	if err != nil {
		f.degrade("cart", err)
		return f.fallback.Cart(ctx, user)
	}
	return cart, nil
}

func (f *FailoverStore) SetCart(ctx context.Context, user string, cart domain.Cart) error {
	if err := f.primary.SetCart(ctx, user, cart); err != nil {
		f.degrade("set_cart", err)
		return f.fallback.SetCart(ctx, user, cart)
	}
	return nil
}

func (f *FailoverStore) History(ctx context.Context, user string) ([]domain.Turn, error) {
	turns, err := f.primary.History(ctx, user)
	if err != nil {
		f.degrade("history", err)
		return f.fallback.History(ctx, user)
	}
	return turns, nil
}

func (f *FailoverStore) AppendHistory(ctx context.Context, user string, turns ...domain.Turn) error {
	if err := f.primary.AppendHistory(ctx, user, turns...); err != nil {
		f.degrade("append_history", err)
		return f.fallback.AppendHistory(ctx, user, turns...)
	}
	return nil
}

func (f *FailoverStore) Clear(ctx context.Context, user string) error {
	err := f.primary.Clear(ctx, user)
	if err != nil {
		f.degrade("clear", err)
	}
	// The fallback may hold a shadow copy from an earlier outage.
	if ferr := f.fallback.Clear(ctx, user); ferr == nil && err != nil {
		return nil
	}
	return err
}
