// SPDX-License-Identifier: MIT

package bot

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/endulce/veci/internal/domain"
	"github.com/endulce/veci/internal/metrics"
)

// handleConfirming runs one turn of the confirmation gate. Affirmation only
// finalizes once the delivery method is known and, for deliveries, an address
// is on file; otherwise the missing field is requested and the state holds.
func (c *Controller) handleConfirming(ctx context.Context, logger zerolog.Logger, t *turn, text string) string {
	lower := strings.ToLower(text)

	if containsAny(lower, affirmations) {
		switch {
		case t.cart.Delivery.Method == domain.MethodUnset:
			return msgAskMethod
		case t.cart.Delivery.Method == domain.MethodDelivery && t.cart.Delivery.Address == "":
			return msgAskAddress
		default:
			return c.finalize(ctx, logger, t)
		}
	}

	// Not an affirmation: the user may be supplying the missing delivery
	// details instead. Only delivery info is considered here; item changes
	// go back through the ordering phase.
	delta, err := c.ai.ExtractDelta(ctx, text, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("delivery extraction failed during confirmation")
		delta = domain.Delta{}
	}
	if delta.Delivery.Method != domain.MethodUnset || delta.Delivery.Address != "" {
		t.cart.Apply(domain.Delta{Delivery: delta.Delivery})
		if err := c.sessions.SetCart(ctx, t.user, t.cart); err != nil {
			logger.Warn().Err(err).Msg("cart persist after delivery merge failed")
		}
		return t.cart.Summary()
	}

	// Decline or unrelated message: reopen the order.
	t.state = domain.StateOrdering
	return msgWhatToChange
}

// finalize persists the order, alerts the operator, and resets the session.
// A store failure keeps the session so the user can simply confirm again.
func (c *Controller) finalize(ctx context.Context, logger zerolog.Logger, t *turn) string {
	if err := c.orders.Save(ctx, t.user, t.cart.Items, "Pending"); err != nil {
		logger.Error().Err(err).Msg("order persist failed, keeping session for retry")
		return msgOrderSaveError
	}
	metrics.OrdersConfirmedTotal.Inc()

	if err := c.notifier.NewOrder(ctx, t.user, t.cart.Items); err != nil {
		logger.Warn().Err(err).Msg("order notification failed")
	}

	logger.Info().
		Str("event", "order.confirmed").
		Int("items", len(t.cart.Items)).
		Msg("order confirmed")

	c.clearSession(ctx, logger, t)
	return msgOrderConfirmed
}
