// SPDX-License-Identifier: MIT

package bot

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/endulce/veci/internal/domain"
)

// handleOrdering runs one turn of the active ordering phase: exit check,
// question trap, extraction, cart merge, and action-specific acknowledgment.
func (c *Controller) handleOrdering(ctx context.Context, logger zerolog.Logger, t *turn, text string, intent domain.Intent) string {
	lower := strings.ToLower(strings.TrimSpace(text))

	// Exit phrases close the collection phase and show the summary.
	if _, done := exitPhrases[lower]; done {
		t.state = domain.StateConfirming
		return t.cart.Summary()
	}

	// Questions asked mid-order are answered, not parsed as items.
	if intent == domain.IntentMenuQuery || strings.ContainsAny(text, "?¿") {
		return c.freeform(ctx, logger, text, intent, t.history)
	}

	delta, err := c.ai.ExtractDelta(ctx, text, t.history)
	if err != nil {
		logger.Warn().Err(err).Msg("extraction failed, continuing with empty delta")
		delta = domain.Delta{}
	}

	t.cart.Apply(delta)

	// The merged cart is persisted immediately so nothing is lost even if a
	// later step of the turn fails.
	if err := c.sessions.SetCart(ctx, t.user, t.cart); err != nil {
		logger.Warn().Err(err).Msg("cart persist after merge failed")
	}

	switch {
	case len(delta.Items) > 0:
		return ackItems(delta.Items)
	case delta.Modifiers != (domain.Modifiers{}):
		return msgModifierAck
	case delta.Delivery.Method == domain.MethodPickup:
		return msgPickupAck
	case delta.Delivery.Method == domain.MethodDelivery:
		return msgDeliveryAck
	default:
		return c.freeform(ctx, logger, text, intent, t.history)
	}
}
