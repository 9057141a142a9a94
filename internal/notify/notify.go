// SPDX-License-Identifier: MIT

// Package notify pushes operator alerts (new orders, handoffs) over WhatsApp.
// Notifications are best-effort: callers log failures and move on.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/endulce/veci/internal/domain"
)

// Notifier alerts the human operator.
type Notifier interface {
	// NewOrder announces a confirmed order with its item lines.
	NewOrder(ctx context.Context, userPhone string, items []domain.LineItem) error
	// Handoff announces that a user needs a human, with a reason tag.
	Handoff(ctx context.Context, userPhone, reason string) error
}

// Disabled is a Notifier that does nothing, used when credentials are absent.
type Disabled struct{}

func (Disabled) NewOrder(context.Context, string, []domain.LineItem) error { return nil }
func (Disabled) Handoff(context.Context, string, string) error             { return nil }

// orderBody renders the operator message for a confirmed order.
func orderBody(userPhone string, items []domain.LineItem) string {
	var lines []string
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("- %dx %s", it.Quantity, it.Product))
	}
	return fmt.Sprintf(
		"🔔 *NUEVO PEDIDO CONFIRMADO*\n\n👤 Cliente: %s\n🛒 Pedido:\n%s\n\n💡 *Acción:* Revise el pedido o contacte al cliente.",
		userPhone, strings.Join(lines, "\n"),
	)
}

// handoffBody renders the operator message for an escalation.
func handoffBody(userPhone, reason string) string {
	return fmt.Sprintf(
		"🚨 *CLIENTE NECESITA ATENCIÓN*\n\n👤 Cliente: %s\n📋 Motivo: %s\n\n💡 *Acción:* Contacte al cliente cuanto antes.",
		userPhone, reason,
	)
}
