// SPDX-License-Identifier: MIT

// Package metrics provides Prometheus metrics for the dialogue service.
// Label sets stay low-cardinality: no user IDs or request IDs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TurnsTotal counts processed turns by the state that handled them.
	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veci_turns_total",
		Help: "Total number of processed conversation turns, by dialogue state.",
	}, []string{"state"})

	// GuardFiredTotal counts turns short-circuited by a global guard.
	GuardFiredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veci_guard_fired_total",
		Help: "Total number of turns short-circuited by a global guard, by guard.",
	}, []string{"guard"})

	// IntentTotal counts classified intents by label.
	IntentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veci_intent_total",
		Help: "Total number of classified intents, by label.",
	}, []string{"intent"})

	// OrdersConfirmedTotal counts orders that passed the confirmation gate.
	OrdersConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "veci_orders_confirmed_total",
		Help: "Total number of confirmed and persisted orders.",
	})

	// AIErrorsTotal counts failed AI capability calls by operation.
	AIErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veci_ai_errors_total",
		Help: "Total number of failed AI capability calls, by operation.",
	}, []string{"op"})

	// SessionFallbackTotal counts session operations served by the in-memory
	// fallback because the primary store failed.
	SessionFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "veci_session_fallback_total",
		Help: "Total number of session store operations served by the in-memory fallback.",
	})

	// NotifyTotal counts admin notification attempts by kind and outcome.
	NotifyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veci_notify_total",
		Help: "Total number of admin notification attempts, by kind and outcome.",
	}, []string{"kind", "outcome"})
)
