// SPDX-License-Identifier: MIT

// Package ai exposes the language-model capability the dialogue controller
// consumes: intent classification, freeform reply generation, and structured
// order-delta extraction.
package ai

import (
	"context"

	"github.com/endulce/veci/internal/domain"
)

// Capability is the contract the dialogue controller programs against. All
// methods are fallible I/O; callers own the fallback behavior.
type Capability interface {
	// ClassifyIntent labels a raw message with one of the fixed intent labels.
	ClassifyIntent(ctx context.Context, text string) (domain.Intent, error)

	// GenerateReply produces a freeform answer in the shop persona, using the
	// detected intent and recent history for context.
	GenerateReply(ctx context.Context, text string, intent domain.Intent, history []domain.Turn) (string, error)

	// ExtractDelta converts a message into structured cart instructions.
	// Unusable model output yields an empty delta, not an error.
	ExtractDelta(ctx context.Context, text string, history []domain.Turn) (domain.Delta, error)
}

// MenuSource supplies the current knowledge-base text injected into prompts.
type MenuSource interface {
	Content() string
}
