// SPDX-License-Identifier: MIT

package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskUser(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"full number", "+5939987654321", "****4321"},
		{"short id", "abc", "****"},
		{"exact boundary", "1234", "****"},
		{"empty", "", "****"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskUser(tt.in))
		})
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}
