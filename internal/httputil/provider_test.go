// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"unavailable", Unavailable("tavily", "API key not configured"), KindUnavailable},
		{"status", StatusError("openai", 500, "server error"), KindStatus},
		{"deadline", TransportError("wikipedia", context.DeadlineExceeded), KindTimeout},
		{"wrapped deadline", TransportError("wikipedia", fmt.Errorf("get: %w", context.DeadlineExceeded)), KindTimeout},
		{"connection refused", TransportError("tavily", errors.New("connection refused")), KindException},
		{"plain error", errors.New("boom"), KindException},
		{"wrapped provider error", fmt.Errorf("tier 1: %w", StatusError("tavily", 401, "unauthorized")), KindStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestProviderErrorMessage(t *testing.T) {
	err := StatusError("tavily", 401, "unauthorized")
	assert.Equal(t, "tavily: status (HTTP 401): unauthorized", err.Error())

	err = TransportError("wikipedia", context.DeadlineExceeded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
