package strava

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterCountsRequests(t *testing.T) {
	r := NewRateLimiterWith(10, 100, 0)

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Wait(context.Background()))
	}

	short, daily := r.Status()
	assert.Equal(t, 7, short)
	assert.Equal(t, 97, daily)
}

func TestRateLimiterUpdateFromHeaders(t *testing.T) {
	tests := []struct {
		name         string
		limit, usage string
		expectShort  int
		expectDaily  int
	}{
		{name: "both headers", limit: "200,2000", usage: "50,500", expectShort: 150, expectDaily: 1500},
		{name: "usage only", usage: "40,400", expectShort: 60, expectDaily: 600},
		{name: "malformed", limit: "abc", usage: "1", expectShort: 100, expectDaily: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRateLimiter()
			h := http.Header{}
			if tt.limit != "" {
				h.Set("X-RateLimit-Limit", tt.limit)
			}
			h.Set("X-RateLimit-Usage", tt.usage)

			r.UpdateFromHeaders(h)

			short, daily := r.Status()
			assert.Equal(t, tt.expectShort, short)
			assert.Equal(t, tt.expectDaily, daily)
		})
	}
}

func TestRateLimiterWaitHonorsContext(t *testing.T) {
	r := NewRateLimiterWith(1, 100, 0)
	require.NoError(t, r.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Wait(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
