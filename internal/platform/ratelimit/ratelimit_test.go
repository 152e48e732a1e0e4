package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterBurstThenDeny(t *testing.T) {
	l := NewMemoryLimiter(0.001, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "10.0.0.1")
	assert.False(t, ok, "third request inside the burst window must be denied")

	ok, _ = l.Allow(ctx, "10.0.0.2")
	assert.True(t, ok, "other clients keep their own bucket")
}

func TestMemoryLimiterSweep(t *testing.T) {
	l := NewMemoryLimiter(1, 1)
	now := time.Now()
	l.now = func() time.Time { return now }

	_, _ = l.Allow(context.Background(), "a")
	require.Equal(t, 1, l.size())

	now = now.Add(4 * time.Minute)
	l.Sweep()
	assert.Equal(t, 0, l.size())
}
