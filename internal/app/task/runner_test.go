package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRunnerLogsFailureAndWaits(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := NewRunner(zap.New(core), time.Second)

	var ran atomic.Int32
	r.Go("ok", func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})
	r.Go("broken", func(ctx context.Context) error {
		ran.Add(1)
		return errors.New("smtp down")
	})
	r.Go("panics", func(ctx context.Context) error {
		panic("boom")
	})

	require.NoError(t, r.Wait(context.Background()))
	assert.Equal(t, int32(2), ran.Load())
	assert.Equal(t, 1, logs.FilterMessage("task failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("task panicked").Len())
}

func TestRunnerTaskHasOwnDeadline(t *testing.T) {
	r := NewRunner(zap.NewNop(), 20*time.Millisecond)

	errc := make(chan error, 1)
	r.Go("slow", func(ctx context.Context) error {
		<-ctx.Done()
		errc <- ctx.Err()
		return ctx.Err()
	})

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("task deadline not applied")
	}
}

func TestWaitRespectsContext(t *testing.T) {
	r := NewRunner(zap.NewNop(), time.Minute)
	release := make(chan struct{})
	r.Go("blocked", func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)
	close(release)
}
