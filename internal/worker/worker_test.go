package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/EgehanKilicarslan/tripsync/internal/logger"
	"github.com/EgehanKilicarslan/tripsync/internal/worker"
)

func TestPool_ShutdownStopsTasks(t *testing.T) {
	pool := worker.NewPool(context.Background(), logger.Discard())

	var stopped atomic.Int32
	for i := 0; i < 3; i++ {
		pool.Go("loop", func(ctx context.Context) error {
			<-ctx.Done()
			stopped.Add(1)
			return ctx.Err()
		})
	}

	assert.True(t, pool.Shutdown(time.Second))
	assert.Equal(t, int32(3), stopped.Load())
	assert.NoError(t, pool.Err())
}

func TestPool_FailureCancelsOthers(t *testing.T) {
	pool := worker.NewPool(context.Background(), logger.Discard())
	boom := errors.New("listen tcp :8080: address already in use")

	pool.Go("http", func(ctx context.Context) error { return boom })
	pool.Go("grpc", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	select {
	case <-pool.Done():
	case <-time.After(time.Second):
		t.Fatal("pool was not cancelled by the failing task")
	}
	assert.True(t, pool.Shutdown(time.Second))
	assert.ErrorIs(t, pool.Err(), boom)
}

func TestPool_ShutdownTimeout(t *testing.T) {
	pool := worker.NewPool(context.Background(), logger.Discard())
	release := make(chan struct{})
	defer close(release)

	pool.Go("stubborn", func(ctx context.Context) error {
		<-release
		return nil
	})

	assert.False(t, pool.Shutdown(20*time.Millisecond))
}

func TestPool_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	pool := worker.NewPool(parent, logger.Discard())

	cancel()
	select {
	case <-pool.Done():
	case <-time.After(time.Second):
		t.Fatal("pool ignored parent cancellation")
	}
	assert.NoError(t, pool.Err())
}
