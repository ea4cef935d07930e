package crawl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolBlocksAtCapacity(t *testing.T) {
	pool := NewPool(2)
	ctx := context.Background()

	require.NoError(t, pool.Acquire(ctx))
	require.NoError(t, pool.Acquire(ctx))
	assert.Equal(t, 2, pool.Active())

	blocked, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := pool.Acquire(blocked)
	require.Error(t, err, "third acquire blocks until a slot frees")

	pool.Release()
	assert.Equal(t, 1, pool.Active())
	require.NoError(t, pool.Acquire(ctx))

	pool.Release()
	pool.Release()
	assert.Zero(t, pool.Active())
}

func TestPoolWakesWaiterOnRelease(t *testing.T) {
	pool := NewPool(1)
	require.NoError(t, pool.Acquire(context.Background()))

	acquired := make(chan struct{})
	go func() {
		if err := pool.Acquire(context.Background()); err == nil {
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("waiter acquired before release")
	case <-time.After(10 * time.Millisecond):
	}

	pool.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter not woken by release")
	}
	pool.Release()
}

func TestPoolMinimumSize(t *testing.T) {
	pool := NewPool(0)
	require.NoError(t, pool.Acquire(context.Background()))
	pool.Release()
}
