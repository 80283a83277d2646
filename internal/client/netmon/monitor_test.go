package netmon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dukaanly/possync/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSetOnline_EdgeTriggeredCallbacks(t *testing.T) {
	m := New(func(ctx context.Context) error { return nil }, time.Second, time.Second, discardLogger())
	ctx := context.Background()

	var fired int32
	m.OnOnline(func(ctx context.Context) { atomic.AddInt32(&fired, 1) })

	assert.False(t, m.Online())

	m.SetOnline(ctx, true)
	assert.True(t, m.Online())
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))

	// staying online is not an edge
	m.SetOnline(ctx, true)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))

	// going offline is not an edge either
	m.SetOnline(ctx, false)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))

	// second rising edge fires again, exactly once
	m.SetOnline(ctx, true)
	assert.Equal(t, int32(2), atomic.LoadInt32(&fired))
}

func TestSetOnline_MultipleCallbacksInOrder(t *testing.T) {
	m := New(func(ctx context.Context) error { return nil }, time.Second, time.Second, discardLogger())

	var order []int
	m.OnOnline(func(ctx context.Context) { order = append(order, 1) })
	m.OnOnline(func(ctx context.Context) { order = append(order, 2) })

	m.SetOnline(context.Background(), true)
	assert.Equal(t, []int{1, 2}, order)
}

func TestStart_ComesOnlineWhenProbeSucceeds(t *testing.T) {
	var failing int32 = 1
	probe := func(ctx context.Context) error {
		if atomic.LoadInt32(&failing) == 1 {
			return errors.New("unreachable")
		}
		return nil
	}

	m := New(probe, 5*time.Millisecond, 5*time.Millisecond, discardLogger())

	edges := make(chan struct{}, 1)
	m.OnOnline(func(ctx context.Context) { edges <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Start(ctx)

	// stays offline while the probe fails
	time.Sleep(20 * time.Millisecond)
	assert.False(t, m.Online())

	atomic.StoreInt32(&failing, 0)

	select {
	case <-edges:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor never came online")
	}
	assert.True(t, m.Online())
}

func TestStart_DropsOfflineWhenProbeFails(t *testing.T) {
	var failing int32
	probe := func(ctx context.Context) error {
		if atomic.LoadInt32(&failing) == 1 {
			return errors.New("unreachable")
		}
		return nil
	}

	m := New(probe, 5*time.Millisecond, 5*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Start(ctx)

	require.Eventually(t, m.Online, 2*time.Second, 5*time.Millisecond)

	atomic.StoreInt32(&failing, 1)
	require.Eventually(t, func() bool { return !m.Online() }, 2*time.Second, 5*time.Millisecond)
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	m := New(func(ctx context.Context) error { return errors.New("down") },
		time.Millisecond, time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancellation")
	}
}
