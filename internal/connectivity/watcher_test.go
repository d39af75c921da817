package connectivity

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type flakyChecker struct {
	mu     sync.Mutex
	online bool
}

func (f *flakyChecker) Online(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.online
}

func (f *flakyChecker) set(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.online = v
}

func TestWatcher_FiresOnReconnect(t *testing.T) {
	checker := &flakyChecker{online: false}
	var fired atomic.Int32

	w := NewWatcher(checker, 10*time.Millisecond, func(ctx context.Context) {
		fired.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	// stays quiet while offline
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())

	checker.set(true)
	assert.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, 10*time.Millisecond)

	// staying online does not refire
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())

	cancel()
	<-done
}

func TestWatcher_InitialCatchUp(t *testing.T) {
	checker := &flakyChecker{online: true}
	var fired atomic.Int32

	w := NewWatcher(checker, 10*time.Millisecond, func(ctx context.Context) {
		fired.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
