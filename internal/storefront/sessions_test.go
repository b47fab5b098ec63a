package storefront

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_GetCreatesOncePerID(t *testing.T) {
	s := NewSessions(testCatalog(), time.Hour, nil)

	a := s.Get("a")
	assert.Same(t, a, s.Get("a"))
	assert.NotSame(t, a, s.Get("b"))
	assert.Equal(t, 2, s.Len())

	_, ok := s.Lookup("c")
	assert.False(t, ok)
}

func TestSessions_AreIsolated(t *testing.T) {
	s := NewSessions(testCatalog(), time.Hour, nil)

	_, err := s.Get("a").AddToCart("1")
	require.NoError(t, err)

	assert.Equal(t, 1, s.Get("a").View().CartItemCount)
	assert.Equal(t, 0, s.Get("b").View().CartItemCount)
}

func TestSessions_SweepEvictsIdle(t *testing.T) {
	s := NewSessions(testCatalog(), time.Minute, nil)
	now := time.Now()
	s.now = func() time.Time { return now }

	ch, _ := s.Get("old").Subscribe()
	now = now.Add(2 * time.Minute)
	s.Get("fresh")

	assert.Equal(t, 1, s.Sweep())
	_, ok := s.Lookup("old")
	assert.False(t, ok)
	_, ok = s.Lookup("fresh")
	assert.True(t, ok)

	_, open := <-ch
	assert.False(t, open, "subscriptions of an expired session are closed")
}

func TestSessions_RunStopsWithContext(t *testing.T) {
	s := NewSessions(testCatalog(), time.Minute, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx, 5*time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}

func TestSessions_SweepNeverLosesAConcurrentAdd(t *testing.T) {
	s := NewSessions(testCatalog(), time.Minute, nil)
	start := time.Now()
	var clockMu sync.Mutex
	now := start
	s.now = func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		return now
	}

	s.Get("shared")
	clockMu.Lock()
	now = start.Add(2 * time.Minute)
	clockMu.Unlock()

	const shoppers = 50
	var wg sync.WaitGroup
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				s.Sweep()
			}
		}
	}()

	for i := 0; i < shoppers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Get("shared").AddToCart("1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	close(stop)

	v := s.Get("shared").View()
	assert.Equal(t, shoppers, v.CartUnits, "every add lands on the live session")
	assert.Equal(t, 1, v.CartItemCount)
}
