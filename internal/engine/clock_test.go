package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock_NextIncrements(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current(), "Current must not increment")
}

func TestClock_AdvanceAccumulates(t *testing.T) {
	c := NewClock()
	assert.Equal(t, 0.0, c.Elapsed())

	c.Advance(1.5)
	c.Advance(0.25)
	assert.Equal(t, 1.75, c.Elapsed())
}

func TestClock_AdvanceIgnoresNonPositive(t *testing.T) {
	c := NewClock()
	c.Advance(1)
	c.Advance(0)
	c.Advance(-5)
	assert.Equal(t, 1.0, c.Elapsed(), "zero and negative deltas must be dropped")
}

func TestClock_ConcurrentNextUnique(t *testing.T) {
	c := NewClock()
	const goroutines = 8
	const perGoroutine = 100

	var mu sync.Mutex
	seen := make(map[int64]bool)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				n := c.Next()
				mu.Lock()
				seen[n] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perGoroutine, "every Next value must be unique")
	assert.Equal(t, int64(goroutines*perGoroutine), c.Current())
}
