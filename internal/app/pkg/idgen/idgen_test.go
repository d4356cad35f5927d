package idgen

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIDIsUniqueAcrossGoroutines(t *testing.T) {
	g := NewSnowflakeIDGenerator(3)

	const workers, perWorker = 8, 500
	var (
		mu   sync.Mutex
		seen = make(map[int64]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id := g.NextID()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestNextIDSurvivesClockRollback(t *testing.T) {
	g := NewSnowflakeIDGenerator(1)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(-time.Second), base.Add(time.Millisecond)}
	i := 0
	g.now = func() time.Time {
		t := ticks[i]
		if i < len(ticks)-1 {
			i++
		}
		return t
	}

	first := g.NextID()
	second := g.NextID()
	require.Greater(t, second, first)
}

func TestOrderIDFormat(t *testing.T) {
	id := Default().OrderID()
	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")
	assert.NotEqual(t, id, NewOrderID())
}
