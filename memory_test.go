package sheetio

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedHeap returns a limit whose heap samples come from samples in order,
// repeating the last one.
func fixedHeap(limitMB int64, samples ...int64) *MemoryLimit {
	ml := NewMemoryLimit(limitMB)
	var mu sync.Mutex
	ml.heapMB = func() int64 {
		mu.Lock()
		defer mu.Unlock()
		v := samples[0]
		if len(samples) > 1 {
			samples = samples[1:]
		}
		return v
	}
	return ml
}

func TestNewMemoryLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(512), NewMemoryLimit(0).LimitMB())
	assert.Equal(t, int64(512), NewMemoryLimit(-3).LimitMB())
	assert.Equal(t, int64(1024), NewMemoryLimit(1024).LimitMB())
	assert.Equal(t, int64(64*1024), NewMemoryLimit(1000*1024).LimitMB())
	assert.InDelta(t, 0.8, NewMemoryLimit(1).warnAt, 0.0001)
}

func TestMemoryLimit_WithWarningRatio(t *testing.T) {
	t.Parallel()

	base := NewMemoryLimit(100)
	half := base.WithWarningRatio(0.5)
	assert.InDelta(t, 0.5, half.warnAt, 0.0001)
	assert.InDelta(t, 0.8, base.warnAt, 0.0001, "the receiver is unchanged")

	for _, ratio := range []float64{-0.1, 0, 1.1} {
		assert.InDelta(t, 0.5, half.WithWarningRatio(ratio).warnAt, 0.0001, "ratio %.1f is ignored", ratio)
	}
	assert.InDelta(t, 1.0, base.WithWarningRatio(1).warnAt, 0.0001)
}

func TestMemoryLimit_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		heap int64
		want MemoryStatus
	}{
		{heap: 10, want: MemoryStatusOK},
		{heap: 79, want: MemoryStatusOK},
		{heap: 80, want: MemoryStatusWarning},
		{heap: 100, want: MemoryStatusExceeded},
		{heap: 250, want: MemoryStatusExceeded},
	}
	for _, tt := range tests {
		status, current := fixedHeap(100, tt.heap).Check()
		assert.Equal(t, tt.want, status, "heap %d", tt.heap)
		assert.Equal(t, tt.heap, current)
	}
}

func TestMemoryLimit_Guard(t *testing.T) {
	t.Parallel()

	t.Run("within limit", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, fixedHeap(100, 10).Guard("windowed read"))
	})

	t.Run("exceeded", func(t *testing.T) {
		t.Parallel()

		err := fixedHeap(100, 120).Guard("windowed read")
		require.ErrorIs(t, err, ErrMemoryLimit)
		assert.Contains(t, err.Error(), "during windowed read")
		assert.Contains(t, err.Error(), "heap 120 MB of 100 MB")
	})

	t.Run("warning resamples after collection", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, fixedHeap(100, 90, 40).Guard("windowed read"))
		require.ErrorIs(t, fixedHeap(100, 90, 100).Guard("windowed read"), ErrMemoryLimit)
	})

	t.Run("real heap", func(t *testing.T) {
		t.Parallel()

		status, current := NewMemoryLimit(maxMemoryLimitMB).Check()
		assert.GreaterOrEqual(t, current, int64(0))
		assert.Equal(t, MemoryStatusOK, status)
	})
}

func TestMemoryStatus_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "OK", MemoryStatusOK.String())
	assert.Equal(t, "WARNING", MemoryStatusWarning.String())
	assert.Equal(t, "EXCEEDED", MemoryStatusExceeded.String())
	assert.Equal(t, "UNKNOWN", MemoryStatus(999).String())
}

func TestMemoryLimit_ConcurrentGuard(t *testing.T) {
	t.Parallel()

	limit := NewMemoryLimit(maxMemoryLimitMB)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				assert.NoError(t, limit.Guard("concurrent"))
			}
		}()
	}
	wg.Wait()
}
