package solverbench

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRun_SmallSizes verifies the benchmark runner produces one record per
// (size, method) in size-major order.
func TestRun_SmallSizes(t *testing.T) {
	tracker := NewJitterTracker(10)

	cfg := DefaultConfig()
	cfg.Sizes = []int{4, 8}
	cfg.Repeats = 2
	cfg.Seed = 42
	cfg.Tracker = tracker

	records, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, records, len(cfg.Sizes)*len(AllMethods))

	for i, r := range records {
		assert.Equal(t, cfg.Sizes[i/len(AllMethods)], r.N)
		assert.Equal(t, AllMethods[i%len(AllMethods)], r.Method)
		assert.GreaterOrEqual(t, r.TimeMs, 0.0)
		t.Logf("n=%d %-12s %.4f ms, %d iterations", r.N, r.Method, r.TimeMs, r.Iterations)
	}

	assert.Zero(t, records[0].Iterations, "Gauss is direct")
	assert.Positive(t, records[1].Iterations)
	assert.Positive(t, records[2].Iterations)

	jitter := tracker.Stats()
	require.Len(t, jitter, 6)
	for _, j := range jitter {
		assert.Equal(t, 2, j.Samples)
	}
}

func TestRun_SelectedMethods(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sizes = []int{5}
	cfg.Repeats = 1
	cfg.Seed = 1
	cfg.Methods = []string{MethodGaussSeidel}

	records, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, MethodGaussSeidel, records[0].Method)
}

func TestRun_Errors(t *testing.T) {
	ctx := context.Background()

	cfg := DefaultConfig()
	cfg.Sizes = nil
	_, err := Run(ctx, cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Sizes = []int{0}
	_, err = Run(ctx, cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Sizes = []int{3}
	cfg.Methods = []string{"LU"}
	_, err = Run(ctx, cfg)
	assert.ErrorContains(t, err, `unknown method "LU"`)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := DefaultConfig()
	cfg.Sizes = []int{4}
	cfg.Seed = 1

	records, err := Run(ctx, cfg)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.Nil(t, records)
}

// TestCalculateStatistics verifies percentile calculations.
func TestCalculateStatistics(t *testing.T) {
	latencies := []time.Duration{
		5 * time.Millisecond,
		1 * time.Millisecond,
		3 * time.Millisecond,
		2 * time.Millisecond,
		4 * time.Millisecond,
	}

	st := CalculateStatistics(latencies)

	assert.Equal(t, 3*time.Millisecond, st.Mean)
	assert.Equal(t, 3*time.Millisecond, st.P50)
	assert.Equal(t, 5*time.Millisecond, st.P95)
	assert.Equal(t, 5*time.Millisecond, st.P99)
	assert.InDelta(t, 1.414e6, float64(st.Stddev), 1e3)
	assert.InDelta(t, 5.0/3.0, st.TailRatio(), 1e-9)
}

func TestCalculateStatistics_Empty(t *testing.T) {
	st := CalculateStatistics(nil)
	assert.Equal(t, Statistics{}, st)
	assert.Equal(t, 1.0, st.TailRatio())
}
