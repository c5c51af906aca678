package solverbench

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
)

// Tail ratio thresholds for repeated timings of the same solve.
//
// Repeats of a deterministic solve should agree closely: P99 within about
// 3× of P50. Larger ratios mean the machine interfered (GC, scheduler,
// frequency scaling) and the median is less trustworthy.
const (
	NoisyTailRatio  = 3.0
	SevereTailRatio = 10.0
)

// JitterTracker records individual solve timings per (method, size) and
// reports how much repeated timings disagree.
//
// Each key keeps a fixed-size ring buffer, so long runs with many repeats
// only reflect the most recent samples. Safe for concurrent use.
//
// Example:
//
//	tracker := NewJitterTracker(100)
//	cfg := DefaultConfig()
//	cfg.Tracker = tracker
//	records, _ := Run(ctx, cfg)
//
//	for _, j := range tracker.Noisy() {
//	    log.Printf("%s n=%d: P99/P50 = %.1f", j.Method, j.N, j.TailRatio)
//	}
type JitterTracker struct {
	mu         sync.Mutex
	maxSamples int
	buffers    map[jitterKey]*ring
}

type jitterKey struct {
	method string
	n      int
}

type ring struct {
	samples    []time.Duration
	writeIndex int
	count      int64 // Total samples recorded (monotonic)
}

// JitterStats is the tail summary of one (method, size) pair.
type JitterStats struct {
	Method    string
	N         int
	Samples   int
	P50       time.Duration
	P99       time.Duration
	TailRatio float64 // P99 / P50
	Noisy     bool    // TailRatio >= NoisyTailRatio
	Severe    bool    // TailRatio >= SevereTailRatio
}

// NewJitterTracker creates a tracker keeping at most maxSamples timings per
// (method, size). Non-positive values default to 1000.
func NewJitterTracker(maxSamples int) *JitterTracker {
	if maxSamples <= 0 {
		maxSamples = 1000
	}

	return &JitterTracker{
		maxSamples: maxSamples,
		buffers:    make(map[jitterKey]*ring),
	}
}

// Record adds one timing, overwriting the oldest sample once the buffer is full.
func (t *JitterTracker) Record(method string, n int, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := jitterKey{method: method, n: n}
	buf, ok := t.buffers[key]
	if !ok {
		buf = &ring{samples: make([]time.Duration, t.maxSamples)}
		t.buffers[key] = buf
	}

	buf.samples[buf.writeIndex] = d
	buf.writeIndex = (buf.writeIndex + 1) % t.maxSamples
	buf.count++
}

// Stats returns the tail summary of every tracked pair, ordered by method
// then size.
func (t *JitterTracker) Stats() []JitterStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]JitterStats, 0, len(t.buffers))
	for key, buf := range t.buffers {
		out = append(out, buf.stats(key, t.maxSamples))
	}

	slices.SortFunc(out, func(a, b JitterStats) int {
		if c := cmp.Compare(a.Method, b.Method); c != 0 {
			return c
		}
		return cmp.Compare(a.N, b.N)
	})

	return out
}

// Noisy returns only the pairs whose tail ratio reached NoisyTailRatio.
func (t *JitterTracker) Noisy() []JitterStats {
	var noisy []JitterStats
	for _, s := range t.Stats() {
		if s.Noisy {
			noisy = append(noisy, s)
		}
	}
	return noisy
}

func (r *ring) stats(key jitterKey, maxSamples int) JitterStats {
	n := int(min(r.count, int64(maxSamples)))

	data := make(stats.Float64Data, n)
	for i := range n {
		data[i] = float64(r.samples[i])
	}

	p50, _ := data.Median()
	p99, _ := stats.PercentileNearestRank(data, 99)

	ratio := 1.0
	if p50 > 0 {
		ratio = p99 / p50
	}

	return JitterStats{
		Method:    key.method,
		N:         key.n,
		Samples:   n,
		P50:       time.Duration(p50),
		P99:       time.Duration(p99),
		TailRatio: ratio,
		Noisy:     ratio >= NoisyTailRatio,
		Severe:    ratio >= SevereTailRatio,
	}
}
