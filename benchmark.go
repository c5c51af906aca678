package solverbench

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
)

// Statistics summarizes repeated timings of one solve.
type Statistics struct {
	Mean   time.Duration
	Stddev time.Duration
	P50    time.Duration
	P95    time.Duration
	P99    time.Duration
}

// TailRatio returns P99/P50. Values near 1 mean the repeats agree; see
// JitterTracker for the thresholds used to flag noisy measurements.
func (s Statistics) TailRatio() float64 {
	if s.P50 == 0 {
		return 1.0
	}
	return float64(s.P99) / float64(s.P50)
}

// Config controls benchmark execution.
type Config struct {
	Sizes   []int    // System sizes n to benchmark (default: [10,20,40,80,120])
	Repeats int      // Timed solves per (size, method); the median is recorded
	Epsilon float64  // Convergence threshold for the iterative methods
	MaxIter int      // Iteration cap for the iterative methods
	Seed    int64    // Random seed for system generation (0 = time-based)
	Methods []string // Methods to run (default: AllMethods)

	Logger  *slog.Logger
	Tracker *JitterTracker // Optional; receives every individual timing
}

// DefaultConfig benchmarks sizes 10 to 120 with eps 1e-3 and 1000 max sweeps.
func DefaultConfig() Config {
	return Config{
		Sizes:   []int{10, 20, 40, 80, 120},
		Repeats: 3,
		Epsilon: 1e-3,
		MaxIter: 1000,
		Seed:    0,
		Methods: AllMethods,
	}
}

// Run generates one diagonally dominant system per size and times every
// configured method on it. One Record is returned per (size, method), in
// size-major order, holding the median time in milliseconds and the
// iteration count (0 for Gauss).
//
// The context is checked between solves; a cancelled run returns the
// context error and no records.
func Run(ctx context.Context, cfg Config) ([]Record, error) {
	if len(cfg.Sizes) == 0 {
		return nil, fmt.Errorf("no sizes configured")
	}
	if cfg.Repeats <= 0 {
		cfg.Repeats = 1
	}
	if len(cfg.Methods) == 0 {
		cfg.Methods = AllMethods
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	records := make([]Record, 0, len(cfg.Sizes)*len(cfg.Methods))

	for _, n := range cfg.Sizes {
		if n <= 0 {
			return nil, fmt.Errorf("invalid system size %d", n)
		}
		a, b := DiagonallyDominantSystem(n, rng)

		for _, method := range cfg.Methods {
			record, err := runAtSize(ctx, method, a, b, cfg)
			if err != nil {
				return nil, fmt.Errorf("failed at n=%d, method=%s: %w", n, method, err)
			}
			records = append(records, record)

			logger.Debug("benchmark point",
				"n", n, "method", method, "time_ms", record.TimeMs, "iterations", record.Iterations)
		}
	}

	return records, nil
}

// runAtSize times one method Repeats times on the same system.
func runAtSize(ctx context.Context, method string, a *mat.Dense, b *mat.VecDense, cfg Config) (Record, error) {
	n, _ := a.Dims()
	latencies := make([]time.Duration, 0, cfg.Repeats)
	iterations := 0

	for range cfg.Repeats {
		if err := ctx.Err(); err != nil {
			return Record{}, err
		}

		elapsed, iter, err := timeSolve(method, a, b, cfg)
		if err != nil {
			return Record{}, err
		}
		latencies = append(latencies, elapsed)
		iterations = iter

		if cfg.Tracker != nil {
			cfg.Tracker.Record(method, n, elapsed)
		}
	}

	st := CalculateStatistics(latencies)

	return Record{
		N:          n,
		Method:     method,
		TimeMs:     float64(st.P50) / float64(time.Millisecond),
		Iterations: iterations,
	}, nil
}

// timeSolve executes a single solve and measures its wall-clock duration.
func timeSolve(method string, a *mat.Dense, b *mat.VecDense, cfg Config) (time.Duration, int, error) {
	start := time.Now()

	var (
		iter int
		err  error
	)
	switch method {
	case MethodGauss:
		// Partial pivoting never swaps rows on a diagonally dominant system.
		_, err = SolveGauss(a, b)
	case MethodJacobi:
		_, iter, err = SolveJacobi(a, b, cfg.Epsilon, cfg.MaxIter)
	case MethodGaussSeidel:
		_, iter, err = SolveGaussSeidel(a, b, cfg.Epsilon, cfg.MaxIter)
	default:
		return 0, 0, fmt.Errorf("unknown method %q", method)
	}

	return time.Since(start), iter, err
}

// CalculateStatistics computes mean, population standard deviation, median,
// and nearest-rank P95/P99 of the latencies.
func CalculateStatistics(latencies []time.Duration) Statistics {
	if len(latencies) == 0 {
		return Statistics{}
	}

	data := make(stats.Float64Data, len(latencies))
	for i, lat := range latencies {
		data[i] = float64(lat)
	}

	// Errors are only returned for empty input, which is handled above.
	mean, _ := data.Mean()
	stddev, _ := data.StandardDeviationPopulation()
	p50, _ := data.Median()
	p95, _ := stats.PercentileNearestRank(data, 95)
	p99, _ := stats.PercentileNearestRank(data, 99)

	return Statistics{
		Mean:   time.Duration(mean),
		Stddev: time.Duration(stddev),
		P50:    time.Duration(p50),
		P95:    time.Duration(p95),
		P99:    time.Duration(p99),
	}
}
