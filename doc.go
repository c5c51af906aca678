// Package solverbench measures how the cost of solving linear systems grows
// with system size, and summarizes that growth as a power law.
//
// # Overview
//
// Three solvers are benchmarked on random strictly diagonally dominant
// systems:
//
//   - Gauss elimination with partial pivoting, O(n³)
//   - Jacobi iteration, O(k · n²) for k sweeps
//   - Gauss–Seidel iteration, O(k · n²) for k sweeps
//
// Each timing series is then fitted to
//
//	T(n) ≈ C · n^k
//
// by ordinary least squares in log-log space. The exponent k is the growth
// rate: close to 3 for Gauss, close to 2 for the iterative methods.
//
// # Quick Start
//
// Benchmark and fit in one go:
//
//	records, err := solverbench.Run(ctx, solverbench.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	trends, err := solverbench.AnalyzeRecords(ctx, records)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	solverbench.WriteTrendSummary(os.Stdout, trends)
//
// Or fit timings that were recorded elsewhere:
//
//	records, err := solverbench.ReadComplexity(f) // n,method,time_ms,iterations
//
// A fit needs at least two samples with two distinct sizes. When it is not
// possible, EstimatePowerTrend returns false and reports print
// InsufficientData instead of a formula.
//
// # Zero timings
//
// Fast solves on small systems often measure as 0 ms. Every time value is
// passed through ClampTime, which replaces non-positive values with
// TimeEpsilon, so the logarithm is always defined and the result does not
// depend on how the data entered the package.
//
// # Jitter
//
// Individual timings can be fed to a JitterTracker. It reports P99/P50 per
// (method, size); a ratio above NoisyTailRatio means the repeats disagreed
// and the recorded median should be treated with suspicion.
//
// # Testing helpers
//
// AssertPowerTrend and AssertUndefined check fitted trends from tests:
//
//	func TestGaussIsCubic(t *testing.T) {
//	    s, _ := solverbench.NewSeries("Gauss", sizes, times)
//	    solverbench.AssertPowerTrend(t, s, solverbench.AssertionConfig{
//	        ExpectedK:   3,
//	        KTolerance:  0.3,
//	        MinRSquared: 0.95,
//	    })
//	}
//
// The solverbench command (cmd/solverbench) wraps all of this: run writes
// the CSV files, trends fits them and writes Markdown and .xlsx reports.
package solverbench
