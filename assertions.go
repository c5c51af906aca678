package solverbench

import (
	"math"
	"testing"
)

// AssertionConfig contains tolerances for power-trend properties.
type AssertionConfig struct {
	// Expected exponent k (e.g. 3 for Gauss, 2 for the iterative methods)
	ExpectedK float64

	// |k − ExpectedK| must not exceed this
	KTolerance float64

	// Expected coefficient C; 0 skips the check
	ExpectedC float64

	// Relative tolerance on C: |C − ExpectedC| / ExpectedC
	CRelTolerance float64

	// Minimum R² for model fit quality
	MinRSquared float64
}

// DefaultAssertionConfig returns tolerances suited to exact synthetic data.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		ExpectedK:     2,
		KTolerance:    1e-9,
		CRelTolerance: 1e-9,
		MinRSquared:   0.99,
	}
}

// AssertPowerTrend verifies the series has a defined fit matching cfg.
//
// Mathematical property:
//
//	|k − k_expected| ≤ KTolerance  and  R² ≥ MinRSquared
func AssertPowerTrend(t *testing.T, s Series, cfg AssertionConfig) PowerTrend {
	t.Helper()

	trend, ok := s.Fit()
	if !ok {
		t.Fatalf("%s: power trend undefined for %d samples (sizes %v)", s.Method, s.Len(), s.Sizes)
	}

	if math.Abs(trend.K-cfg.ExpectedK) > cfg.KTolerance {
		t.Errorf("%s: exponent k = %.9f, expected %.9f ± %g",
			s.Method, trend.K, cfg.ExpectedK, cfg.KTolerance)
	}

	if cfg.ExpectedC != 0 {
		rel := math.Abs(trend.C-cfg.ExpectedC) / cfg.ExpectedC
		if rel > cfg.CRelTolerance {
			t.Errorf("%s: coefficient C = %.9g, expected %.9g (relative error %.2e)",
				s.Method, trend.C, cfg.ExpectedC, rel)
		}
	}

	if trend.RSquared < cfg.MinRSquared {
		t.Errorf("%s: poor fit R² = %.4f (min: %.4f)", s.Method, trend.RSquared, cfg.MinRSquared)
	}

	t.Logf("✓ %s: %s, R² = %.4f", s.Method, trend.Formula(), trend.RSquared)
	return trend
}

// AssertUndefined verifies that no power trend can be fitted to the samples.
func AssertUndefined(t *testing.T, sizes []int, times []float64) {
	t.Helper()

	if trend, ok := EstimatePowerTrend(sizes, times); ok {
		t.Errorf("expected undefined trend for sizes %v, got %s", sizes, trend)
	}
}

// PrintTrendAnalysis outputs each trend with measured vs predicted times to
// the test log.
func PrintTrendAnalysis(t *testing.T, trends []MethodTrend) {
	t.Helper()

	t.Logf("\n=== Power Trend Analysis ===")
	for _, mt := range trends {
		if !mt.Defined {
			t.Logf("%s: %s", mt.Method, InsufficientData)
			continue
		}

		t.Logf("%s: %s (R² = %.4f)", mt.Method, mt.Trend.Formula(), mt.Trend.RSquared)
		t.Logf("  n      Measured (ms)   Predicted (ms)")
		t.Logf("  -----  --------------  --------------")
		for i, n := range mt.Sizes {
			t.Logf("  %-5d  %14.6f  %14.6f", n, mt.Times[i], mt.Trend.Predict(float64(n)))
		}

		switch {
		case mt.Trend.K > 2.5:
			t.Logf("  ~ cubic growth (direct elimination)")
		case mt.Trend.K > 1.5:
			t.Logf("  ~ quadratic growth (iterative sweeps)")
		default:
			t.Logf("  ~ sub-quadratic growth (timer resolution or cache effects dominate)")
		}
	}
}
