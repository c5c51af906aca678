package solverbench

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// degenerateDenominator is the smallest |m·Sxx − Sx²| accepted as a determinable slope.
const degenerateDenominator = 1e-12

// PowerTrend is a fitted power law T(n) ≈ C · n^K.
type PowerTrend struct {
	C        float64 // Linear coefficient, always > 0
	K        float64 // Exponent (slope in log-log space)
	RSquared float64 // Goodness of fit over the log-transformed data
	Samples  int     // Number of samples the fit was computed from
}

// Point is one (size, time) pair on a fitted curve.
type Point struct {
	N int
	T float64
}

// EstimatePowerTrend fits T(n) ≈ C · n^k by ordinary least squares on
// ln(time) against ln(size).
//
// The regression is performed in log-log space:
//
//	ln T = k · ln n + ln C
//
// With x_i = ln(size_i), y_i = ln(time_i) and m samples:
//
//	denom = m·Σx² − (Σx)²
//	k     = (m·Σxy − Σx·Σy) / denom
//	C     = exp((Σy − k·Σx) / m)
//
// The second return value is false when the fit is undefined: fewer than two
// samples, all sizes equal (|denom| < 1e-12), mismatched lengths, a
// non-positive size, or a NaN or infinite time. A defined fit always has
// finite k and finite C > 0. Undefined is an expected outcome for legitimate inputs
// such as a single benchmark run, so it is reported as a flag rather than an
// error.
//
// Times pass through ClampTime, so a zero measurement never reaches the
// logarithm. The function has no side effects and is safe for concurrent use.
func EstimatePowerTrend(sizes []int, times []float64) (PowerTrend, bool) {
	m := len(sizes)
	if m < 2 || m != len(times) {
		return PowerTrend{}, false
	}

	xs := make([]float64, m)
	ys := make([]float64, m)
	for i := range m {
		if sizes[i] <= 0 || !isFinite(times[i]) {
			return PowerTrend{}, false
		}
		xs[i] = math.Log(float64(sizes[i]))
		ys[i] = math.Log(ClampTime(times[i]))
	}

	var sx, sy, sxx, sxy float64
	for i := range m {
		sx += xs[i]
		sy += ys[i]
		sxx += xs[i] * xs[i]
		sxy += xs[i] * ys[i]
	}

	fm := float64(m)
	denom := fm*sxx - sx*sx
	if math.Abs(denom) < degenerateDenominator {
		return PowerTrend{}, false
	}

	k := (fm*sxy - sx*sy) / denom
	b := (sy - k*sx) / fm
	c := math.Exp(b)
	if !isFinite(k) || !isFinite(c) || c <= 0 {
		return PowerTrend{}, false
	}

	return PowerTrend{
		C:        c,
		K:        k,
		RSquared: stat.RSquared(xs, ys, nil, b, k),
		Samples:  m,
	}, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Predict returns C · n^K.
func (p PowerTrend) Predict(n float64) float64 {
	return p.C * math.Pow(n, p.K)
}

// Curve evaluates the trend at each size, in ascending size order.
func (p PowerTrend) Curve(sizes []int) []Point {
	sorted := slices.Clone(sizes)
	slices.Sort(sorted)

	points := make([]Point, len(sorted))
	for i, n := range sorted {
		points[i] = Point{N: n, T: p.Predict(float64(n))}
	}
	return points
}

// CoefficientString formats C so small coefficients stay readable:
// three significant digits when C >= 1, scientific notation otherwise.
func (p PowerTrend) CoefficientString() string {
	if p.C >= 1 {
		return fmt.Sprintf("%.3g", p.C)
	}
	return fmt.Sprintf("%.2e", p.C)
}

// Formula renders the trend as "T(n) ≈ C · n^k".
func (p PowerTrend) Formula() string {
	return fmt.Sprintf("T(n) ≈ %s · n^%.2f", p.CoefficientString(), p.K)
}

func (p PowerTrend) String() string {
	return fmt.Sprintf("PowerTrend{C: %s, k: %.4f, R²: %.4f, samples: %d}",
		p.CoefficientString(), p.K, p.RSquared, p.Samples)
}
