package solverbench

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// TimeEpsilon replaces non-positive time measurements before any logarithm
// is taken. A solve that finished below timer resolution is reported as 0 ms
// by the benchmark program and must not poison the log-log fit.
const TimeEpsilon = 1e-6

// ClampTime is the single clamp policy for time values. Every path into the
// estimator (CSV reader, NewSeries, EstimatePowerTrend) goes through it, so
// a zero-time row produces the same fit regardless of entry point.
//
// Only non-positive values are clamped. NaN and ±Inf are not measurements
// and pass through unchanged; the CSV reader skips them and
// EstimatePowerTrend reports the fit as undefined.
//
// ClampTime is idempotent: ClampTime(ClampTime(t)) == ClampTime(t).
func ClampTime(t float64) float64 {
	if t <= 0 {
		return TimeEpsilon
	}
	return t
}

// Record is one parsed row of a complexity benchmark: the time one method
// took to solve a system of size N.
type Record struct {
	N          int
	Method     string
	TimeMs     float64
	Iterations int
}

// Series is the ordered set of (size, time) samples for one method.
// It is built once and treated as read-only.
type Series struct {
	Method string
	Sizes  []int
	Times  []float64
}

// ErrSeriesShape is returned by NewSeries for empty or mismatched samples.
var ErrSeriesShape = errors.New("series sizes and times must have equal, non-zero length")

// NewSeries validates and copies the samples, clamping every time value.
func NewSeries(method string, sizes []int, times []float64) (Series, error) {
	if len(sizes) == 0 || len(sizes) != len(times) {
		return Series{}, fmt.Errorf("%w: method %q has %d sizes and %d times",
			ErrSeriesShape, method, len(sizes), len(times))
	}

	clamped := make([]float64, len(times))
	for i, t := range times {
		clamped[i] = ClampTime(t)
	}

	return Series{
		Method: method,
		Sizes:  slices.Clone(sizes),
		Times:  clamped,
	}, nil
}

// Len returns the number of samples.
func (s Series) Len() int {
	return len(s.Sizes)
}

// Fit estimates the power trend of the series. See EstimatePowerTrend.
func (s Series) Fit() (PowerTrend, bool) {
	return EstimatePowerTrend(s.Sizes, s.Times)
}

// GroupByMethod splits records into one Series per method label.
//
// Methods appear in the order they are first seen in records; samples within
// a series are sorted by size (stable, so repeated sizes keep input order).
func GroupByMethod(records []Record) []Series {
	var order []string
	grouped := make(map[string][]Record)

	for _, r := range records {
		if _, seen := grouped[r.Method]; !seen {
			order = append(order, r.Method)
		}
		grouped[r.Method] = append(grouped[r.Method], r)
	}

	series := make([]Series, 0, len(order))
	for _, method := range order {
		rows := grouped[method]
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].N < rows[j].N
		})

		s := Series{
			Method: method,
			Sizes:  make([]int, len(rows)),
			Times:  make([]float64, len(rows)),
		}
		for i, r := range rows {
			s.Sizes[i] = r.N
			s.Times[i] = ClampTime(r.TimeMs)
		}
		series = append(series, s)
	}

	return series
}
