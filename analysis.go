package solverbench

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MethodTrend is the fitted trend of one method's series. Defined is false
// when the series has too few samples or a single distinct size; Trend is
// then the zero value and must not be formatted.
type MethodTrend struct {
	Method  string
	Trend   PowerTrend
	Defined bool
	Sizes   []int
	Times   []float64
}

// Analyze fits every series concurrently and returns one MethodTrend per
// series in input order. An undefined fit is not an error; the only error
// is a cancelled context.
func Analyze(ctx context.Context, series []Series) ([]MethodTrend, error) {
	trends := make([]MethodTrend, len(series))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, s := range series {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			trend, ok := s.Fit()
			trends[i] = MethodTrend{
				Method:  s.Method,
				Trend:   trend,
				Defined: ok,
				Sizes:   s.Sizes,
				Times:   s.Times,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return trends, nil
}

// AnalyzeRecords groups records by method and fits each group.
func AnalyzeRecords(ctx context.Context, records []Record) ([]MethodTrend, error) {
	return Analyze(ctx, GroupByMethod(records))
}
