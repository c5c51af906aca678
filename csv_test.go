package solverbench

import (
	"bytes"
	"io/fs"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadComplexity_Comma(t *testing.T) {
	in := "n,method,time_ms,iterations\n" +
		"10,Gauss,0.5,0\n" +
		"20,Gauss,4,0\n" +
		"10,Jacobi,0.1,7\n"

	records, err := ReadComplexity(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []Record{
		{N: 10, Method: MethodGauss, TimeMs: 0.5},
		{N: 20, Method: MethodGauss, TimeMs: 4},
		{N: 10, Method: MethodJacobi, TimeMs: 0.1, Iterations: 7},
	}, records)
}

func TestReadComplexity_SemicolonAndDecimalComma(t *testing.T) {
	in := "n;method;time_ms;iterations\n" +
		"10;Gauss-Seidel;0,25;4\n" +
		"20;Gauss-Seidel;1,5;5\n"

	records, err := ReadComplexity(strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, 0.25, records[0].TimeMs)
	assert.Equal(t, 1.5, records[1].TimeMs)
	assert.Equal(t, MethodGaussSeidel, records[1].Method)
}

func TestReadComplexity_HeaderAliases(t *testing.T) {
	in := "\ufeffN, Method, Time\n10, Gauss, 1.5\n"

	records, err := ReadComplexity(strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, Record{N: 10, Method: MethodGauss, TimeMs: 1.5}, records[0])
}

func TestReadComplexity_SkipsMalformedRows(t *testing.T) {
	in := "n,method,time_ms,iterations\n" +
		"10,Gauss,abc,0\n" +
		",Gauss,1,0\n" +
		"x,Gauss,1,0\n" +
		"20,Jacobi,2,many\n" +
		"40,Gauss,2\n" +
		"80,Gauss,0,0\n"

	records, stats, err := Reader{}.ReadComplexity(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, ParseStats{Rows: 6, Parsed: 2, Skipped: 4}, stats)
	require.Len(t, records, 2)
	assert.Equal(t, 40, records[0].N, "missing iterations defaults to zero")
	assert.Equal(t, TimeEpsilon, records[1].TimeMs, "zero time is clamped")
}

// TestReadComplexity_SkipsNonFiniteTimes: inf and NaN parse as floats but
// are not timings, so the rows are skipped instead of reaching the fit.
func TestReadComplexity_SkipsNonFiniteTimes(t *testing.T) {
	in := "n,method,time_ms,iterations\n" +
		"10,Gauss,1,0\n" +
		"20,Gauss,inf,0\n" +
		"10,Jacobi,NaN,0\n" +
		"20,Jacobi,4,0\n" +
		"40,Jacobi,16,0\n" +
		"80,Jacobi,-Infinity,0\n"

	records, stats, err := Reader{}.ReadComplexity(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, ParseStats{Rows: 6, Parsed: 3, Skipped: 3}, stats)

	series := GroupByMethod(records)
	require.Len(t, series, 2)

	_, ok := series[0].Fit()
	assert.False(t, ok, "one finite Gauss sample left")

	cfg := DefaultAssertionConfig()
	cfg.ExpectedC = 0.01
	AssertPowerTrend(t, series[1], cfg)
}

func TestReadMethodSummaries_KeepsDivergedResiduals(t *testing.T) {
	in := "method,iterations,residual,error_vs_gauss\nJacobi,1000,+Inf,NaN\n"

	summaries, err := ReadMethodSummaries(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.True(t, math.IsInf(summaries[0].Residual, 1))
	assert.True(t, math.IsNaN(summaries[0].ErrorVsGauss))
}

func TestReadComplexity_Errors(t *testing.T) {
	_, err := ReadComplexity(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = ReadComplexity(strings.NewReader("  \n\n"))
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = ReadComplexity(strings.NewReader("n,method\n10,Gauss\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestReadComplexity_HeaderOnly(t *testing.T) {
	records, stats, err := Reader{}.ReadComplexity(strings.NewReader("n,method,time_ms\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, ParseStats{}, stats)
}

func TestWriteComplexity_RoundTrip(t *testing.T) {
	want := []Record{
		{N: 10, Method: MethodGauss, TimeMs: 0.0123},
		{N: 10, Method: MethodJacobi, TimeMs: 0.5, Iterations: 12},
		{N: 20, Method: MethodGaussSeidel, TimeMs: 1.25e-3, Iterations: 6},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteComplexity(&buf, want))
	assert.True(t, strings.HasPrefix(buf.String(), "n,method,time_ms,iterations\n"))

	got, err := ReadComplexity(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMethodSummaries_RoundTrip(t *testing.T) {
	want := []MethodSummary{
		{Method: MethodGauss, Solution: []float64{1, 2, 3}, Residual: 1e-15},
		{Method: MethodJacobi, Iterations: 17, Solution: []float64{1.0001, 1.9999, 3}, Residual: 2e-4, ErrorVsGauss: 1.4e-4},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMethodSummaries(&buf, want))

	header, _, _ := strings.Cut(buf.String(), "\n")
	assert.Equal(t, "method,iterations,x1,x2,x3,residual,error_vs_gauss", header)

	got, err := ReadMethodSummaries(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadMethodSummaries_Semicolon(t *testing.T) {
	in := "method;iterations;x1;x2;residual;error_vs_gauss\n" +
		"Gauss;0;1,5;2;0;0\n" +
		";3;1;1;1;1\n" +
		"Jacobi;oops;1;1;1;1\n"

	summaries, stats, err := Reader{}.ReadMethodSummaries(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, ParseStats{Rows: 3, Parsed: 1, Skipped: 2}, stats)
	require.Len(t, summaries, 1)
	assert.Equal(t, []float64{1.5, 2}, summaries[0].Solution)
}

func TestReadComplexityFile_Missing(t *testing.T) {
	_, err := Reader{}.ReadComplexityFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
