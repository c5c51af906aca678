package solverbench

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyzedTrends(t *testing.T) []MethodTrend {
	t.Helper()
	trends, err := AnalyzeRecords(context.Background(), syntheticRecords())
	require.NoError(t, err)
	return trends
}

func TestWriteTrendSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTrendSummary(&buf, analyzedTrends(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "Power-law trends T(n) ≈ C · n^k (T in ms):", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Gauss: T(n) ≈ 2.00e-05 · n^3.00 (R² = 1.0000)"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Jacobi: T(n) ≈ 4.00e-04 · n^2.00"), lines[2])
	assert.Equal(t, "Gauss-Seidel: "+InsufficientData, lines[3])
}

func TestWriteTrendsMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTrendsMarkdown(&buf, analyzedTrends(t)))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Power-law complexity trends\n"))
	assert.Contains(t, out, "- **Gauss**: T(n) ≈ 2.00e-05 · n^3.00\n")
	assert.Contains(t, out, "- **Jacobi**: T(n) ≈ 4.00e-04 · n^2.00\n")
	assert.NotContains(t, out, "**Gauss-Seidel**", "undefined trends are omitted")
	assert.Contains(t, out, "O(n³)")
}

func TestWriteMethodTable(t *testing.T) {
	summaries := []MethodSummary{
		{Method: MethodGauss, Residual: 0},
		{Method: MethodGaussSeidel, Iterations: 9, Residual: 1.5e-4, ErrorVsGauss: 2.25e-5},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMethodTable(&buf, summaries))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "Method          Iterations        Residual           Error", lines[0])
	assert.Equal(t, strings.Repeat("-", 58), lines[1])
	assert.Equal(t, "Gauss                    0       0.000e+00       0.000e+00", lines[2])
	assert.Equal(t, "Gauss-Seidel             9       1.500e-04       2.250e-05", lines[3])
}

func TestTheoreticalOps(t *testing.T) {
	assert.Equal(t, 500.0, TheoreticalOps(MethodGauss, 10))
	assert.Equal(t, 500.0, TheoreticalOps(MethodJacobi, 10))
	assert.Equal(t, 50000.0, TheoreticalOps(MethodGaussSeidel, 100))
	assert.Equal(t, 500000.0, TheoreticalOps(MethodGauss, 100))
	assert.Zero(t, TheoreticalOps("Cholesky", 100))
}

func TestWriteTheoryTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTheoryTable(&buf, []int{10, 100}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, strings.Fields(lines[1]), []string{"10", "500", "500", "1.0"})
	assert.Equal(t, strings.Fields(lines[2]), []string{"100", "500000", "50000", "10.0"})
}
