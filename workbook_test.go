package solverbench

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbook(t *testing.T) {
	records := syntheticRecords()
	trends, err := AnalyzeRecords(context.Background(), records)
	require.NoError(t, err)

	summaries := []MethodSummary{
		{Method: MethodGauss},
		{Method: MethodJacobi, Iterations: 12, Residual: 1e-4, ErrorVsGauss: 2e-5},
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteWorkbook(path, records, trends, summaries))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetTrends, SheetMeasurements, SheetMethods}, f.GetSheetList())

	rows, err := f.GetRows(SheetTrends)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Method", "C", "k", "R²", "Samples", "Formula"}, rows[0])
	assert.Equal(t, MethodGauss, rows[1][0])
	assert.Equal(t, trends[0].Trend.Formula(), rows[1][5])
	assert.Equal(t, MethodGaussSeidel, rows[3][0])
	assert.Equal(t, InsufficientData, rows[3][len(rows[3])-1])

	rows, err = f.GetRows(SheetMeasurements)
	require.NoError(t, err)
	assert.Len(t, rows, len(records)+1)
	assert.Equal(t, "Theoretical ops", rows[0][6])

	rows, err = f.GetRows(SheetMethods)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, MethodJacobi, rows[2][0])
	assert.Equal(t, "12", rows[2][1])
}

func TestWriteWorkbook_WithoutSummaries(t *testing.T) {
	records := syntheticRecords()
	trends, err := AnalyzeRecords(context.Background(), records)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteWorkbook(path, records, trends, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetTrends, SheetMeasurements}, f.GetSheetList())
}

func TestWriteWorkbook_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "report.xlsx")
	assert.Error(t, WriteWorkbook(path, nil, nil, nil))
}
