package solverbench

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"
)

// Sheet names used by WriteWorkbook.
const (
	SheetTrends       = "Trends"
	SheetMeasurements = "Measurements"
	SheetMethods      = "Methods"
)

// WriteWorkbook saves an .xlsx report at path with three sheets:
//
//   - Trends: method, C, k, R², samples, formula (or InsufficientData)
//   - Measurements: n, method, time, iterations, log10 n, log10 time,
//     theoretical ops
//   - Methods: the per-method comparison table, when summaries is non-empty
func WriteWorkbook(path string, records []Record, trends []MethodTrend, summaries []MethodSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetTrends); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	trendRows := make([][]any, 0, len(trends))
	for _, mt := range trends {
		if !mt.Defined {
			trendRows = append(trendRows, []any{mt.Method, nil, nil, nil, len(mt.Sizes), InsufficientData})
			continue
		}
		t := mt.Trend
		trendRows = append(trendRows, []any{mt.Method, t.C, t.K, t.RSquared, t.Samples, t.Formula()})
	}
	if err := writeSheet(f, SheetTrends, headerStyle,
		[]any{"Method", "C", "k", "R²", "Samples", "Formula"}, trendRows); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetMeasurements); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetMeasurements, err)
	}
	measurementRows := make([][]any, 0, len(records))
	for _, r := range records {
		measurementRows = append(measurementRows, []any{
			r.N, r.Method, r.TimeMs, r.Iterations,
			math.Log10(float64(r.N)), math.Log10(ClampTime(r.TimeMs)),
			TheoreticalOps(r.Method, r.N),
		})
	}
	if err := writeSheet(f, SheetMeasurements, headerStyle,
		[]any{"n", "Method", "Time (ms)", "Iterations", "log10 n", "log10 time", "Theoretical ops"},
		measurementRows); err != nil {
		return err
	}

	if len(summaries) > 0 {
		if _, err := f.NewSheet(SheetMethods); err != nil {
			return fmt.Errorf("create sheet %s: %w", SheetMethods, err)
		}
		methodRows := make([][]any, 0, len(summaries))
		for _, s := range summaries {
			methodRows = append(methodRows, []any{s.Method, s.Iterations, s.Residual, s.ErrorVsGauss})
		}
		if err := writeSheet(f, SheetMethods, headerStyle,
			[]any{"Method", "Iterations", "Residual", "Error vs Gauss"}, methodRows); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}

	return nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}

	lastHeader, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}

	return nil
}
