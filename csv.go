package solverbench

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrNoRows is returned when the input has no header row.
	ErrNoRows = errors.New("csv input is empty")

	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("required column missing")
)

// Column aliases accepted in headers, matched case-insensitively.
var (
	sizeColumns       = []string{"n"}
	methodColumns     = []string{"method"}
	timeColumns       = []string{"time_ms", "time"}
	iterationColumns  = []string{"iterations"}
	residualColumns   = []string{"residual"}
	errorColumns      = []string{"error_vs_gauss"}
	solutionColPrefix = "x"
)

// MethodSummary is one row of the per-method accuracy table produced by
// solving the reference system with every method.
type MethodSummary struct {
	Method       string
	Iterations   int
	Solution     []float64
	Residual     float64 // ‖b − A·x‖∞
	ErrorVsGauss float64 // ‖x − x_gauss‖₂
}

// ParseStats counts what the reader did with the data rows.
type ParseStats struct {
	Rows    int // Data rows seen (header excluded)
	Parsed  int // Rows turned into values
	Skipped int // Rows dropped as empty, incomplete, or non-numeric
}

// Reader parses benchmark CSV files.
//
// Both ',' and ';' separated files are accepted, the latter usually coming
// from spreadsheet exports in locales that also write decimal commas.
// Malformed rows are skipped and logged at debug level; only structural
// problems (empty input, missing columns) are errors.
type Reader struct {
	Logger *slog.Logger
}

func (r Reader) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// ReadComplexity parses rows of the form n,method,time_ms,iterations.
// Non-positive times are clamped with ClampTime.
func (r Reader) ReadComplexity(in io.Reader) ([]Record, ParseStats, error) {
	header, rows, err := readTable(in)
	if err != nil {
		return nil, ParseStats{}, err
	}

	sizeIdx, err := requireColumn(header, sizeColumns)
	if err != nil {
		return nil, ParseStats{}, err
	}
	methodIdx, err := requireColumn(header, methodColumns)
	if err != nil {
		return nil, ParseStats{}, err
	}
	timeIdx, err := requireColumn(header, timeColumns)
	if err != nil {
		return nil, ParseStats{}, err
	}
	iterIdx := findColumn(header, iterationColumns)

	var stats ParseStats
	records := make([]Record, 0, len(rows))

	for line, row := range rows {
		stats.Rows++

		sizeStr := field(row, sizeIdx)
		method := field(row, methodIdx)
		timeStr := field(row, timeIdx)
		if sizeStr == "" || method == "" || timeStr == "" {
			stats.Skipped++
			r.logger().Debug("skipping incomplete row", "line", line+2)
			continue
		}

		n, err := strconv.Atoi(sizeStr)
		if err != nil {
			stats.Skipped++
			r.logger().Debug("skipping row with invalid size", "line", line+2, "value", sizeStr)
			continue
		}
		t, err := parseTime(timeStr)
		if err != nil {
			stats.Skipped++
			r.logger().Debug("skipping row with invalid time", "line", line+2, "value", timeStr)
			continue
		}

		iterations := 0
		if s := field(row, iterIdx); s != "" {
			if iterations, err = strconv.Atoi(s); err != nil {
				stats.Skipped++
				r.logger().Debug("skipping row with invalid iterations", "line", line+2, "value", s)
				continue
			}
		}

		records = append(records, Record{
			N:          n,
			Method:     method,
			TimeMs:     ClampTime(t),
			Iterations: iterations,
		})
		stats.Parsed++
	}

	return records, stats, nil
}

// ReadMethodSummaries parses rows of the form
// method,iterations,x1,...,xN,residual,error_vs_gauss.
// Missing numeric columns default to zero.
func (r Reader) ReadMethodSummaries(in io.Reader) ([]MethodSummary, ParseStats, error) {
	header, rows, err := readTable(in)
	if err != nil {
		return nil, ParseStats{}, err
	}

	methodIdx, err := requireColumn(header, methodColumns)
	if err != nil {
		return nil, ParseStats{}, err
	}
	iterIdx := findColumn(header, iterationColumns)
	residualIdx := findColumn(header, residualColumns)
	errorIdx := findColumn(header, errorColumns)
	solutionIdx := solutionColumns(header)

	var stats ParseStats
	summaries := make([]MethodSummary, 0, len(rows))

	for line, row := range rows {
		stats.Rows++

		method := field(row, methodIdx)
		if method == "" {
			stats.Skipped++
			continue
		}

		summary, err := parseSummaryRow(row, method, iterIdx, residualIdx, errorIdx, solutionIdx)
		if err != nil {
			stats.Skipped++
			r.logger().Debug("skipping malformed summary row", "line", line+2, "error", err)
			continue
		}

		summaries = append(summaries, summary)
		stats.Parsed++
	}

	return summaries, stats, nil
}

func parseSummaryRow(row []string, method string, iterIdx, residualIdx, errorIdx int, solutionIdx []int) (MethodSummary, error) {
	s := MethodSummary{Method: method}

	var err error
	if v := field(row, iterIdx); v != "" {
		if s.Iterations, err = strconv.Atoi(v); err != nil {
			return MethodSummary{}, fmt.Errorf("iterations: %w", err)
		}
	}
	if v := field(row, residualIdx); v != "" {
		if s.Residual, err = parseDecimal(v); err != nil {
			return MethodSummary{}, fmt.Errorf("residual: %w", err)
		}
	}
	if v := field(row, errorIdx); v != "" {
		if s.ErrorVsGauss, err = parseDecimal(v); err != nil {
			return MethodSummary{}, fmt.Errorf("error_vs_gauss: %w", err)
		}
	}

	for _, idx := range solutionIdx {
		v := field(row, idx)
		if v == "" {
			break
		}
		x, err := parseDecimal(v)
		if err != nil {
			return MethodSummary{}, fmt.Errorf("solution: %w", err)
		}
		s.Solution = append(s.Solution, x)
	}

	return s, nil
}

// ReadComplexity parses a complexity CSV with the default logger.
func ReadComplexity(in io.Reader) ([]Record, error) {
	records, _, err := Reader{}.ReadComplexity(in)
	return records, err
}

// ReadMethodSummaries parses a method summary CSV with the default logger.
func ReadMethodSummaries(in io.Reader) ([]MethodSummary, error) {
	summaries, _, err := Reader{}.ReadMethodSummaries(in)
	return summaries, err
}

// ReadComplexityFile opens path and parses it as a complexity CSV.
func (r Reader) ReadComplexityFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, stats, err := r.ReadComplexity(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	r.logger().Debug("complexity csv parsed",
		"path", path, "rows", stats.Rows, "parsed", stats.Parsed, "skipped", stats.Skipped)

	return records, nil
}

// ReadMethodSummariesFile opens path and parses it as a method summary CSV.
func (r Reader) ReadMethodSummariesFile(path string) ([]MethodSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	summaries, stats, err := r.ReadMethodSummaries(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	r.logger().Debug("method summary csv parsed",
		"path", path, "rows", stats.Rows, "parsed", stats.Parsed, "skipped", stats.Skipped)

	return summaries, nil
}

// WriteComplexity writes records in the n,method,time_ms,iterations schema.
func WriteComplexity(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"n", "method", "time_ms", "iterations"}); err != nil {
		return err
	}

	for _, r := range records {
		err := cw.Write([]string{
			strconv.Itoa(r.N),
			r.Method,
			strconv.FormatFloat(r.TimeMs, 'g', -1, 64),
			strconv.Itoa(r.Iterations),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteMethodSummaries writes summaries in the
// method,iterations,x1..xN,residual,error_vs_gauss schema. N is the longest
// solution among the summaries; shorter solutions leave trailing cells empty.
func WriteMethodSummaries(w io.Writer, summaries []MethodSummary) error {
	width := 0
	for _, s := range summaries {
		width = max(width, len(s.Solution))
	}

	header := []string{"method", "iterations"}
	for i := range width {
		header = append(header, solutionColPrefix+strconv.Itoa(i+1))
	}
	header = append(header, "residual", "error_vs_gauss")

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, s := range summaries {
		row := []string{s.Method, strconv.Itoa(s.Iterations)}
		for i := range width {
			cell := ""
			if i < len(s.Solution) {
				cell = strconv.FormatFloat(s.Solution[i], 'g', -1, 64)
			}
			row = append(row, cell)
		}
		row = append(row,
			strconv.FormatFloat(s.Residual, 'g', -1, 64),
			strconv.FormatFloat(s.ErrorVsGauss, 'g', -1, 64),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// readTable sniffs the delimiter from the first line and returns the
// normalized header and the data rows.
func readTable(in io.Reader) ([]string, [][]string, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, ErrNoRows
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, ErrNoRows
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	return header, rows[1:], nil
}

// sniffDelimiter picks ';' only when the first line has semicolons and no commas.
func sniffDelimiter(data []byte) rune {
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	if bytes.ContainsRune(first, ';') && !bytes.ContainsRune(first, ',') {
		return ';'
	}
	return ','
}

func findColumn(header []string, aliases []string) int {
	for _, alias := range aliases {
		for i, h := range header {
			if h == alias {
				return i
			}
		}
	}
	return -1
}

func requireColumn(header []string, aliases []string) (int, error) {
	idx := findColumn(header, aliases)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(aliases, " or "))
	}
	return idx, nil
}

// solutionColumns returns the indices of x1, x2, ... in order, stopping at
// the first gap.
func solutionColumns(header []string) []int {
	var idx []int
	for i := 1; ; i++ {
		col := findColumn(header, []string{solutionColPrefix + strconv.Itoa(i)})
		if col < 0 {
			return idx
		}
		idx = append(idx, col)
	}
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

var errNotFinite = errors.New("value is not finite")

// parseTime is parseDecimal restricted to finite values. Residuals of a
// diverged solver may legitimately be Inf or NaN; a timing may not.
func parseTime(s string) (float64, error) {
	t, err := parseDecimal(s)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, fmt.Errorf("%w: %q", errNotFinite, s)
	}
	return t, nil
}

// parseDecimal accepts both "0.25" and "0,25".
func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}
