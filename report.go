package solverbench

import (
	"fmt"
	"io"
	"strings"
)

// InsufficientData is printed in place of a formula when a fit is undefined.
const InsufficientData = "insufficient data for estimate"

// DefaultTheorySizes are the sizes used for the theoretical cost table.
var DefaultTheorySizes = []int{10, 20, 50, 100, 200, 500}

// WriteTrendsMarkdown writes a Markdown document listing the fitted formula
// of every defined trend, followed by a short interpretation. Undefined
// trends are left out.
func WriteTrendsMarkdown(w io.Writer, trends []MethodTrend) error {
	var sb strings.Builder

	sb.WriteString("# Power-law complexity trends\n\n")
	sb.WriteString("For each method the benchmark timings were fitted to\n")
	sb.WriteString("`T(n) ≈ C · n^k`, where `T` is the time in milliseconds and `n` is the system size.\n\n")

	for _, mt := range trends {
		if !mt.Defined {
			continue
		}
		fmt.Fprintf(&sb, "- **%s**: %s\n", mt.Method, mt.Trend.Formula())
	}

	sb.WriteString("\nThe exponent k is the rate at which time grows with n.\n")
	sb.WriteString("For Gauss elimination k is close to 3, i.e. O(n³).\n")
	sb.WriteString("For Jacobi and Gauss–Seidel k is close to 2, i.e. O(k · n²) for k iterations.\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteTrendSummary writes one line per method: the formula and R², or
// InsufficientData when the fit is undefined.
func WriteTrendSummary(w io.Writer, trends []MethodTrend) error {
	var sb strings.Builder

	sb.WriteString("Power-law trends T(n) ≈ C · n^k (T in ms):\n")
	for _, mt := range trends {
		if !mt.Defined {
			fmt.Fprintf(&sb, "%s: %s\n", mt.Method, InsufficientData)
			continue
		}
		fmt.Fprintf(&sb, "%s: %s (R² = %.4f)\n", mt.Method, mt.Trend.Formula(), mt.Trend.RSquared)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteMethodTable writes the iterations/residual/error table for the
// per-method comparison.
func WriteMethodTable(w io.Writer, summaries []MethodSummary) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%-15s %10s %15s %15s\n", "Method", "Iterations", "Residual", "Error")
	sb.WriteString(strings.Repeat("-", 58) + "\n")
	for _, s := range summaries {
		fmt.Fprintf(&sb, "%-15s %10d %15.3e %15.3e\n", s.Method, s.Iterations, s.Residual, s.ErrorVsGauss)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// TheoreticalOps returns the nominal operation count of one solve:
// 0.5·n³ for Gauss elimination and 5·n² for an iterative method (a fixed
// small number of sweeps at n² each). Unknown methods return 0.
func TheoreticalOps(method string, n int) float64 {
	fn := float64(n)
	switch method {
	case MethodGauss:
		return 0.5 * fn * fn * fn
	case MethodJacobi, MethodGaussSeidel:
		return 5.0 * fn * fn
	default:
		return 0
	}
}

// WriteTheoryTable compares the theoretical cost of the direct and iterative
// methods for each size.
func WriteTheoryTable(w io.Writer, sizes []int) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%6s %18s %18s %10s\n", "n", "Gauss O(n³)", "Iterative O(n²)", "Ratio")
	for _, n := range sizes {
		direct := TheoreticalOps(MethodGauss, n)
		iterative := TheoreticalOps(MethodJacobi, n)
		ratio := 0.0
		if iterative > 0 {
			ratio = direct / iterative
		}
		fmt.Fprintf(&sb, "%6d %18.0f %18.0f %10.1f\n", n, direct, iterative, ratio)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
