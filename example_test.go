package solverbench_test

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alexshd/solverbench"
)

func ExampleEstimatePowerTrend() {
	sizes := []int{1, 10, 100}
	times := []float64{2, 200, 20000}

	trend, ok := solverbench.EstimatePowerTrend(sizes, times)
	if !ok {
		fmt.Println(solverbench.InsufficientData)
		return
	}
	fmt.Printf("k = %.2f, C = %.2f\n", trend.K, trend.C)
	// Output: k = 2.00, C = 2.00
}

func ExampleEstimatePowerTrend_undefined() {
	_, ok := solverbench.EstimatePowerTrend([]int{50, 50}, []float64{1, 2})
	fmt.Println(ok)
	// Output: false
}

func ExampleWriteTrendSummary() {
	in := strings.NewReader(`n,method,time_ms,iterations
10,Jacobi,0.04,9
20,Jacobi,0.16,9
40,Jacobi,0.64,10
10,Gauss-Seidel,0.02,5
`)

	records, err := solverbench.ReadComplexity(in)
	if err != nil {
		fmt.Println(err)
		return
	}

	trends, err := solverbench.AnalyzeRecords(context.Background(), records)
	if err != nil {
		fmt.Println(err)
		return
	}

	_ = solverbench.WriteTrendSummary(os.Stdout, trends)
	// Output:
	// Power-law trends T(n) ≈ C · n^k (T in ms):
	// Jacobi: T(n) ≈ 4.00e-04 · n^2.00 (R² = 1.0000)
	// Gauss-Seidel: insufficient data for estimate
}

func ExampleTheoreticalOps() {
	for _, method := range solverbench.AllMethods {
		fmt.Printf("%s: %.0f\n", method, solverbench.TheoreticalOps(method, 100))
	}
	// Output:
	// Gauss: 500000
	// Jacobi: 50000
	// Gauss-Seidel: 50000
}
