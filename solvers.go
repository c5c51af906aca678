package solverbench

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// pivotTolerance is the magnitude below which a pivot or diagonal entry is
// treated as zero.
const pivotTolerance = 1e-12

var (
	// ErrSingularMatrix is returned by SolveGauss when no usable pivot exists.
	ErrSingularMatrix = errors.New("matrix is singular or nearly singular")

	// ErrZeroDiagonal is returned by the iterative solvers when a diagonal entry is zero.
	ErrZeroDiagonal = errors.New("zero diagonal entry")

	// ErrShape is returned when A is not square or b does not match its size.
	ErrShape = errors.New("matrix and vector dimensions do not match")
)

// Method names as they appear in benchmark CSV files.
const (
	MethodGauss       = "Gauss"
	MethodJacobi      = "Jacobi"
	MethodGaussSeidel = "Gauss-Seidel"
)

// AllMethods lists the solvers in report order.
var AllMethods = []string{MethodGauss, MethodJacobi, MethodGaussSeidel}

// SolveGauss solves A·x = b by Gaussian elimination with partial pivoting.
// A and b are not modified.
//
// Complexity: O(n³).
func SolveGauss(a mat.Matrix, b mat.Vector) (*mat.VecDense, error) {
	n, err := checkSystem(a, b)
	if err != nil {
		return nil, err
	}

	// Augmented matrix [A | b].
	aug := mat.NewDense(n, n+1, nil)
	for i := range n {
		for j := range n {
			aug.Set(i, j, a.At(i, j))
		}
		aug.Set(i, n, b.AtVec(i))
	}

	for k := range n {
		pivotRow := k
		maxVal := math.Abs(aug.At(k, k))
		for i := k + 1; i < n; i++ {
			if v := math.Abs(aug.At(i, k)); v > maxVal {
				maxVal = v
				pivotRow = i
			}
		}
		if maxVal < pivotTolerance {
			return nil, fmt.Errorf("%w: column %d", ErrSingularMatrix, k)
		}

		if pivotRow != k {
			rowK := mat.Row(nil, k, aug)
			aug.SetRow(k, mat.Row(nil, pivotRow, aug))
			aug.SetRow(pivotRow, rowK)
		}

		for i := k + 1; i < n; i++ {
			factor := aug.At(i, k) / aug.At(k, k)
			for j := k; j <= n; j++ {
				aug.Set(i, j, aug.At(i, j)-factor*aug.At(k, j))
			}
		}
	}

	x := mat.NewVecDense(n, nil)
	for i := n - 1; i >= 0; i-- {
		var sum float64
		for j := i + 1; j < n; j++ {
			sum += aug.At(i, j) * x.AtVec(j)
		}
		diag := aug.At(i, i)
		if math.Abs(diag) < pivotTolerance {
			return nil, fmt.Errorf("%w: zero pivot at row %d during back substitution", ErrSingularMatrix, i)
		}
		x.SetVec(i, (aug.At(i, n)-sum)/diag)
	}

	return x, nil
}

// SolveJacobi solves A·x = b by Jacobi iteration starting from x = 0.
//
// Iteration stops when max|x_new − x_old| < eps or after maxIter sweeps.
// The number of sweeps performed is returned; a result equal to maxIter
// means the method did not converge. Convergence is guaranteed for strictly
// diagonally dominant A.
//
// Complexity: O(k · n²) for k sweeps.
func SolveJacobi(a mat.Matrix, b mat.Vector, eps float64, maxIter int) (*mat.VecDense, int, error) {
	n, err := checkSystem(a, b)
	if err != nil {
		return nil, 0, err
	}
	if err := checkDiagonal(a, n); err != nil {
		return nil, 0, err
	}

	x := make([]float64, n)
	prev := make([]float64, n)

	iter := 0
	for iter < maxIter {
		for i := range n {
			var sum float64
			for j := range n {
				if j != i {
					sum += a.At(i, j) * prev[j]
				}
			}
			x[i] = (b.AtVec(i) - sum) / a.At(i, i)
		}
		iter++

		if floats.Distance(x, prev, math.Inf(1)) < eps {
			break
		}
		copy(prev, x)
	}

	return mat.NewVecDense(n, x), iter, nil
}

// SolveGaussSeidel solves A·x = b by Gauss–Seidel iteration starting from
// x = 0. Unlike Jacobi, each updated component is used immediately within
// the same sweep, which usually halves the sweep count.
//
// Stopping rule and return values match SolveJacobi.
func SolveGaussSeidel(a mat.Matrix, b mat.Vector, eps float64, maxIter int) (*mat.VecDense, int, error) {
	n, err := checkSystem(a, b)
	if err != nil {
		return nil, 0, err
	}
	if err := checkDiagonal(a, n); err != nil {
		return nil, 0, err
	}

	x := make([]float64, n)

	iter := 0
	for iter < maxIter {
		var maxDiff float64
		for i := range n {
			var sum float64
			for j := range n {
				if j != i {
					sum += a.At(i, j) * x[j]
				}
			}
			next := (b.AtVec(i) - sum) / a.At(i, i)
			maxDiff = math.Max(maxDiff, math.Abs(next-x[i]))
			x[i] = next
		}
		iter++

		if maxDiff < eps {
			break
		}
	}

	return mat.NewVecDense(n, x), iter, nil
}

// ResidualInfNorm returns ‖b − A·x‖∞.
func ResidualInfNorm(a mat.Matrix, x, b mat.Vector) float64 {
	var ax mat.VecDense
	ax.MulVec(a, x)

	var r mat.VecDense
	r.SubVec(b, &ax)

	return mat.Norm(&r, math.Inf(1))
}

// ErrorNorm2 returns ‖x − ref‖₂.
func ErrorNorm2(x, ref mat.Vector) float64 {
	var d mat.VecDense
	d.SubVec(x, ref)
	return mat.Norm(&d, 2)
}

// DiagonallyDominantSystem generates a random n×n system whose off-diagonal
// entries lie in [-0.1, 0.1] and whose diagonal exceeds the absolute row sum
// by 1, so both iterative methods converge. The right-hand side is all ones.
func DiagonallyDominantSystem(n int, rng *rand.Rand) (*mat.Dense, *mat.VecDense) {
	a := mat.NewDense(n, n, nil)
	b := mat.NewVecDense(n, nil)

	for i := range n {
		var rowSum float64
		for j := range n {
			if i == j {
				continue
			}
			v := rng.Float64()*0.2 - 0.1
			a.Set(i, j, v)
			rowSum += math.Abs(v)
		}
		a.Set(i, i, rowSum+1)
		b.SetVec(i, 1)
	}

	return a, b
}

// ReferenceSystem returns the fixed 3×3 demonstration system
//
//	 x + 3y − 2z = 6
//	2x −  y +  z = 3
//	4x + 2y − 3z = 11
//
// It is not diagonally dominant, so the iterative methods are not expected
// to converge on it; that contrast is the point of the comparison table.
func ReferenceSystem() (*mat.Dense, *mat.VecDense) {
	a := mat.NewDense(3, 3, []float64{
		1, 3, -2,
		2, -1, 1,
		4, 2, -3,
	})
	b := mat.NewVecDense(3, []float64{6, 3, 11})
	return a, b
}

// CompareMethods solves A·x = b with every method and reports iterations,
// residual, and distance from the Gauss solution. Gauss must succeed since
// it is the reference for the error column.
func CompareMethods(a mat.Matrix, b mat.Vector, eps float64, maxIter int) ([]MethodSummary, error) {
	xGauss, err := SolveGauss(a, b)
	if err != nil {
		return nil, fmt.Errorf("gauss reference solution: %w", err)
	}

	summaries := []MethodSummary{{
		Method:       MethodGauss,
		Solution:     mat.Col(nil, 0, xGauss),
		Residual:     ResidualInfNorm(a, xGauss, b),
		ErrorVsGauss: 0,
	}}

	iterative := []struct {
		name  string
		solve func(mat.Matrix, mat.Vector, float64, int) (*mat.VecDense, int, error)
	}{
		{MethodJacobi, SolveJacobi},
		{MethodGaussSeidel, SolveGaussSeidel},
	}

	for _, m := range iterative {
		x, iter, err := m.solve(a, b, eps, maxIter)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.name, err)
		}
		summaries = append(summaries, MethodSummary{
			Method:       m.name,
			Iterations:   iter,
			Solution:     mat.Col(nil, 0, x),
			Residual:     ResidualInfNorm(a, x, b),
			ErrorVsGauss: ErrorNorm2(x, xGauss),
		})
	}

	return summaries, nil
}

func checkSystem(a mat.Matrix, b mat.Vector) (int, error) {
	r, c := a.Dims()
	if r != c || r != b.Len() || r == 0 {
		return 0, fmt.Errorf("%w: A is %dx%d, b has %d entries", ErrShape, r, c, b.Len())
	}
	return r, nil
}

func checkDiagonal(a mat.Matrix, n int) error {
	for i := range n {
		if math.Abs(a.At(i, i)) < pivotTolerance {
			return fmt.Errorf("%w: row %d", ErrZeroDiagonal, i)
		}
	}
	return nil
}
