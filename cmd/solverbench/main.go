// Command solverbench benchmarks Gauss, Jacobi and Gauss–Seidel solvers and
// reports the power-law complexity trend T(n) ≈ C · n^k of each method.
//
// Usage:
//
//	solverbench run              # write csv/all_methods.csv and csv/complexity.csv
//	solverbench trends           # fit trends, write plots/complexity_time.md and .xlsx
//	solverbench stats            # print the per-method accuracy table
//	solverbench theory           # print theoretical operation counts
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal; settings then come from the environment and config file.
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(envErr)
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, Styles.Error.Render("error: ")+err.Error())
		os.Exit(1)
	}
}
