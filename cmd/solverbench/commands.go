package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alexshd/solverbench"
	"github.com/alexshd/solverbench/internal/config"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand after the root's
// PersistentPreRunE has run.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
}

func newRootCmd(envErr error) *cobra.Command {
	a := &app{}

	var (
		configPath string
		logLevel   string
		csvDir     string
		outDir     string
	)

	root := &cobra.Command{
		Use:           "solverbench",
		Short:         "Benchmark linear solvers and fit power-law complexity trends",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("csv-dir") {
				cfg.CSVDir = csvDir
			}
			if flags.Changed("out-dir") {
				cfg.OutDir = outDir
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			a.cfg = cfg
			a.out = cmd.OutOrStdout()
			a.logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:      cfg.Level(),
				TimeFormat: time.TimeOnly,
			}))
			slog.SetDefault(a.logger)

			if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
				a.logger.Warn("could not load .env", "error", envErr)
			}
			a.logger.Debug("configuration loaded",
				"config", configPath, "csv_dir", cfg.CSVDir, "out_dir", cfg.OutDir)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML configuration file")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&csvDir, "csv-dir", "csv", "directory for CSV input and output")
	pf.StringVar(&outDir, "out-dir", "plots", "directory for reports")

	root.AddCommand(
		newRunCmd(a),
		newTrendsCmd(a),
		newStatsCmd(a),
		newTheoryCmd(),
	)

	return root
}

func newRunCmd(a *app) *cobra.Command {
	var (
		sizes   []int
		repeats int
		seed    int64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compare the solvers and benchmark them across system sizes",
		Long: `Solves the 3x3 reference system with every method and writes
all_methods.csv plus one CSV per method, then times every method on random
diagonally dominant systems and writes complexity.csv.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bc := a.cfg.Benchmark
			if cmd.Flags().Changed("sizes") {
				bc.Sizes = sizes
			}
			if cmd.Flags().Changed("repeats") {
				bc.Repeats = repeats
			}
			if cmd.Flags().Changed("seed") {
				bc.Seed = seed
			}
			return a.run(cmd.Context(), bc)
		},
	}

	cmd.Flags().IntSliceVar(&sizes, "sizes", nil, "system sizes to benchmark (default from config)")
	cmd.Flags().IntVar(&repeats, "repeats", 0, "timed solves per size and method")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for system generation (0 = time-based)")

	return cmd
}

func (a *app) run(ctx context.Context, bc config.BenchmarkConfig) error {
	printTitle(a.out, "Solver comparison on the reference system")

	matrix, rhs := solverbench.ReferenceSystem()
	summaries, err := solverbench.CompareMethods(matrix, rhs, bc.Epsilon, bc.MaxIter)
	if err != nil {
		return err
	}
	if err := solverbench.WriteMethodTable(a.out, summaries); err != nil {
		return err
	}

	if err := writeFile(a.cfg.AllMethodsPath(), func(w io.Writer) error {
		return solverbench.WriteMethodSummaries(w, summaries)
	}); err != nil {
		return err
	}
	printSaved(a.out, a.cfg.AllMethodsPath(), "all methods")

	for _, s := range summaries {
		path := a.cfg.MethodPath(s.Method)
		if err := writeFile(path, func(w io.Writer) error {
			return solverbench.WriteMethodSummaries(w, []solverbench.MethodSummary{s})
		}); err != nil {
			return err
		}
		printSaved(a.out, path, s.Method)
	}

	fmt.Fprintln(a.out)
	printTitle(a.out, "Complexity benchmark")

	tracker := solverbench.NewJitterTracker(bc.Repeats)
	cfg := solverbench.DefaultConfig()
	cfg.Sizes = bc.Sizes
	cfg.Repeats = bc.Repeats
	cfg.Epsilon = bc.Epsilon
	cfg.MaxIter = bc.MaxIter
	cfg.Seed = bc.Seed
	cfg.Logger = a.logger
	cfg.Tracker = tracker

	a.logger.Info("benchmark started", "sizes", bc.Sizes, "repeats", bc.Repeats)
	start := time.Now()

	records, err := solverbench.Run(ctx, cfg)
	if err != nil {
		return err
	}

	a.logger.Info("benchmark finished", "points", len(records), "elapsed", time.Since(start))

	for _, j := range tracker.Noisy() {
		msg := fmt.Sprintf("%s n=%d: P99/P50 = %.1f over %d repeats", j.Method, j.N, j.TailRatio, j.Samples)
		if j.Severe {
			a.logger.Warn("severe timing jitter", "method", j.Method, "n", j.N, "tail_ratio", j.TailRatio)
		}
		printWarning(a.out, msg)
	}

	if err := writeFile(a.cfg.ComplexityPath(), func(w io.Writer) error {
		return solverbench.WriteComplexity(w, records)
	}); err != nil {
		return err
	}
	printSaved(a.out, a.cfg.ComplexityPath(), "timings")

	return nil
}

func newTrendsCmd(a *app) *cobra.Command {
	var noWorkbook bool

	cmd := &cobra.Command{
		Use:   "trends [complexity.csv]",
		Short: "Fit T(n) ≈ C · n^k per method and write the reports",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.ComplexityPath()
			if len(args) == 1 {
				path = args[0]
			}
			return a.trends(cmd.Context(), path, !noWorkbook)
		},
	}

	cmd.Flags().BoolVar(&noWorkbook, "no-workbook", false, "skip the .xlsx report")

	return cmd
}

func (a *app) trends(ctx context.Context, path string, workbook bool) error {
	reader := solverbench.Reader{Logger: a.logger}

	records, err := reader.ReadComplexityFile(path)
	if err != nil {
		return err
	}

	trends, err := solverbench.AnalyzeRecords(ctx, records)
	if err != nil {
		return err
	}

	for _, mt := range trends {
		if !mt.Defined {
			a.logger.Warn("trend undefined", "method", mt.Method, "samples", len(mt.Sizes))
		}
	}

	if err := solverbench.WriteTrendSummary(a.out, trends); err != nil {
		return err
	}

	mdPath := a.cfg.TrendsMarkdownPath()
	if err := writeFile(mdPath, func(w io.Writer) error {
		return solverbench.WriteTrendsMarkdown(w, trends)
	}); err != nil {
		return err
	}
	printSaved(a.out, mdPath, "markdown")

	if !workbook {
		return nil
	}

	// The comparison sheet is optional; trends can be fitted from a
	// complexity file alone.
	summaries, err := reader.ReadMethodSummariesFile(a.cfg.AllMethodsPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		a.logger.Debug("no method comparison found", "path", a.cfg.AllMethodsPath())
	}

	xlsxPath := a.cfg.WorkbookPath()
	if err := os.MkdirAll(filepath.Dir(xlsxPath), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(xlsxPath), err)
	}
	if err := solverbench.WriteWorkbook(xlsxPath, records, trends, summaries); err != nil {
		return err
	}
	printSaved(a.out, xlsxPath, "workbook")

	return nil
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [all_methods.csv]",
		Short: "Print iterations, residual and error for every method",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.AllMethodsPath()
			if len(args) == 1 {
				path = args[0]
			}

			reader := solverbench.Reader{Logger: a.logger}
			summaries, err := reader.ReadMethodSummariesFile(path)
			if err != nil {
				return err
			}

			printTitle(a.out, "Method comparison")
			return solverbench.WriteMethodTable(a.out, summaries)
		},
	}
}

func newTheoryCmd() *cobra.Command {
	var sizes []int

	cmd := &cobra.Command{
		Use:   "theory",
		Short: "Print theoretical operation counts for direct and iterative methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			printTitle(out, "Theoretical cost")
			return solverbench.WriteTheoryTable(out, sizes)
		},
	}

	cmd.Flags().IntSliceVar(&sizes, "sizes", solverbench.DefaultTheorySizes, "system sizes")

	return cmd
}

// writeFile creates path (and its directory) and passes it to write.
func writeFile(path string, write func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
