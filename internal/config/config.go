// Package config loads solverbench settings from a YAML file, environment
// variables, and built-in defaults, in decreasing order of precedence:
// environment, file, defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvCSVDir   = "SOLVERBENCH_CSV_DIR"
	EnvOutDir   = "SOLVERBENCH_OUT_DIR"
	EnvLogLevel = "SOLVERBENCH_LOG_LEVEL"
	EnvRepeats  = "SOLVERBENCH_REPEATS"
	EnvSeed     = "SOLVERBENCH_SEED"
	EnvEpsilon  = "SOLVERBENCH_EPSILON"
	EnvMaxIter  = "SOLVERBENCH_MAX_ITER"
)

// File names inside CSVDir and OutDir.
const (
	ComplexityFile = "complexity.csv"
	AllMethodsFile = "all_methods.csv"
	TrendsMarkdown = "complexity_time.md"
	WorkbookFile   = "solverbench.xlsx"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete tool configuration.
type Config struct {
	CSVDir    string          `yaml:"csv_dir"`
	OutDir    string          `yaml:"out_dir"`
	LogLevel  string          `yaml:"log_level"`
	Benchmark BenchmarkConfig `yaml:"benchmark"`
}

// BenchmarkConfig holds the solver benchmark settings.
type BenchmarkConfig struct {
	Sizes   []int   `yaml:"sizes"`
	Repeats int     `yaml:"repeats"`
	Epsilon float64 `yaml:"epsilon"`
	MaxIter int     `yaml:"max_iter"`
	Seed    int64   `yaml:"seed"`
}

// Default returns the built-in settings: five sizes from 10 to 120, three
// repeats, eps 1e-3 and at most 1000 sweeps.
func Default() *Config {
	return &Config{
		CSVDir:   "csv",
		OutDir:   "plots",
		LogLevel: "info",
		Benchmark: BenchmarkConfig{
			Sizes:   []int{10, 20, 40, 80, 120},
			Repeats: 3,
			Epsilon: 1e-3,
			MaxIter: 1000,
			Seed:    0,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), and environment overrides, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := cfg.decode(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.CSVDir = getEnvOrDefault(EnvCSVDir, c.CSVDir)
	c.OutDir = getEnvOrDefault(EnvOutDir, c.OutDir)
	c.LogLevel = getEnvOrDefault(EnvLogLevel, c.LogLevel)

	var err error
	if c.Benchmark.Repeats, err = getEnvInt(EnvRepeats, c.Benchmark.Repeats); err != nil {
		return err
	}
	if c.Benchmark.MaxIter, err = getEnvInt(EnvMaxIter, c.Benchmark.MaxIter); err != nil {
		return err
	}
	if c.Benchmark.Epsilon, err = getEnvFloat(EnvEpsilon, c.Benchmark.Epsilon); err != nil {
		return err
	}
	seed, err := getEnvInt(EnvSeed, int(c.Benchmark.Seed))
	if err != nil {
		return err
	}
	c.Benchmark.Seed = int64(seed)

	return nil
}

// Validate checks ranges and required values.
func (c *Config) Validate() error {
	if c.CSVDir == "" {
		return fmt.Errorf("%w: csv_dir is required", ErrInvalid)
	}
	if c.OutDir == "" {
		return fmt.Errorf("%w: out_dir is required", ErrInvalid)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	b := c.Benchmark
	if len(b.Sizes) == 0 {
		return fmt.Errorf("%w: benchmark.sizes must not be empty", ErrInvalid)
	}
	for _, n := range b.Sizes {
		if n <= 0 {
			return fmt.Errorf("%w: benchmark size %d must be positive", ErrInvalid, n)
		}
	}
	if b.Repeats <= 0 {
		return fmt.Errorf("%w: benchmark.repeats must be positive, got %d", ErrInvalid, b.Repeats)
	}
	if b.Epsilon <= 0 {
		return fmt.Errorf("%w: benchmark.epsilon must be positive, got %g", ErrInvalid, b.Epsilon)
	}
	if b.MaxIter <= 0 {
		return fmt.Errorf("%w: benchmark.max_iter must be positive, got %d", ErrInvalid, b.MaxIter)
	}

	return nil
}

// Level returns the parsed log level. Validate guarantees it parses.
func (c *Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ComplexityPath is the benchmark timing CSV.
func (c *Config) ComplexityPath() string {
	return filepath.Join(c.CSVDir, ComplexityFile)
}

// AllMethodsPath is the per-method comparison CSV.
func (c *Config) AllMethodsPath() string {
	return filepath.Join(c.CSVDir, AllMethodsFile)
}

// MethodPath is the single-method comparison CSV, e.g. csv/gauss_seidel.csv.
func (c *Config) MethodPath(method string) string {
	name := strings.ToLower(strings.NewReplacer("-", "_", " ", "_").Replace(method))
	return filepath.Join(c.CSVDir, name+".csv")
}

// TrendsMarkdownPath is the Markdown trend report.
func (c *Config) TrendsMarkdownPath() string {
	return filepath.Join(c.OutDir, TrendsMarkdown)
}

// WorkbookPath is the spreadsheet report.
func (c *Config) WorkbookPath() string {
	return filepath.Join(c.OutDir, WorkbookFile)
}

// ParseLevel accepts debug, info, warn, and error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalid, s)
	}
	return level, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, key, value)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a number", ErrInvalid, key, value)
	}
	return f, nil
}
