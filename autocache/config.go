package autocache

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a Config cannot drive an Engine.
var ErrInvalidConfig = errors.New("autocache: invalid config")

// Config holds the benchmarking thresholds of an Engine.
type Config struct {
	// BenchmarkInputs is the number of qualified keys that ends benchmarking.
	BenchmarkInputs int
	// RunsPerInput is the number of repetitions in each timing pass.
	RunsPerInput int
	// MinOccurrences marks a key as qualified when its sample count reaches it.
	// Only keys sampled strictly more often take part in the decision.
	MinOccurrences int
	// MaxBenchmarkTime is a soft budget for the total time spent sampling.
	// It is checked between calls, never preemptively.
	MaxBenchmarkTime time.Duration
}

// DefaultConfig returns 5 inputs, 3 runs, 2 occurrences and a one second budget.
func DefaultConfig() Config {
	return Config{
		BenchmarkInputs:  5,
		RunsPerInput:     3,
		MinOccurrences:   2,
		MaxBenchmarkTime: time.Second,
	}
}

func (c Config) Validate() error {
	switch {
	case c.BenchmarkInputs < 1:
		return fmt.Errorf("%w: benchmark_inputs must be at least 1, got %d", ErrInvalidConfig, c.BenchmarkInputs)
	case c.RunsPerInput < 1:
		return fmt.Errorf("%w: runs_per_input must be at least 1, got %d", ErrInvalidConfig, c.RunsPerInput)
	case c.MinOccurrences < 0:
		return fmt.Errorf("%w: min_occurrences must not be negative, got %d", ErrInvalidConfig, c.MinOccurrences)
	case c.MaxBenchmarkTime <= 0:
		return fmt.Errorf("%w: max_benchmark_time must be positive, got %v", ErrInvalidConfig, c.MaxBenchmarkTime)
	}
	return nil
}

// fileConfig mirrors Config in a YAML document. Absent keys keep their defaults.
type fileConfig struct {
	BenchmarkInputs  *int     `yaml:"benchmark_inputs"`
	RunsPerInput     *int     `yaml:"runs_per_input"`
	MinOccurrences   *int     `yaml:"min_occurrences"`
	MaxBenchmarkTime *float64 `yaml:"max_benchmark_time"` // seconds
}

// ParseConfig reads a YAML document on top of DefaultConfig.
// Unknown keys are rejected so typos surface as errors.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	var fc fileConfig
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if fc.BenchmarkInputs != nil {
		cfg.BenchmarkInputs = *fc.BenchmarkInputs
	}
	if fc.RunsPerInput != nil {
		cfg.RunsPerInput = *fc.RunsPerInput
	}
	if fc.MinOccurrences != nil {
		cfg.MinOccurrences = *fc.MinOccurrences
	}
	if fc.MaxBenchmarkTime != nil {
		cfg.MaxBenchmarkTime = time.Duration(*fc.MaxBenchmarkTime * float64(time.Second))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML config file. See ParseConfig.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()
	return ParseConfig(f)
}
