package autocache_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/autocache/autocache"
)

func TestDefaultConfig(t *testing.T) {
	cfg := autocache.DefaultConfig()
	assert.Equal(t, 5, cfg.BenchmarkInputs)
	assert.Equal(t, 3, cfg.RunsPerInput)
	assert.Equal(t, 2, cfg.MinOccurrences)
	assert.Equal(t, time.Second, cfg.MaxBenchmarkTime)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]autocache.Config{
		"no inputs":       testConfig(0, 3, 2, time.Second),
		"no runs":         testConfig(5, 0, 2, time.Second),
		"negative min":    testConfig(5, 3, -1, time.Second),
		"zero budget":     testConfig(5, 3, 2, 0),
		"negative budget": testConfig(5, 3, 2, -time.Second),
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, cfg.Validate(), autocache.ErrInvalidConfig)
		})
	}
	assert.NoError(t, testConfig(1, 1, 0, time.Nanosecond).Validate())
}

func TestParseConfig_OverridesDefaults(t *testing.T) {
	cfg, err := autocache.ParseConfig(strings.NewReader(`
benchmark_inputs: 10
max_benchmark_time: 0.25
`))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.BenchmarkInputs)
	assert.Equal(t, 3, cfg.RunsPerInput)
	assert.Equal(t, 2, cfg.MinOccurrences)
	assert.Equal(t, 250*time.Millisecond, cfg.MaxBenchmarkTime)
}

func TestParseConfig_EmptyDocumentKeepsDefaults(t *testing.T) {
	cfg, err := autocache.ParseConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, autocache.DefaultConfig(), cfg)
}

func TestParseConfig_RejectsUnknownKeys(t *testing.T) {
	_, err := autocache.ParseConfig(strings.NewReader("benchmark_input: 3\n"))
	assert.ErrorIs(t, err, autocache.ErrInvalidConfig)
}

func TestParseConfig_RejectsInvalidValues(t *testing.T) {
	_, err := autocache.ParseConfig(strings.NewReader("runs_per_input: 0\n"))
	assert.ErrorIs(t, err, autocache.ErrInvalidConfig)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autocache.yaml")
	require.NoError(t, os.WriteFile(path, []byte("min_occurrences: 1\nruns_per_input: 5\n"), 0o644))

	cfg, err := autocache.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.MinOccurrences)
	assert.Equal(t, 5, cfg.RunsPerInput)

	_, err = autocache.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
