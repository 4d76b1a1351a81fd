package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/on-the-ground/autocache/autocache"
	"github.com/on-the-ground/autocache/shared/logging"
	"github.com/on-the-ground/autocache/store"
)

type benchOptions struct {
	workloads        []string
	n                int
	configPath       string
	benchmarkInputs  int
	runsPerInput     int
	minOccurrences   int
	maxBenchmarkTime float64 // seconds
	store            string
	metrics          string
	logLevel         string
}

func newBenchCmd() *cobra.Command {
	return newBenchCmdWithOptions(&benchOptions{})
}

func newBenchCmdWithOptions(opts *benchOptions) *cobra.Command {
	defaults := autocache.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run sample workloads with the cache enabled, then disabled",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&opts.workloads, "workload", []string{"fib"}, "Workloads to run: "+strings.Join(workloadNames(), ", ")+" or all")
	flags.IntVar(&opts.n, "n", 10, "Workload size (Fibonacci index, number of calls, ...)")
	flags.StringVar(&opts.configPath, "config", "", "YAML file with benchmark_inputs, runs_per_input, min_occurrences, max_benchmark_time")
	flags.IntVar(&opts.benchmarkInputs, "benchmark-inputs", defaults.BenchmarkInputs, "Qualified inputs needed before deciding")
	flags.IntVar(&opts.runsPerInput, "runs-per-input", defaults.RunsPerInput, "Repetitions per timing pass")
	flags.IntVar(&opts.minOccurrences, "min-occurrences", defaults.MinOccurrences, "Samples that qualify an input")
	flags.Float64Var(&opts.maxBenchmarkTime, "max-benchmark-time", defaults.MaxBenchmarkTime.Seconds(), "Benchmarking budget in seconds")
	flags.StringVar(&opts.store, "store", "map", "Result store: map, ristretto, trie or memdb")
	flags.StringVar(&opts.metrics, "metrics", "none", "Metrics exporter: none or stdout")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	return cmd
}

// benchConfig layers explicitly set flags over the config file over defaults.
func benchConfig(cmd *cobra.Command, opts *benchOptions) (autocache.Config, error) {
	cfg := autocache.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = autocache.LoadConfig(opts.configPath); err != nil {
			return autocache.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("benchmark-inputs") {
		cfg.BenchmarkInputs = opts.benchmarkInputs
	}
	if flags.Changed("runs-per-input") {
		cfg.RunsPerInput = opts.runsPerInput
	}
	if flags.Changed("min-occurrences") {
		cfg.MinOccurrences = opts.minOccurrences
	}
	if flags.Changed("max-benchmark-time") {
		cfg.MaxBenchmarkTime = time.Duration(opts.maxBenchmarkTime * float64(time.Second))
	}
	return cfg, cfg.Validate()
}

func runBench(cmd *cobra.Command, opts *benchOptions) error {
	cfg, err := benchConfig(cmd, opts)
	if err != nil {
		return err
	}
	if opts.n < 0 {
		return fmt.Errorf("--n must not be negative, got %d", opts.n)
	}
	selected, err := selectWorkloads(opts.workloads)
	if err != nil {
		return err
	}

	logger, err := logging.New(opts.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", opts.logLevel, err)
	}
	defer func() { _ = logger.Sync() }()

	mp, err := newMeterProvider(opts.metrics, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			logger.Warn("failed to shut down meter provider", zap.Error(err))
		}
	}()

	// Each workload owns its engine and store, so they can run side by side.
	outcomes := make([]outcome, len(selected))
	var g errgroup.Group
	for i, w := range selected {
		g.Go(func() error {
			st, closeStore, err := newStore(opts.store)
			if err != nil {
				return err
			}
			defer closeStore()

			res, err := w.run(opts.n, engineOptions(cfg, w.name, logger, mp, st))
			if err != nil {
				return fmt.Errorf("workload %s: %w", w.name, err)
			}
			res.name = w.name
			outcomes[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return printOutcomes(cmd.OutOrStdout(), outcomes)
}

func engineOptions(cfg autocache.Config, name string, logger *zap.Logger, mp metric.MeterProvider, st autocache.Store) []autocache.Option {
	return []autocache.Option{
		autocache.WithConfig(cfg),
		autocache.WithName(name),
		autocache.WithLogger(logger.Named(name)),
		autocache.WithMeterProvider(mp),
		autocache.WithStore(st),
	}
}

func newStore(name string) (autocache.Store, func(), error) {
	switch name {
	case "map", "":
		return autocache.NewMapStore(), func() {}, nil
	case "ristretto":
		r, err := store.NewRistretto(1 << 16)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	case "trie":
		t, err := store.NewTrie(1 << 14)
		if err != nil {
			return nil, nil, err
		}
		return t, func() {}, nil
	case "memdb":
		m, err := store.NewMemDB()
		if err != nil {
			return nil, nil, err
		}
		return m, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store: %q", name)
	}
}

func printOutcomes(w io.Writer, outcomes []outcome) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WORKLOAD\tRESULT\tDECISION\tWITH CACHE\tWITHOUT CACHE")
	for _, o := range outcomes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			o.name, o.value, o.decision, o.withCache.Round(time.Microsecond), o.withoutCache.Round(time.Microsecond))
	}
	return tw.Flush()
}

func selectWorkloads(names []string) ([]workload, error) {
	if len(names) == 1 && names[0] == "all" {
		all := make([]workload, 0, len(workloads))
		for _, name := range workloadNames() {
			all = append(all, workloads[name])
		}
		return all, nil
	}

	selected := make([]workload, 0, len(names))
	for _, name := range names {
		w, ok := workloads[name]
		if !ok {
			return nil, fmt.Errorf("unknown workload: %q", name)
		}
		selected = append(selected, w)
	}
	return selected, nil
}

func workloadNames() []string {
	names := make([]string, 0, len(workloads))
	for name := range workloads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
