package autocache

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Option configures an Engine at construction time.
type Option func(*options)

type options struct {
	config        Config
	logger        *zap.Logger
	store         Store
	clock         Clock
	meterProvider metric.MeterProvider
	name          string
	report        bool
	reportHook    func(Report)
}

func defaultOptions() options {
	return options{
		config:        DefaultConfig(),
		logger:        zap.NewNop(),
		clock:         systemClock{},
		meterProvider: otel.GetMeterProvider(),
		name:          "autocache",
		report:        true,
	}
}

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStore sets the result store. The default is a fresh MapStore.
func WithStore(store Store) Option {
	return func(o *options) { o.store = store }
}

// WithClock sets the time source used for benchmarking passes.
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider.
// The default is the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		if mp != nil {
			o.meterProvider = mp
		}
	}
}

// WithName labels logs, metrics and the decision report.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithReport toggles the decision report log line. It is on by default.
func WithReport(enabled bool) Option {
	return func(o *options) { o.report = enabled }
}

// WithReportHook registers fn to receive the decision report.
// The hook runs regardless of WithReport.
func WithReportHook(fn func(Report)) Option {
	return func(o *options) { o.reportHook = fn }
}
