package cli

import (
	"fmt"
	"io"

	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// newMeterProvider builds a provider for the given exporter name.
// Supported exporters: stdout, none
func newMeterProvider(name string, w io.Writer) (*sdkmetric.MeterProvider, error) {
	switch name {
	case "stdout":
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metrics exporter: %w", err)
		}
		return sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp))), nil

	case "none", "":
		return sdkmetric.NewMeterProvider(), nil

	default:
		return nil, fmt.Errorf("unknown metrics exporter: %q", name)
	}
}
