package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// InstrumentationName names the meter and tracer of the gateway
const InstrumentationName = "portfolio-chatbot/gateway"

// Config selects which signals are exported
type Config struct {
	ServiceName    string
	MetricsEnabled bool
	TracingEnabled bool
	// TraceOutput receives pretty-printed spans; defaults to os.Stdout
	TraceOutput io.Writer
}

// Telemetry owns the metric and trace providers of the process
type Telemetry struct {
	registry       *prometheus.Registry
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          metric.Meter
}

// Setup initializes the Prometheus exporter on a dedicated registry and,
// when enabled, stdout tracing. Providers are installed as otel globals.
func Setup(cfg Config) (*Telemetry, error) {
	t := &Telemetry{meter: noop.NewMeterProvider().Meter(InstrumentationName)}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build resource: %w", err)
	}

	if cfg.MetricsEnabled {
		t.registry = prometheus.NewRegistry()
		t.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		exp, err := otelprom.New(otelprom.WithRegisterer(t.registry))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize prometheus exporter: %w", err)
		}
		t.meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(exp),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(t.meterProvider)
		t.meter = t.meterProvider.Meter(InstrumentationName)
	}

	if cfg.TracingEnabled {
		out := cfg.TraceOutput
		if out == nil {
			out = os.Stdout
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(out), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize stdouttrace exporter: %w", err)
		}
		t.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exp),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(t.tracerProvider)
	}

	return t, nil
}

// Meter returns the gateway meter (a no-op meter when metrics are disabled)
func (t *Telemetry) Meter() metric.Meter {
	return t.meter
}

// Handler serves the Prometheus registry, or 404 when metrics are disabled
func (t *Telemetry) Handler() http.Handler {
	if t.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

// Shutdown flushes and stops the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.meterProvider != nil {
		errs = append(errs, t.meterProvider.Shutdown(ctx))
	}
	if t.tracerProvider != nil {
		errs = append(errs, t.tracerProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
