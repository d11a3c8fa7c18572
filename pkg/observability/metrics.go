package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Outcomes recorded for chatbot requests
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeAborted = "aborted"
)

// ChatbotMetrics records gateway activity
type ChatbotMetrics struct {
	requests metric.Int64Counter
	chunks   metric.Int64Counter
	duration metric.Float64Histogram
}

// NewChatbotMetrics creates the gateway instruments on meter
func NewChatbotMetrics(meter metric.Meter) (*ChatbotMetrics, error) {
	requests, err := meter.Int64Counter("chatbot.requests",
		metric.WithDescription("Chatbot requests by transport mode and outcome"))
	if err != nil {
		return nil, err
	}

	chunks, err := meter.Int64Counter("chatbot.chunks",
		metric.WithDescription("Content deltas relayed to callers"))
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("chatbot.request.duration",
		metric.WithDescription("Time from request to the end of the relayed response"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &ChatbotMetrics{requests: requests, chunks: chunks, duration: duration}, nil
}

// NoopMetrics returns instruments that record nothing
func NoopMetrics() *ChatbotMetrics {
	m, _ := NewChatbotMetrics(noop.NewMeterProvider().Meter(InstrumentationName))
	return m
}

// RecordRequest counts one finished request and its duration
func (m *ChatbotMetrics) RecordRequest(ctx context.Context, mode, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("outcome", outcome),
	)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}

// AddChunks counts relayed deltas
func (m *ChatbotMetrics) AddChunks(ctx context.Context, n int) {
	if n > 0 {
		m.chunks.Add(ctx, int64(n))
	}
}
