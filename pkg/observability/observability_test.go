package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsExposedOnRegistry(t *testing.T) {
	tel, err := Setup(Config{ServiceName: "test", MetricsEnabled: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	m, err := NewChatbotMetrics(tel.Meter())
	require.NoError(t, err)

	m.RecordRequest(context.Background(), "http", OutcomeSuccess, 150*time.Millisecond)
	m.AddChunks(context.Background(), 3)

	w := httptest.NewRecorder()
	tel.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), "chatbot_requests_total")
	assert.Contains(t, string(body), `outcome="success"`)
	assert.Contains(t, string(body), "chatbot_chunks_total")
	assert.Contains(t, string(body), "chatbot_request_duration_seconds")
}

func TestMetricsDisabled(t *testing.T) {
	tel, err := Setup(Config{ServiceName: "test"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	tel.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	NoopMetrics().RecordRequest(context.Background(), "http", OutcomeFailed, time.Second)
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestTracingToWriter(t *testing.T) {
	tel, err := Setup(Config{ServiceName: "test", TracingEnabled: true, TraceOutput: io.Discard})
	require.NoError(t, err)
	assert.NoError(t, tel.Shutdown(context.Background()))
}
