package resilience

import (
	"errors"
	"testing"
	"time"

	"portfolio-chatbot/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream failed")

func newTestBreaker(threshold uint) (*CircuitBreaker, *time.Time) {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(Config{
		Name:             "llm",
		FailureThreshold: threshold,
		SuccessThreshold: 1,
		RetryTimeout:     time.Minute,
	}, logger.Discard())
	cb.now = func() time.Time { return clock }
	return cb, &clock
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	cb, _ := newTestBreaker(2)

	assert.ErrorIs(t, cb.Execute(func() error { return errUpstream }), errUpstream)
	assert.Equal(t, StateClosed, cb.State())

	assert.ErrorIs(t, cb.Execute(func() error { return errUpstream }), errUpstream)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called, "open breaker must not call through")

	m := cb.Metrics()
	assert.Equal(t, uint64(2), m.TotalFailures)
	assert.Equal(t, uint64(1), m.Rejected)
	assert.Equal(t, uint64(1), m.OpenCount)
}

func TestBreakerHalfOpenRecovers(t *testing.T) {
	cb, clock := newTestBreaker(1)

	require.Error(t, cb.Execute(func() error { return errUpstream }))
	require.Equal(t, StateOpen, cb.State())

	*clock = clock.Add(2 * time.Minute)

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker(1)

	require.Error(t, cb.Execute(func() error { return errUpstream }))
	*clock = clock.Add(2 * time.Minute)

	require.NoError(t, cb.Allow())
	assert.Equal(t, StateHalfOpen, cb.State())
	cb.Record(errUpstream)

	assert.Equal(t, StateOpen, cb.State())
	assert.ErrorIs(t, cb.Allow(), ErrCircuitOpen)
}

func TestBreakerSuccessResetsFailures(t *testing.T) {
	cb, _ := newTestBreaker(2)

	require.Error(t, cb.Execute(func() error { return errUpstream }))
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.Error(t, cb.Execute(func() error { return errUpstream }))

	assert.Equal(t, StateClosed, cb.State())
}
