package resilience

import (
	"errors"
	"sync"
	"time"

	"portfolio-chatbot/backend/pkg/logger"
)

// ErrCircuitOpen is returned while the breaker is rejecting calls
var ErrCircuitOpen = errors.New("circuit open")

// State represents the current state of a circuit breaker
type State string

const (
	// StateClosed lets every call through
	StateClosed State = "closed"
	// StateOpen short-circuits every call until the retry timeout expires
	StateOpen State = "open"
	// StateHalfOpen lets trial calls through
	StateHalfOpen State = "half-open"
)

// Config holds configuration for a circuit breaker
type Config struct {
	Name             string
	FailureThreshold uint
	SuccessThreshold uint
	RetryTimeout     time.Duration
}

// DefaultConfig returns a default circuit breaker configuration
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 1,
		RetryTimeout:     30 * time.Second,
	}
}

// Metrics is a snapshot of breaker counters
type Metrics struct {
	Name            string    `json:"name"`
	State           State     `json:"state"`
	TotalRequests   uint64    `json:"total_requests"`
	TotalFailures   uint64    `json:"total_failures"`
	TotalSuccesses  uint64    `json:"total_successes"`
	Rejected        uint64    `json:"rejected"`
	OpenCount       uint64    `json:"open_count"`
	LastFailureTime time.Time `json:"last_failure_time"`
}

// CircuitBreaker stops calling a failing dependency for a while. It never
// retries on its own.
type CircuitBreaker struct {
	config          Config
	mutex           sync.Mutex
	state           State
	failureCount    uint
	successCount    uint
	nextAttemptTime time.Time
	metrics         Metrics
	now             func() time.Time
	log             *logger.Logger
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(config Config, log *logger.Logger) *CircuitBreaker {
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 1
	}
	if config.SuccessThreshold == 0 {
		config.SuccessThreshold = 1
	}
	if log == nil {
		log = logger.GetGlobal()
	}

	return &CircuitBreaker{
		config:  config,
		state:   StateClosed,
		metrics: Metrics{Name: config.Name},
		now:     time.Now,
		log:     log,
	}
}

// Execute runs fn unless the circuit is open
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.Allow(); err != nil {
		return err
	}

	err := fn()
	cb.Record(err)
	return err
}

// Allow reports whether a call may proceed. Callers that use Allow directly
// must report the outcome with Record.
func (cb *CircuitBreaker) Allow() error {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if cb.state == StateOpen {
		if cb.now().Before(cb.nextAttemptTime) {
			cb.metrics.Rejected++
			cb.log.Warn("Circuit breaker rejecting call", "name", cb.config.Name)
			return ErrCircuitOpen
		}
		cb.toHalfOpen()
	}

	cb.metrics.TotalRequests++
	return nil
}

// Record reports the outcome of a call admitted by Allow
func (cb *CircuitBreaker) Record(err error) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if err != nil {
		cb.recordFailure(err)
		return
	}
	cb.recordSuccess()
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.metrics.TotalSuccesses++

	switch cb.state {
	case StateClosed:
		cb.failureCount = 0
	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.config.SuccessThreshold {
			cb.toClosed()
		}
	}
}

func (cb *CircuitBreaker) recordFailure(err error) {
	cb.metrics.TotalFailures++
	cb.metrics.LastFailureTime = cb.now()

	cb.log.Warn("Circuit breaker recorded failure",
		"name", cb.config.Name,
		"error", err.Error(),
	)

	switch cb.state {
	case StateClosed:
		cb.failureCount++
		if cb.failureCount >= cb.config.FailureThreshold {
			cb.toOpen()
		}
	case StateHalfOpen:
		cb.toOpen()
	}
}

func (cb *CircuitBreaker) toOpen() {
	cb.state = StateOpen
	cb.metrics.OpenCount++
	cb.nextAttemptTime = cb.now().Add(cb.config.RetryTimeout)

	cb.log.Info("Circuit breaker opened",
		"name", cb.config.Name,
		"failures", cb.failureCount,
		"next_attempt", cb.nextAttemptTime.Format(time.RFC3339),
	)
}

func (cb *CircuitBreaker) toHalfOpen() {
	cb.state = StateHalfOpen
	cb.successCount = 0

	cb.log.Info("Circuit breaker half-open", "name", cb.config.Name)
}

func (cb *CircuitBreaker) toClosed() {
	cb.state = StateClosed
	cb.failureCount = 0
	cb.successCount = 0

	cb.log.Info("Circuit breaker closed", "name", cb.config.Name)
}

// State returns the current state of the circuit breaker
func (cb *CircuitBreaker) State() State {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

// Metrics returns the current counters
func (cb *CircuitBreaker) Metrics() Metrics {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	m := cb.metrics
	m.State = cb.state
	return m
}
