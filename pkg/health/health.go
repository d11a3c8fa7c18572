package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"portfolio-chatbot/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Status represents the health status of a component
type Status string

const (
	// StatusUp indicates a component is working correctly
	StatusUp Status = "up"
	// StatusDown indicates a component is not working
	StatusDown Status = "down"
	// StatusDegraded indicates a component is working but with reduced functionality
	StatusDegraded Status = "degraded"
)

// Component represents a system component that can be health-checked
type Component struct {
	Name        string    `json:"name"`
	Status      Status    `json:"status"`
	Description string    `json:"description,omitempty"`
	Error       string    `json:"error,omitempty"`
	Critical    bool      `json:"critical"`
	LastChecked time.Time `json:"last_checked"`
}

// Check represents a health check function
type Check func() (Status, string, error)

type registration struct {
	check    Check
	critical bool
}

// Checker manages health checks for the system
type Checker struct {
	checks      map[string]registration
	components  map[string]*Component
	checkPeriod time.Duration
	mutex       sync.RWMutex
	log         *logger.Logger
}

// NewChecker creates a new health checker
func NewChecker(log *logger.Logger, checkPeriod time.Duration) *Checker {
	checker := &Checker{
		checks:      make(map[string]registration),
		components:  make(map[string]*Component),
		checkPeriod: checkPeriod,
		log:         log,
	}

	checker.RegisterCheck("self", false, func() (Status, string, error) {
		return StatusUp, "Health checker is running", nil
	})

	return checker
}

// RegisterCheck registers a new health check. A critical component that is
// down makes the whole system unhealthy.
func (c *Checker) RegisterCheck(name string, critical bool, check Check) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.checks[name] = registration{check: check, critical: critical}
	c.components[name] = &Component{
		Name:        name,
		Status:      StatusDown,
		Description: "Not checked yet",
		Critical:    critical,
	}
}

// RunChecks executes all registered health checks
func (c *Checker) RunChecks() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for name, reg := range c.checks {
		status, description, err := reg.check()

		component := c.components[name]
		component.Status = status
		component.Description = description
		component.LastChecked = time.Now()

		if err != nil {
			component.Error = err.Error()
			c.log.Warn("Health check failed",
				"component", name,
				"status", string(status),
				"error", err.Error(),
			)
			continue
		}

		component.Error = ""
		c.log.Debug("Health check completed",
			"component", name,
			"status", string(status),
		)
	}
}

// Start runs the checks immediately and then every check period until ctx ends
func (c *Checker) Start(ctx context.Context) {
	c.RunChecks()

	go func() {
		ticker := time.NewTicker(c.checkPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.RunChecks()
			}
		}
	}()
}

// GetStatus returns a copy of the component states, ordered by name
func (c *Checker) GetStatus() []Component {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	result := make([]Component, 0, len(c.components))
	for _, v := range c.components {
		result = append(result, *v)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result
}

// IsSystemHealthy returns true if no critical component is down
func (c *Checker) IsSystemHealthy() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	for _, component := range c.components {
		if component.Critical && component.Status == StatusDown {
			return false
		}
	}

	return true
}

// Handler serves the health report. Unhealthy systems answer 503.
func (c *Checker) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := http.StatusOK
		overall := "ok"
		if !c.IsSystemHealthy() {
			status = http.StatusServiceUnavailable
			overall = "unavailable"
		}

		ctx.JSON(status, gin.H{
			"status":     overall,
			"timestamp":  time.Now().Format(time.RFC3339),
			"components": c.GetStatus(),
		})
	}
}
