// Package health reports the liveness and readiness of the stakedlearn runtime.
//
// Endpoints:
// - /health - Basic liveness check
// - /health/ready - Readiness check for load balancers
// - /health/detailed - Component status with custody figures
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	academytypes "github.com/stakedlearn/stakedlearn/x/academy/types"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// ComponentHealth represents the health status of a single component
type ComponentHealth struct {
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// Source is the runtime surface the checker inspects.
type Source interface {
	Height() int64
	LastCommitID() storetypes.CommitID
	Query(ctx context.Context, fn func(ctx context.Context, qs academytypes.QueryServer) error) error
}

// Config holds configuration for the health checker
type Config struct {
	// MaxBlockStall is how long the height may stay unchanged before the
	// block producer is reported unhealthy.
	MaxBlockStall time.Duration `mapstructure:"max-block-stall"`

	// CacheDuration is how long to cache readiness results
	CacheDuration time.Duration `mapstructure:"cache-duration"`

	Version string `mapstructure:"-"`
}

// DefaultConfig returns the default health check configuration
func DefaultConfig() Config {
	return Config{
		MaxBlockStall: 30 * time.Second,
		CacheDuration: 5 * time.Second,
		Version:       "dev",
	}
}

// Checker performs health checks on the runtime
type Checker struct {
	logger log.Logger
	source Source
	cfg    Config
	now    func() time.Time

	mu             sync.RWMutex
	lastHeight     int64
	lastHeightSeen time.Time
	lastCheck      time.Time
	cachedHealth   *HealthCheck
}

// NewChecker creates a new health checker
func NewChecker(logger log.Logger, cfg Config, source Source) (*Checker, error) {
	if source == nil {
		return nil, fmt.Errorf("health source is required")
	}
	if cfg.MaxBlockStall <= 0 {
		return nil, fmt.Errorf("max block stall must be positive")
	}

	return &Checker{
		logger: logger,
		source: source,
		cfg:    cfg,
		now:    time.Now,
	}, nil
}

// Check runs every component check. Non-detailed results are cached for
// CacheDuration.
func (c *Checker) Check(ctx context.Context, detailed bool) *HealthCheck {
	if !detailed {
		if cached := c.cached(); cached != nil {
			return cached
		}
	}

	health := &HealthCheck{
		Timestamp: c.now(),
		Version:   c.cfg.Version,
		Components: map[string]ComponentHealth{
			"store":  c.checkStore(),
			"blocks": c.checkBlocks(),
		},
	}
	if detailed {
		health.Components["custody"] = c.checkCustody(ctx)
	}
	health.Status = calculateOverallStatus(health.Components)

	if !detailed {
		c.mu.Lock()
		c.lastCheck = c.now()
		c.cachedHealth = health
		c.mu.Unlock()
	}
	return health
}

func (c *Checker) checkStore() ComponentHealth {
	commit := c.source.LastCommitID()
	if commit.Version == 0 {
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   "genesis has not been committed",
			Timestamp: c.now(),
		}
	}
	return ComponentHealth{
		Status:    StatusHealthy,
		Timestamp: c.now(),
		Metrics: map[string]interface{}{
			"version": commit.Version,
			"hash":    fmt.Sprintf("%X", commit.Hash),
		},
	}
}

// checkBlocks reports a stalled block producer.
func (c *Checker) checkBlocks() ComponentHealth {
	height := c.source.Height()
	now := c.now()

	c.mu.Lock()
	if height != c.lastHeight || c.lastHeightSeen.IsZero() {
		c.lastHeight = height
		c.lastHeightSeen = now
	}
	stalled := now.Sub(c.lastHeightSeen)
	c.mu.Unlock()

	status := StatusHealthy
	message := ""
	switch {
	case stalled > c.cfg.MaxBlockStall:
		status = StatusUnhealthy
		message = fmt.Sprintf("height %d unchanged for %s", height, stalled.Round(time.Second))
	case stalled > c.cfg.MaxBlockStall/2:
		status = StatusDegraded
		message = "block production is slow"
	}

	return ComponentHealth{
		Status:    status,
		Message:   message,
		Timestamp: now,
		Metrics: map[string]interface{}{
			"height":          height,
			"stalled_seconds": stalled.Seconds(),
		},
	}
}

// checkCustody verifies the academy account covers its obligations.
func (c *Checker) checkCustody(ctx context.Context) ComponentHealth {
	var custody *academytypes.QueryCustodyResponse
	err := c.source.Query(ctx, func(ctx context.Context, qs academytypes.QueryServer) error {
		var err error
		custody, err = qs.Custody(ctx, &academytypes.QueryCustodyRequest{})
		return err
	})
	if err != nil {
		return ComponentHealth{Status: StatusUnhealthy, Message: err.Error(), Timestamp: c.now()}
	}

	obligations := custody.EscrowedStakes.Add(custody.RewardPools).Add(custody.AccruedPlatformFees)
	health := ComponentHealth{
		Status:    StatusHealthy,
		Timestamp: c.now(),
		Metrics: map[string]interface{}{
			"balance":               custody.Balance.String(),
			"escrowed_stakes":       custody.EscrowedStakes.String(),
			"reward_pools":          custody.RewardPools.String(),
			"accrued_platform_fees": custody.AccruedPlatformFees.String(),
		},
	}
	if custody.Balance.LT(obligations) {
		health.Status = StatusUnhealthy
		health.Message = fmt.Sprintf("custody balance %s below obligations %s", custody.Balance, obligations)
	}
	return health
}

func calculateOverallStatus(components map[string]ComponentHealth) Status {
	hasDegraded := false
	for _, component := range components {
		switch component.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			hasDegraded = true
		}
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

func (c *Checker) cached() *HealthCheck {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cachedHealth == nil || c.now().Sub(c.lastCheck) >= c.cfg.CacheDuration {
		return nil
	}
	return c.cachedHealth
}

// Router returns a router serving the health endpoints.
func (c *Checker) Router() *mux.Router {
	router := mux.NewRouter()
	c.RegisterRoutes(router)
	return router
}

// Handler returns the health router wrapped so that a panicking check is
// logged and answered with 500 instead of tearing down the connection.
func (c *Checker) Handler() http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{c.logger}),
		handlers.PrintRecoveryStack(false),
	)(c.Router())
}

type recoveryLogger struct {
	logger log.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error("health handler panicked", "error", fmt.Sprint(v...))
}

// RegisterRoutes registers health check endpoints
func (c *Checker) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", c.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", c.handleHealthReady).Methods(http.MethodGet)
	router.HandleFunc("/health/detailed", c.handleHealthDetailed).Methods(http.MethodGet)
}

func (c *Checker) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": c.now().Format(time.RFC3339),
	})
}

func (c *Checker) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	health := c.Check(r.Context(), false)

	statusCode := http.StatusOK
	if health.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, health)
}

func (c *Checker) handleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	health := c.Check(r.Context(), true)

	statusCode := http.StatusOK
	if health.Status == StatusUnhealthy {
		c.logger.Error("runtime unhealthy", "components", len(health.Components))
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, health)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
