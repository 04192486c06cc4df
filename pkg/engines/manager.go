package engines

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dataprobe-io/probe-engine/pkg/apperrors"
	"github.com/dataprobe-io/probe-engine/pkg/connections"
	"github.com/dataprobe-io/probe-engine/pkg/logging"
	"github.com/dataprobe-io/probe-engine/pkg/retry"
)

const (
	DefaultEngineTTLMinutes  = 5
	DefaultCleanupInterval   = 1 * time.Minute
	DefaultMaxEnginesPerUser = 10
)

// BuildFunc constructs an engine for a descriptor. The default is
// connections.BuildEngine; tests inject stubs.
type BuildFunc func(d *connections.Descriptor) (*connections.Engine, error)

// ManagerConfig holds configuration for the engine manager.
type ManagerConfig struct {
	TTLMinutes        int
	MaxEnginesPerUser int
}

// Manager caches live engines with TTL-based expiry and automatic
// cleanup, so repeated profiling requests against the same datasource
// reuse one handle. Engines are keyed by "{serviceID}:{userID}".
type Manager struct {
	mu                sync.RWMutex
	engines           map[string]*managedEngine
	ttl               time.Duration
	maxEnginesPerUser int
	build             BuildFunc
	stopped           bool
	stopChan          chan struct{}
	logger            *zap.Logger
}

type managedEngine struct {
	engine   *connections.Engine
	lastUsed time.Time
	mu       sync.Mutex
}

// NewManager creates an engine manager with the given configuration.
// Starts a background cleanup goroutine that runs until Close() is
// called.
func NewManager(cfg ManagerConfig, build BuildFunc, logger *zap.Logger) *Manager {
	if cfg.TTLMinutes <= 0 {
		cfg.TTLMinutes = DefaultEngineTTLMinutes
	}
	if cfg.MaxEnginesPerUser <= 0 {
		cfg.MaxEnginesPerUser = DefaultMaxEnginesPerUser
	}
	if build == nil {
		build = connections.BuildEngine
	}

	m := &Manager{
		engines:           make(map[string]*managedEngine),
		ttl:               time.Duration(cfg.TTLMinutes) * time.Minute,
		maxEnginesPerUser: cfg.MaxEnginesPerUser,
		build:             build,
		stopChan:          make(chan struct{}),
		logger:            logger,
	}

	go m.cleanupExpiredEngines()
	return m
}

// countEnginesForUser counts live engines for a specific user.
// Caller must hold m.mu.
func (m *Manager) countEnginesForUser(userID string) int {
	count := 0
	for key := range m.engines {
		// Key format: "{serviceID}:{userID}"
		parts := strings.SplitN(key, ":", 2)
		if len(parts) == 2 && parts[1] == userID {
			count++
		}
	}
	return count
}

// GetOrCreate returns a live engine for the descriptor, building one if
// no healthy cached engine exists. Returns ErrEngineLimitReached when
// the user is at their engine limit.
func (m *Manager) GetOrCreate(ctx context.Context, d *connections.Descriptor, userID string) (*connections.Engine, error) {
	key := fmt.Sprintf("%s:%s", d.ServiceID, userID)

	m.mu.RLock()
	managed, exists := m.engines[key]
	m.mu.RUnlock()

	if exists {
		managed.mu.Lock()

		healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		err := retry.DoIfRetryable(healthCtx, retry.DefaultConfig(), func() error {
			return managed.engine.Ping(healthCtx)
		})
		if err != nil {
			m.logger.Warn("engine unhealthy, rebuilding",
				zap.String("key", key),
				zap.String("error", logging.SanitizeError(err)),
			)
			managed.mu.Unlock()
			m.removeEngine(key)
			return m.createEngine(ctx, key, d, userID)
		}

		managed.lastUsed = time.Now()
		managed.mu.Unlock()
		return managed.engine, nil
	}

	return m.createEngine(ctx, key, d, userID)
}

// createEngine builds and caches a new engine, retrying only transient
// failures. Caller must NOT hold any locks.
func (m *Manager) createEngine(ctx context.Context, key string, d *connections.Descriptor, userID string) (*connections.Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring the write lock.
	if managed, exists := m.engines[key]; exists && managed != nil {
		managed.mu.Lock()
		defer managed.mu.Unlock()
		managed.lastUsed = time.Now()
		return managed.engine, nil
	}

	userCount := m.countEnginesForUser(userID)
	if userCount >= m.maxEnginesPerUser {
		m.logger.Warn("user reached engine limit",
			zap.String("userID", userID),
			zap.Int("current", userCount),
			zap.Int("max", m.maxEnginesPerUser),
		)
		return nil, fmt.Errorf("%w: user %s has %d engines", apperrors.ErrEngineLimitReached, userID, userCount)
	}

	// Transient failures (refused connections, timeouts) retry with
	// backoff; permanent ones (bad credentials, unknown dialect) fail on
	// the first attempt.
	engine, err := retry.DoWithResultIfRetryable(ctx, retry.DefaultConfig(), func() (*connections.Engine, error) {
		return m.build(d)
	})
	if err != nil {
		m.logger.Error("failed to build engine",
			zap.String("key", key),
			zap.String("error", logging.SanitizeError(err)),
		)
		return nil, fmt.Errorf("failed to build engine for %s: %w", key, err)
	}

	m.engines[key] = &managedEngine{
		engine:   engine,
		lastUsed: time.Now(),
	}

	m.logger.Info("built new engine",
		zap.String("key", key),
		zap.String("dialect", d.Type),
		zap.String("url", logging.SanitizeConnectionString(engine.URL)),
		zap.Int("userTotalEngines", userCount+1),
	)

	return engine, nil
}

// removeEngine drops an engine from the cache and closes it.
// Caller must NOT hold m.mu.
func (m *Manager) removeEngine(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if managed, exists := m.engines[key]; exists && managed != nil {
		if managed.engine != nil {
			_ = managed.engine.Close()
		}
		delete(m.engines, key)
		m.logger.Debug("removed engine", zap.String("key", key))
	}
}

// cleanupExpiredEngines runs periodically until stopChan is closed.
func (m *Manager) cleanupExpiredEngines() {
	ticker := time.NewTicker(DefaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.performCleanup()
		case <-m.stopChan:
			return
		}
	}
}

// performCleanup closes engines that haven't been used within TTL.
func (m *Manager) performCleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return
	}

	now := time.Now()
	var expired []string

	for key, managed := range m.engines {
		if managed == nil {
			continue
		}
		managed.mu.Lock()
		idle := now.Sub(managed.lastUsed)
		managed.mu.Unlock()

		if idle > m.ttl {
			expired = append(expired, key)
		}
	}

	for _, key := range expired {
		if managed := m.engines[key]; managed != nil {
			if managed.engine != nil {
				_ = managed.engine.Close()
			}
			delete(m.engines, key)
		}
	}

	if len(expired) > 0 {
		m.logger.Info("cleaned up expired engines",
			zap.Int("count", len(expired)),
			zap.Int("remaining", len(m.engines)),
		)
	}
}

// Close closes all engines and stops the cleanup goroutine.
// Idempotent and safe to call multiple times.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return nil
	}

	m.stopped = true
	close(m.stopChan)

	for _, managed := range m.engines {
		if managed != nil && managed.engine != nil {
			_ = managed.engine.Close()
		}
	}

	m.engines = make(map[string]*managedEngine)
	m.logger.Info("engine manager closed")
	return nil
}

// Stats contains a snapshot of the manager state.
type Stats struct {
	TotalEngines      int            `json:"total_engines"`
	MaxEnginesPerUser int            `json:"max_engines_per_user"`
	TTLMinutes        int            `json:"ttl_minutes"`
	EnginesByUser     map[string]int `json:"engines_by_user"`
	OldestIdleSeconds int            `json:"oldest_idle_seconds"`
}

// GetStats returns statistics about the manager. Safe to call
// concurrently.
func (m *Manager) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	stats := Stats{
		TotalEngines:      len(m.engines),
		MaxEnginesPerUser: m.maxEnginesPerUser,
		TTLMinutes:        int(m.ttl.Minutes()),
		EnginesByUser:     make(map[string]int),
	}

	for key, managed := range m.engines {
		parts := strings.SplitN(key, ":", 2)
		if len(parts) == 2 {
			stats.EnginesByUser[parts[1]]++
		}

		if managed != nil {
			managed.mu.Lock()
			idleSeconds := int(now.Sub(managed.lastUsed).Seconds())
			managed.mu.Unlock()
			if idleSeconds > stats.OldestIdleSeconds {
				stats.OldestIdleSeconds = idleSeconds
			}
		}
	}

	return stats
}
