package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ayopashop/internal/config"
)

// Manager owns the single relational connection of the process and issues
// parameterized statements over it. Arguments bind positionally: args[i]
// fills placeholder i+1.
//
// A Manager is safe for concurrent use. The underlying handle allows one
// open connection, so concurrent statements are serialized by database/sql.
type Manager struct {
	cfg     config.DatabaseConfig
	policy  ExecPolicy
	logger  zerolog.Logger
	metrics *Metrics

	mu sync.RWMutex
	db *sql.DB
}

// Option customizes a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for connection events and swallowed
// statement failures.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithMetrics enables statement metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// WithExecPolicy sets how Execute reports statement failures.
func WithExecPolicy(p ExecPolicy) Option {
	return func(m *Manager) { m.policy = p }
}

// WithDB adopts an already opened handle; the Manager starts connected.
func WithDB(db *sql.DB) Option {
	return func(m *Manager) { m.db = db }
}

// NewManager returns a Manager for cfg. No connection is opened until
// Connect is called.
func NewManager(cfg config.DatabaseConfig, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg,
		policy: ExecPropagate,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With().Str("component", "database").Logger()
	return m
}

var (
	defaultOnce    sync.Once
	defaultManager *Manager
)

// Default returns the process-wide Manager, built on first use from
// config.DefaultDatabase.
func Default() *Manager {
	defaultOnce.Do(func() {
		defaultManager = NewManager(config.DefaultDatabase())
	})
	return defaultManager
}

// Config returns the connection parameters the Manager was built with.
func (m *Manager) Config() config.DatabaseConfig {
	return m.cfg
}

// Connected reports whether the Manager currently holds an open handle.
func (m *Manager) Connected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db != nil
}

// Connect opens a new handle and replaces the current one, closing it.
func (m *Manager) Connect(ctx context.Context) error {
	start := time.Now()
	target := ConnectionURL(m.cfg)

	if !driverAvailable(m.cfg.Driver) {
		return fmt.Errorf("%w: %q", ErrDriverUnavailable, m.cfg.Driver)
	}
	dsn, err := BuildDSN(m.cfg)
	if err != nil {
		return wrap(ErrConnection, err)
	}
	driverName, err := instrumentedDriver(m.cfg.Driver)
	if err != nil {
		return wrap(ErrDriverUnavailable, err)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return wrap(ErrConnection, fmt.Errorf("sql open: %w", err))
	}
	configure(db, m.cfg)

	timeout := time.Duration(m.cfg.ConnectTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		m.logger.Error().Err(err).Str("event", "db_connect_failed").Str("target", target).Msg("database ping failed")
		return wrap(ErrConnection, fmt.Errorf("db ping: %w", err))
	}

	m.mu.Lock()
	prev := m.db
	m.db = db
	m.mu.Unlock()

	if prev != nil {
		if err := prev.Close(); err != nil {
			m.logger.Warn().Err(err).Str("event", "db_replace").Msg("closing replaced handle failed")
		}
	}

	m.logger.Info().
		Str("event", "db_connected").
		Str("target", target).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("database connected")
	return nil
}

// Disconnect closes the held handle, if any. Calling it again, or before
// Connect, is a no-op. Statements issued afterwards fail with ErrNotConnected.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	db := m.db
	m.db = nil
	m.mu.Unlock()

	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return wrap(ErrConnection, fmt.Errorf("close: %w", err))
	}
	m.logger.Info().Str("event", "db_disconnected").Msg("database disconnected")
	return nil
}

// Ping verifies the held handle is alive.
func (m *Manager) Ping(ctx context.Context) error {
	db, err := m.handle()
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		return wrap(ErrConnection, err)
	}
	return nil
}

// Results runs query with args and returns the row cursor. The caller must
// close the returned rows.
func (m *Manager) Results(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	db, err := m.handle()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := db.QueryContext(ctx, query, args...)
	m.metrics.observe("query", start, err)
	if err != nil {
		return nil, wrap(ErrQuery, err)
	}
	return rows, nil
}

// Execute runs a statement that produces no row set. Under ExecLogOnly a
// failed statement is logged and Execute returns (nil, nil).
func (m *Manager) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	db, err := m.handle()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := db.ExecContext(ctx, query, args...)
	m.metrics.observe("execute", start, err)
	if err == nil {
		return res, nil
	}

	if m.policy == ExecLogOnly {
		m.logger.Error().
			Err(err).
			Str("event", "db_execute_failed").
			Str("query", query).
			Msg("statement failed")
		return nil, nil
	}
	return nil, wrap(ErrExecute, err)
}

func (m *Manager) handle() (*sql.DB, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.db == nil {
		return nil, ErrNotConnected
	}
	return m.db, nil
}
