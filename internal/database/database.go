// Package database manages the connection pool of the record store.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver, registered as "pgx"

	"github.com/dbsmedya/objectgraph/internal/config"
	"github.com/dbsmedya/objectgraph/internal/sqlutil"
	"github.com/dbsmedya/objectgraph/internal/store"
)

// Manager owns the store connection pool.
type Manager struct {
	DB     *sql.DB
	config *config.StoreConfig

	open         func(driverName, dsn string) (*sql.DB, error)
	maxRetries   int
	retryBackoff time.Duration
}

// NewManager creates a new database manager from configuration.
func NewManager(cfg *config.StoreConfig) *Manager {
	return &Manager{
		config:       cfg,
		open:         sql.Open,
		maxRetries:   3,
		retryBackoff: time.Second,
	}
}

// Connect opens and verifies the store connection.
func (m *Manager) Connect(ctx context.Context) error {
	if m.config == nil {
		return fmt.Errorf("store configuration is nil")
	}

	db, err := m.connectWithRetry(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to %s store: %w", m.config.Driver, err)
	}
	m.DB = db
	return nil
}

// connectWithRetry attempts to connect with exponential backoff.
func (m *Manager) connectWithRetry(ctx context.Context) (*sql.DB, error) {
	var db *sql.DB
	var err error

	backoff := m.retryBackoff

	for i := 0; i < m.maxRetries; i++ {
		db, err = m.connect()
		if err == nil {
			pingErr := db.PingContext(ctx)
			if pingErr == nil {
				return db, nil
			}
			db.Close()
			err = pingErr
		}

		if i < m.maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}
	}

	return nil, fmt.Errorf("failed after %d retries: %w", m.maxRetries, err)
}

// connect creates the connection pool.
func (m *Manager) connect() (*sql.DB, error) {
	driverName, err := DriverName(m.config.Driver)
	if err != nil {
		return nil, err
	}

	db, err := m.open(driverName, BuildStoreDSN(m.config))
	if err != nil {
		return nil, err
	}

	if m.config.MaxConnections > 0 {
		db.SetMaxOpenConns(m.config.MaxConnections)
	}
	if m.config.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(m.config.MaxIdleConnections)
	}
	db.SetConnMaxLifetime(10 * time.Minute)

	return db, nil
}

// DriverName maps a configured driver onto the registered database/sql name.
func DriverName(driver string) (string, error) {
	switch driver {
	case config.DriverMySQL:
		return "mysql", nil
	case config.DriverPostgres:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}
}

// BuildStoreDSN returns the configured DSN override, or one built from the
// discrete connection fields for the configured driver.
func BuildStoreDSN(cfg *config.StoreConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	if cfg.Driver == config.DriverMySQL {
		return BuildDSN(cfg)
	}
	return BuildPostgresDSN(cfg)
}

// BuildDSN constructs a MySQL DSN from configuration.
func BuildDSN(cfg *config.StoreConfig) string {
	// Format: user:password@tcp(host:port)/database?params
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
	)

	if cfg.Database != "" {
		dsn += cfg.Database
	}

	params := "?parseTime=true"
	switch cfg.TLS {
	case "disable":
		params += "&tls=false"
	case "required":
		params += "&tls=true"
	case "preferred", "":
		params += "&tls=preferred"
	}

	return dsn + params
}

// BuildPostgresDSN constructs a PostgreSQL URL from configuration.
func BuildPostgresDSN(cfg *config.StoreConfig) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Database,
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}

	q := url.Values{}
	switch cfg.TLS {
	case "disable":
		q.Set("sslmode", "disable")
	case "required":
		q.Set("sslmode", "require")
	case "preferred", "":
		q.Set("sslmode", "prefer")
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// Store returns the record store over the open connection.
func (m *Manager) Store() (*store.SQLStore, error) {
	if m.DB == nil {
		return nil, fmt.Errorf("not connected")
	}

	dialect, err := sqlutil.NewDialect(m.config.Driver)
	if err != nil {
		return nil, err
	}

	opts := store.Options{
		DocumentColumn: m.config.DocumentColumn,
		IDField:        m.config.IDField,
	}
	if m.config.Driver == config.DriverPostgres {
		opts.Schema = m.config.Schema
	}
	return store.New(m.DB, dialect, opts)
}

// Close closes the connection pool.
func (m *Manager) Close() error {
	if m.DB == nil {
		return nil
	}
	if err := m.DB.Close(); err != nil {
		return fmt.Errorf("store close: %w", err)
	}
	return nil
}

// Ping verifies the connection is alive.
func (m *Manager) Ping(ctx context.Context) error {
	if m.DB == nil {
		return fmt.Errorf("not connected")
	}
	if err := m.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("store ping failed: %w", err)
	}
	return nil
}
