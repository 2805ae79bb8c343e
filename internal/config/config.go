// Package config provides configuration structures and loading for objectgraph.
package config

import (
	"time"

	"github.com/dbsmedya/objectgraph/internal/schema"
)

// Config represents the complete application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Schema    SchemaConfig    `yaml:"schema" mapstructure:"schema"`
	Traversal TraversalConfig `yaml:"traversal" mapstructure:"traversal"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

// StoreConfig represents the record store connection. Every record type is a
// table holding one JSON document per row.
type StoreConfig struct {
	Driver             string `yaml:"driver" mapstructure:"driver"` // mysql or postgres
	DSN                string `yaml:"dsn" mapstructure:"dsn"`       // overrides the discrete fields when set
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	Schema             string `yaml:"schema" mapstructure:"schema"` // postgres schema searched by ListTypes
	TLS                string `yaml:"tls" mapstructure:"tls"`       // disable, preferred, required
	DocumentColumn     string `yaml:"document_column" mapstructure:"document_column"`
	IDField            string `yaml:"id_field" mapstructure:"id_field"`
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// SchemaConfig locates the type-level edge declarations.
type SchemaConfig struct {
	EdgeFile       string   `yaml:"edge_file" mapstructure:"edge_file"`
	IrregularTypes []string `yaml:"irregular_types" mapstructure:"irregular_types"`
}

// TraversalConfig holds the default limits of a discovery run.
type TraversalConfig struct {
	Strategy      string        `yaml:"strategy" mapstructure:"strategy"` // bfs or dfs
	ObjectLimit   int           `yaml:"object_limit" mapstructure:"object_limit"`
	DepthLimit    int           `yaml:"depth_limit" mapstructure:"depth_limit"`
	LookupTimeout time.Duration `yaml:"lookup_timeout" mapstructure:"lookup_timeout"`
}

// ServerConfig represents the HTTP API settings.
type ServerConfig struct {
	Listen          string        `yaml:"listen" mapstructure:"listen"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	MaxObjectLimit  int           `yaml:"max_object_limit" mapstructure:"max_object_limit"`
	MaxDepthLimit   int           `yaml:"max_depth_limit" mapstructure:"max_depth_limit"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"

	StrategyBreadthFirst = "bfs"
	StrategyDepthFirst   = "dfs"
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	irregular := make([]string, len(schema.DefaultIrregularTypes))
	copy(irregular, schema.DefaultIrregularTypes)

	return &Config{
		Store: StoreConfig{
			Driver:             DriverPostgres,
			Port:               5432,
			Schema:             "public",
			TLS:                "preferred",
			DocumentColumn:     "obj",
			IDField:            "id",
			MaxConnections:     10,
			MaxIdleConnections: 5,
		},
		Schema: SchemaConfig{
			EdgeFile:       "connections.txt",
			IrregularTypes: irregular,
		},
		Traversal: TraversalConfig{
			Strategy:      StrategyBreadthFirst,
			ObjectLimit:   100,
			DepthLimit:    3,
			LookupTimeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Listen:          ":5000",
			ShutdownTimeout: 5 * time.Second,
			MaxObjectLimit:  10000,
			MaxDepthLimit:   50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// DefaultPort returns the conventional port for a driver.
func DefaultPort(driver string) int {
	if driver == DriverMySQL {
		return 3306
	}
	return 5432
}
