package config

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/objectgraph/internal/sqlutil"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateStore()...)
	errors = append(errors, c.validateSchema()...)
	errors = append(errors, c.validateTraversal()...)
	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateStore() ValidationErrors {
	var errors ValidationErrors
	s := &c.Store

	if s.Driver != DriverMySQL && s.Driver != DriverPostgres {
		errors = append(errors, ValidationError{
			Field:   "store.driver",
			Message: "driver must be 'mysql' or 'postgres'",
		})
	}

	// A DSN carries host, credentials and database itself.
	if s.DSN == "" {
		if s.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "store.host",
				Message: "host is required",
			})
		}

		if s.Port <= 0 || s.Port > 65535 {
			errors = append(errors, ValidationError{
				Field:   "store.port",
				Message: "port must be between 1 and 65535",
			})
		}

		if s.User == "" {
			errors = append(errors, ValidationError{
				Field:   "store.user",
				Message: "user is required",
			})
		}

		if s.Database == "" {
			errors = append(errors, ValidationError{
				Field:   "store.database",
				Message: "database name is required",
			})
		}
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[s.TLS] {
		errors = append(errors, ValidationError{
			Field:   "store.tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if !sqlutil.IsValidIdentifier(s.DocumentColumn) {
		errors = append(errors, ValidationError{
			Field:   "store.document_column",
			Message: "document_column must contain only alphanumeric characters and underscores",
		})
	}

	if s.IDField == "" {
		errors = append(errors, ValidationError{
			Field:   "store.id_field",
			Message: "id_field is required",
		})
	}

	if s.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   "store.max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	if s.MaxIdleConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   "store.max_idle_connections",
			Message: "max_idle_connections cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateSchema() ValidationErrors {
	var errors ValidationErrors

	if c.Schema.EdgeFile == "" {
		errors = append(errors, ValidationError{
			Field:   "schema.edge_file",
			Message: "edge_file is required",
		})
	}

	for i, t := range c.Schema.IrregularTypes {
		if !sqlutil.IsValidIdentifier(t) {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("schema.irregular_types[%d]", i),
				Message: fmt.Sprintf("%q is not a valid type name", t),
			})
		}
	}

	return errors
}

func (c *Config) validateTraversal() ValidationErrors {
	var errors ValidationErrors

	validStrategies := map[string]bool{StrategyBreadthFirst: true, StrategyDepthFirst: true}
	if !validStrategies[c.Traversal.Strategy] {
		errors = append(errors, ValidationError{
			Field:   "traversal.strategy",
			Message: "strategy must be 'bfs' or 'dfs'",
		})
	}

	if c.Traversal.ObjectLimit < 1 {
		errors = append(errors, ValidationError{
			Field:   "traversal.object_limit",
			Message: "object_limit must be at least 1",
		})
	}

	if c.Traversal.DepthLimit < 0 {
		errors = append(errors, ValidationError{
			Field:   "traversal.depth_limit",
			Message: "depth_limit cannot be negative",
		})
	}

	if c.Traversal.LookupTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "traversal.lookup_timeout",
			Message: "lookup_timeout cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateServer() ValidationErrors {
	var errors ValidationErrors

	if c.Server.Listen == "" {
		errors = append(errors, ValidationError{
			Field:   "server.listen",
			Message: "listen address is required",
		})
	}

	// Zero caps leave request limits uncapped.
	switch {
	case c.Server.MaxObjectLimit < 0:
		errors = append(errors, ValidationError{
			Field:   "server.max_object_limit",
			Message: "max_object_limit cannot be negative",
		})
	case c.Server.MaxObjectLimit > 0 && c.Server.MaxObjectLimit < c.Traversal.ObjectLimit:
		errors = append(errors, ValidationError{
			Field:   "server.max_object_limit",
			Message: "max_object_limit cannot be lower than traversal.object_limit",
		})
	}

	switch {
	case c.Server.MaxDepthLimit < 0:
		errors = append(errors, ValidationError{
			Field:   "server.max_depth_limit",
			Message: "max_depth_limit cannot be negative",
		})
	case c.Server.MaxDepthLimit > 0 && c.Server.MaxDepthLimit < c.Traversal.DepthLimit:
		errors = append(errors, ValidationError{
			Field:   "server.max_depth_limit",
			Message: "max_depth_limit cannot be lower than traversal.depth_limit",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
