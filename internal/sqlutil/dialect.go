package sqlutil

import (
	"fmt"
	"strconv"
)

// Dialect renders the SQL fragments that differ between the supported stores.
// Records live in one JSON document column per table; fields are addressed
// through the document.
type Dialect interface {
	// Name returns the driver name ("mysql" or "postgres").
	Name() string

	// Quote quotes an identifier after validating it.
	Quote(name string) (string, error)

	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder(n int) string

	// JSONValue returns an expression yielding the raw JSON text of one
	// document field; the field is bound as the n-th argument.
	JSONValue(column string, n int) string

	// JSONText returns an expression yielding a document field as unquoted
	// text, suitable for equality comparison.
	JSONText(column string, n int) string

	// FieldArg converts a field name into the bound argument JSONValue and
	// JSONText expect.
	FieldArg(field string) string

	// DocumentText returns an expression yielding the whole document as text.
	DocumentText(column string) string

	// ListTablesQuery lists table names; postgres binds the schema as $1.
	ListTablesQuery() string
}

// Supported driver names.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// NewDialect returns the dialect for a driver name.
func NewDialect(driver string) (Dialect, error) {
	switch driver {
	case DriverMySQL:
		return MySQL{}, nil
	case DriverPostgres:
		return Postgres{}, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// MySQL renders MySQL 5.7+ JSON functions.
type MySQL struct{}

func (MySQL) Name() string { return DriverMySQL }

func (MySQL) Quote(name string) (string, error) { return quoteChecked(name, QuoteIdentifier) }

func (MySQL) Placeholder(int) string { return "?" }

func (MySQL) JSONValue(column string, _ int) string {
	return fmt.Sprintf("JSON_EXTRACT(%s, ?)", column)
}

func (MySQL) JSONText(column string, _ int) string {
	return fmt.Sprintf("JSON_UNQUOTE(JSON_EXTRACT(%s, ?))", column)
}

// FieldArg quotes the path member so names MySQL would not take bare,
// such as ones starting with a digit, still resolve.
func (MySQL) FieldArg(field string) string { return `$."` + field + `"` }

func (MySQL) DocumentText(column string) string { return column }

func (MySQL) ListTablesQuery() string {
	return "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name"
}

// Postgres renders PostgreSQL jsonb operators.
type Postgres struct{}

func (Postgres) Name() string { return DriverPostgres }

func (Postgres) Quote(name string) (string, error) {
	return quoteChecked(name, QuotePostgresIdentifier)
}

func (Postgres) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (p Postgres) JSONValue(column string, n int) string {
	return fmt.Sprintf("(%s->%s)::text", column, p.Placeholder(n))
}

func (p Postgres) JSONText(column string, n int) string {
	return fmt.Sprintf("%s->>%s", column, p.Placeholder(n))
}

func (Postgres) FieldArg(field string) string { return field }

func (Postgres) DocumentText(column string) string { return column + "::text" }

func (Postgres) ListTablesQuery() string {
	return "SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = $1 ORDER BY tablename"
}
