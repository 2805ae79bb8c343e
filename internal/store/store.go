// Package store implements the discovery lookup port over SQL tables that
// keep each record as a JSON document in a single column.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dbsmedya/objectgraph/internal/discovery"
	"github.com/dbsmedya/objectgraph/internal/sqlutil"
	"github.com/dbsmedya/objectgraph/internal/types"
)

// Options names the schema, column and field the documents live in.
type Options struct {
	Schema         string // postgres schema; empty for mysql
	DocumentColumn string
	IDField        string
}

// SQLStore reads records from one table per type. Every lookup is a single
// parameterized statement; JSON values are decoded in Go.
type SQLStore struct {
	db      *sql.DB
	dialect sqlutil.Dialect
	schema  string // quoted, empty when unqualified
	column  string // quoted document column
	idField string

	schemaName string
}

var _ discovery.Lookup = (*SQLStore)(nil)

// New creates a store over an open connection pool.
func New(db *sql.DB, dialect sqlutil.Dialect, opts Options) (*SQLStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if dialect == nil {
		return nil, fmt.Errorf("dialect is nil")
	}

	column, err := dialect.Quote(opts.DocumentColumn)
	if err != nil {
		return nil, fmt.Errorf("invalid document column: %w", err)
	}

	var schema string
	if opts.Schema != "" {
		schema, err = dialect.Quote(opts.Schema)
		if err != nil {
			return nil, fmt.Errorf("invalid schema: %w", err)
		}
	}

	if !sqlutil.IsValidIdentifier(opts.IDField) {
		return nil, fmt.Errorf("invalid id field %q", opts.IDField)
	}

	return &SQLStore{
		db:         db,
		dialect:    dialect,
		schema:     schema,
		column:     column,
		idField:    opts.IDField,
		schemaName: opts.Schema,
	}, nil
}

// Dialect returns the SQL dialect of the store.
func (s *SQLStore) Dialect() sqlutil.Dialect {
	return s.dialect
}

// table returns the qualified, quoted table of a record type. A name that
// cannot be a table is reported as an unknown type.
func (s *SQLStore) table(recordType string) (string, error) {
	quoted, err := s.dialect.Quote(recordType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrUnknownType, err)
	}
	if s.schema != "" {
		return s.schema + "." + quoted, nil
	}
	return quoted, nil
}

// fieldQuery selects the raw JSON of one field of the record with the given id.
func (s *SQLStore) fieldQuery(table string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		s.dialect.JSONValue(s.column, 1),
		table,
		s.dialect.JSONText(s.column, 2),
		s.dialect.Placeholder(3),
	)
}

// field fetches the raw JSON text of one document field. A missing record,
// a missing field and a SQL NULL all yield ok=false.
func (s *SQLStore) field(ctx context.Context, key types.NodeKey, field string) (raw string, ok bool, err error) {
	table, err := s.table(key.Type)
	if err != nil {
		return "", false, err
	}

	var value sql.NullString
	err = s.db.QueryRowContext(ctx, s.fieldQuery(table),
		s.dialect.FieldArg(field),
		s.dialect.FieldArg(s.idField),
		key.ID,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, classify(err, "fetch %s of %s", field, key)
	}
	return value.String, value.Valid, nil
}

// ScalarRef returns the id held by a single-valued reference field.
func (s *SQLStore) ScalarRef(ctx context.Context, key types.NodeKey, field string) (string, bool, error) {
	raw, ok, err := s.field(ctx, key, field)
	if err != nil || !ok {
		return "", false, err
	}
	id, ok := decodeScalar(raw)
	return id, ok, nil
}

// CollectionRef returns the ids held by a collection field, stored either as
// a JSON object keyed by id or as a JSON array of ids.
func (s *SQLStore) CollectionRef(ctx context.Context, key types.NodeKey, field string) ([]string, error) {
	raw, ok, err := s.field(ctx, key, field)
	if err != nil || !ok {
		return nil, err
	}
	return decodeCollection(raw)
}

// Summary returns the display projection of a record.
func (s *SQLStore) Summary(ctx context.Context, key types.NodeKey) (types.Summary, error) {
	doc, err := s.Object(ctx, key)
	if err != nil {
		return types.Summary{}, err
	}
	return types.Summary{
		Name:     types.ToOptional(doc["name"]),
		Status:   types.ToOptional(doc["status"]),
		Deleted:  types.ToOptional(doc["deleted"]),
		TypeFull: types.ToOptional(doc["type_full"]),
	}, nil
}

// Object returns the whole stored document of a record, or types.ErrNotFound.
func (s *SQLStore) Object(ctx context.Context, key types.NodeKey) (map[string]interface{}, error) {
	table, err := s.table(key.Type)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s ORDER BY 1",
		s.dialect.DocumentText(s.column),
		table,
		s.dialect.JSONText(s.column, 1),
		s.dialect.Placeholder(2),
	)

	var raw sql.NullString
	err = s.db.QueryRowContext(ctx, query, s.dialect.FieldArg(s.idField), key.ID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !raw.Valid) {
		return nil, fmt.Errorf("%w: %s", types.ErrNotFound, key)
	}
	if err != nil {
		return nil, classify(err, "fetch %s", key)
	}

	doc, err := decodeDocument(raw.String)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return doc, nil
}

// ReferencedBy returns the ids of every fromType record whose field equals id,
// ordered by id so repeated runs number their nodes alike.
func (s *SQLStore) ReferencedBy(ctx context.Context, fromType, field, id string) ([]string, error) {
	table, err := s.table(fromType)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		s.dialect.JSONText(s.column, 1),
		table,
		s.dialect.JSONText(s.column, 2),
		s.dialect.Placeholder(3),
	)

	rows, err := s.db.QueryContext(ctx, query,
		s.dialect.FieldArg(s.idField),
		s.dialect.FieldArg(field),
		id,
	)
	if err != nil {
		return nil, classify(err, "find %s records by %s", fromType, field)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var refID sql.NullString
		if err := rows.Scan(&refID); err != nil {
			return nil, classify(err, "scan %s id", fromType)
		}
		if refID.Valid {
			ids = append(ids, refID.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate %s records", fromType)
	}
	return ids, nil
}

// ListTypes returns the record types (tables) present in the store.
func (s *SQLStore) ListTypes(ctx context.Context) ([]string, error) {
	var args []interface{}
	if s.dialect.Name() == sqlutil.DriverPostgres {
		schema := s.schemaName
		if schema == "" {
			schema = "public"
		}
		args = append(args, schema)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.ListTablesQuery(), args...)
	if err != nil {
		return nil, classify(err, "list tables")
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, classify(err, "scan table name")
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "list tables")
	}
	return tables, nil
}

// Ping verifies the store is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return classify(err, "ping")
	}
	return nil
}
