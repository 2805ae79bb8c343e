// Package discovery walks a record store from one seed record, following the
// reference fields declared by the schema graph, and assembles the indexed
// neighborhood graph.
package discovery

import (
	"context"

	"github.com/dbsmedya/objectgraph/internal/types"
)

// Lookup is the record store seam consumed by the traversal.
//
// Errors wrapping types.ErrBackendUnavailable abort the traversal. A type
// without a backing table reports types.ErrUnknownType, which the traversal
// treats like an absent edge.
type Lookup interface {
	// ScalarRef returns the id held by a single-valued reference field.
	// ok is false when the field is absent or null.
	ScalarRef(ctx context.Context, key types.NodeKey, field string) (id string, ok bool, err error)

	// CollectionRef returns the ids held by a collection reference field, in
	// the order the store returns them. An absent field yields no ids;
	// a value that is not a collection yields types.ErrNotParseable.
	CollectionRef(ctx context.Context, key types.NodeKey, field string) ([]string, error)

	// Summary returns the display projection of a record, or
	// types.ErrNotFound when the record does not exist.
	Summary(ctx context.Context, key types.NodeKey) (types.Summary, error)

	// ReferencedBy returns the ids of every fromType record whose field
	// equals id.
	ReferencedBy(ctx context.Context, fromType, field, id string) ([]string, error)
}
