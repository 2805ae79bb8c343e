package discovery

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/objectgraph/internal/logger"
	"github.com/dbsmedya/objectgraph/internal/schema"
	"github.com/dbsmedya/objectgraph/internal/types"
)

// ============================================================================
// In-memory record store
// ============================================================================

type doc map[string]interface{}

// memStore is a Lookup over in-memory documents keyed by type then id.
// A type with no entry in tables behaves like a missing table.
type memStore struct {
	mu       sync.Mutex
	tables   map[string]map[string]doc
	failures map[string]error // type -> error returned by any lookup on it
	delay    time.Duration
	calls    int
}

func newMemStore() *memStore {
	return &memStore{
		tables:   make(map[string]map[string]doc),
		failures: make(map[string]error),
	}
}

func (m *memStore) table(typ string) map[string]doc {
	tbl, ok := m.tables[typ]
	if !ok {
		tbl = make(map[string]doc)
		m.tables[typ] = tbl
	}
	return tbl
}

func (m *memStore) put(typ, id string, d doc) *memStore {
	if d == nil {
		d = doc{}
	}
	if _, ok := d["id"]; !ok {
		d["id"] = id
	}
	m.table(typ)[id] = d
	return m
}

func (m *memStore) begin(ctx context.Context, typ string) error {
	m.mu.Lock()
	m.calls++
	failure := m.failures[typ]
	delay := m.delay
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return failure
}

func (m *memStore) find(key types.NodeKey) (doc, error) {
	tbl, ok := m.tables[key.Type]
	if !ok {
		return nil, types.ErrUnknownType
	}
	return tbl[key.ID], nil
}

func (m *memStore) ScalarRef(ctx context.Context, key types.NodeKey, field string) (string, bool, error) {
	if err := m.begin(ctx, key.Type); err != nil {
		return "", false, err
	}
	d, err := m.find(key)
	if err != nil || d == nil {
		return "", false, err
	}
	id, ok := types.ToID(d[field])
	return id, ok, nil
}

func (m *memStore) CollectionRef(ctx context.Context, key types.NodeKey, field string) ([]string, error) {
	if err := m.begin(ctx, key.Type); err != nil {
		return nil, err
	}
	d, err := m.find(key)
	if err != nil || d == nil {
		return nil, err
	}

	switch v := d[field].(type) {
	case nil:
		return nil, nil
	case []interface{}:
		ids := make([]string, 0, len(v))
		for _, item := range v {
			id, ok := types.ToID(item)
			if !ok {
				return nil, types.ErrNotParseable
			}
			ids = append(ids, id)
		}
		return ids, nil
	case map[string]interface{}:
		ids := make([]string, 0, len(v))
		for id := range v {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		return ids, nil
	default:
		return nil, types.ErrNotParseable
	}
}

func (m *memStore) Summary(ctx context.Context, key types.NodeKey) (types.Summary, error) {
	if err := m.begin(ctx, key.Type); err != nil {
		return types.Summary{}, err
	}
	d, err := m.find(key)
	if err != nil {
		return types.Summary{}, err
	}
	if d == nil {
		return types.Summary{}, types.ErrNotFound
	}
	return types.Summary{
		Name:     types.ToOptional(d["name"]),
		Status:   types.ToOptional(d["status"]),
		Deleted:  types.ToOptional(d["deleted"]),
		TypeFull: types.ToOptional(d["type_full"]),
	}, nil
}

func (m *memStore) ReferencedBy(ctx context.Context, fromType, field, id string) ([]string, error) {
	if err := m.begin(ctx, fromType); err != nil {
		return nil, err
	}
	tbl, ok := m.tables[fromType]
	if !ok {
		return nil, types.ErrUnknownType
	}

	var ids []string
	for recordID, d := range tbl {
		if v, ok := types.ToID(d[field]); ok && v == id {
			ids = append(ids, recordID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ============================================================================
// Test Helpers
// ============================================================================

func newTestBuilder(t *testing.T, store Lookup, edges ...string) *Builder {
	t.Helper()

	parsed, err := schema.ParseEdges(strings.NewReader(strings.Join(edges, "\n")))
	require.NoError(t, err)

	b, err := NewBuilder(schema.NewGraph(parsed), nil, store)
	require.NoError(t, err)
	b.SetLogger(logger.NewNop())
	return b
}

func keysOf(rg *types.ResultGraph) []string {
	keys := make([]string, len(rg.Nodes))
	for i, n := range rg.Nodes {
		keys[i] = n.Key().String()
	}
	return keys
}

func layersOf(nodes []*types.Node) []int {
	layers := make([]int, len(nodes))
	for i, n := range nodes {
		layers[i] = n.Layer
	}
	return layers
}
