package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/objectgraph/internal/logger"
	"github.com/dbsmedya/objectgraph/internal/types"
)

// traversal is the private state of one run. It is never shared.
type traversal struct {
	b   *Builder
	log *logger.Logger

	strategy    string
	seedKey     types.NodeKey
	objectLimit int
	startTime   time.Time

	existing map[types.NodeKey]int // write-once per key
	nodes    []*types.Node         // position == index
	queries  *orderedmap.OrderedMap[string, struct{}]

	lookups      int
	edges        int
	dangling     int
	limitReached bool
}

func (b *Builder) newTraversal(strategy, seedType, seedID string, objectLimit int) *traversal {
	return &traversal{
		b:           b,
		log:         b.logger.WithStrategy(strategy).WithSeed(seedType, seedID),
		strategy:    strategy,
		seedKey:     types.NodeKey{Type: seedType, ID: seedID},
		objectLimit: objectLimit,
		startTime:   time.Now(),
		existing:    make(map[types.NodeKey]int),
		queries:     orderedmap.NewOrderedMap[string, struct{}](),
	}
}

// step is one schema edge probed while expanding a node.
type step struct {
	typ     string // target type (forward) or referring type (reverse)
	reverse bool
}

// steps lists the probes for a node of type t: every pointsTo edge, then
// every pointedToBy edge, each in sorted order.
func (t *traversal) steps(nodeType string) []step {
	forward := t.b.schema.PointsTo(nodeType)
	backward := t.b.schema.PointedToBy(nodeType)

	steps := make([]step, 0, len(forward)+len(backward))
	for _, to := range forward {
		steps = append(steps, step{typ: to})
	}
	for _, from := range backward {
		steps = append(steps, step{typ: from, reverse: true})
	}
	return steps
}

// full reports whether the object limit has been reached.
func (t *traversal) full() bool {
	return t.limitReached
}

// seed creates node 0.
func (t *traversal) seed(ctx context.Context) error {
	t.log.Infof("Starting %s discovery (object limit %d)", t.strategy, t.objectLimit)

	summary, err := t.summary(ctx, t.seedKey)
	if err != nil {
		if isMissing(err) {
			t.log.Warnf("Seed %s does not exist", t.seedKey)
			return fmt.Errorf("%w: %s", types.ErrSeedNotFound, t.seedKey)
		}
		return fmt.Errorf("failed to fetch seed %s: %w", t.seedKey, err)
	}

	t.add(t.seedKey, summary, []int{}, 0)
	return nil
}

// add registers a new node and returns its index.
func (t *traversal) add(key types.NodeKey, summary types.Summary, pointersFrom []int, layer int) int {
	index := len(t.nodes)
	t.nodes = append(t.nodes, &types.Node{
		Index:        index,
		Type:         key.Type,
		ID:           key.ID,
		Layer:        layer,
		PointersFrom: pointersFrom,
		Summary:      summary,
	})
	t.existing[key] = index

	if len(t.nodes) >= t.objectLimit {
		t.limitReached = true
		t.log.Infof("Object limit %d reached", t.objectLimit)
	}
	return index
}

// visit applies the known/new logic to one candidate found while expanding
// current. A forward candidate is referenced by current; a reverse candidate
// references current. It returns the index of a newly created node, or -1.
func (t *traversal) visit(ctx context.Context, current int, st step, id string, layer int) (int, error) {
	key := types.NodeKey{Type: st.typ, ID: id}

	if index, ok := t.existing[key]; ok {
		if index == current {
			return -1, nil
		}
		var added bool
		if st.reverse {
			added = t.nodes[current].AddPointerFrom(index)
		} else {
			added = t.nodes[index].AddPointerFrom(current)
		}
		if added {
			t.edges++
			t.log.Debugf("Node %d links to known node %d (%s)", current, index, key)
		}
		return -1, nil
	}

	if t.full() {
		return -1, nil
	}

	summary, err := t.summary(ctx, key)
	if err != nil {
		if isMissing(err) {
			t.dangling++
			t.log.Warnf("Dangling reference from %s to %s, skipping", t.nodes[current].Key(), key)
			return -1, nil
		}
		return -1, err
	}

	t.edges++
	index := t.add(key, summary, []int{current}, layer)
	t.log.Debugf("Discovered node %d (%s) from node %d", index, key, current)
	return index, nil
}

// isMissing reports whether a summary error means the record is not there,
// either as a row or as a whole table.
func isMissing(err error) bool {
	return errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrUnknownType)
}

// probe returns the candidate ids of one step for the node at index.
func (t *traversal) probe(ctx context.Context, index int, st step) ([]string, error) {
	node := t.nodes[index]
	key := node.Key()

	if st.reverse {
		field := t.b.fields.ScalarField(node.Type)
		ids, err := t.referencedBy(ctx, st.typ, field, node.ID)
		if err != nil {
			if errors.Is(err, types.ErrUnknownType) {
				t.log.Debugf("Type %q has no table, skipping reverse probe", st.typ)
				return nil, nil
			}
			return nil, err
		}
		return ids, nil
	}

	id, ok, err := t.scalarRef(ctx, key, t.b.fields.ScalarField(st.typ))
	if err != nil {
		if errors.Is(err, types.ErrUnknownType) {
			return nil, nil
		}
		return nil, err
	}
	if ok {
		return []string{id}, nil
	}

	ids, err := t.collectionRef(ctx, key, t.b.fields.CollectionField(st.typ))
	if err != nil {
		if errors.Is(err, types.ErrNotParseable) {
			t.log.Debugf("Field %s of %s is not a collection, skipping", t.b.fields.CollectionField(st.typ), key)
			return nil, nil
		}
		if errors.Is(err, types.ErrUnknownType) {
			return nil, nil
		}
		return nil, err
	}
	return ids, nil
}

// Port wrappers: record the query, apply the lookup timeout.

func (t *traversal) scalarRef(ctx context.Context, key types.NodeKey, field string) (string, bool, error) {
	t.record(fmt.Sprintf("scalar %s %s", key, field))
	lctx, cancel := t.lookupContext(ctx)
	defer cancel()

	id, ok, err := t.b.lookup.ScalarRef(lctx, key, field)
	return id, ok, t.classify(ctx, err)
}

func (t *traversal) collectionRef(ctx context.Context, key types.NodeKey, field string) ([]string, error) {
	t.record(fmt.Sprintf("collection %s %s", key, field))
	lctx, cancel := t.lookupContext(ctx)
	defer cancel()

	ids, err := t.b.lookup.CollectionRef(lctx, key, field)
	return ids, t.classify(ctx, err)
}

func (t *traversal) summary(ctx context.Context, key types.NodeKey) (types.Summary, error) {
	t.record(fmt.Sprintf("summary %s", key))
	lctx, cancel := t.lookupContext(ctx)
	defer cancel()

	s, err := t.b.lookup.Summary(lctx, key)
	return s, t.classify(ctx, err)
}

func (t *traversal) referencedBy(ctx context.Context, fromType, field, id string) ([]string, error) {
	t.record(fmt.Sprintf("reverse %s.%s = %s", fromType, field, id))
	lctx, cancel := t.lookupContext(ctx)
	defer cancel()

	ids, err := t.b.lookup.ReferencedBy(lctx, fromType, field, id)
	return ids, t.classify(ctx, err)
}

func (t *traversal) record(query string) {
	t.lookups++
	t.queries.Set(query, struct{}{})
}

func (t *traversal) lookupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.b.timeout > 0 {
		return context.WithTimeout(ctx, t.b.timeout)
	}
	return context.WithCancel(ctx)
}

// classify turns a per-lookup deadline into a backend failure. Cancellation
// of the run itself passes through unchanged.
func (t *traversal) classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: lookup timed out after %s", types.ErrBackendUnavailable, t.b.timeout)
	}
	return err
}

// result assembles the output of the run.
func (t *traversal) result() *types.ResultGraph {
	queries := make([]string, 0, t.queries.Len())
	for el := t.queries.Front(); el != nil; el = el.Next() {
		queries = append(queries, el.Key)
	}

	rg := &types.ResultGraph{
		Strategy: t.strategy,
		Seed:     t.seedKey,
		Nodes:    t.nodes,
		QueryLog: queries,
	}
	rg.Stats = ComputeStats(t.nodes)
	rg.Stats.EdgesFound = t.edges
	rg.Stats.Lookups = t.lookups
	rg.Stats.DanglingRefs = t.dangling
	rg.Stats.LimitReached = t.limitReached
	rg.Stats.Duration = time.Since(t.startTime)

	t.log.Infof("Discovery complete: %d nodes, %d edges, %d lookups, max depth %d, duration: %s",
		rg.Stats.NodesFound,
		rg.Stats.EdgesFound,
		rg.Stats.Lookups,
		rg.Stats.MaxDepth,
		rg.Stats.Duration,
	)
	return rg
}
