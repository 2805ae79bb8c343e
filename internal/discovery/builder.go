package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/dbsmedya/objectgraph/internal/logger"
	"github.com/dbsmedya/objectgraph/internal/schema"
	"github.com/dbsmedya/objectgraph/internal/types"
)

const (
	StrategyBreadthFirst = "bfs"
	StrategyDepthFirst   = "dfs"
)

// Builder runs traversals over a record store. It holds only read-only
// collaborators; every run gets its own state, so one Builder may serve
// concurrent runs.
type Builder struct {
	schema  *schema.Graph
	fields  *schema.FieldResolver
	lookup  Lookup
	timeout time.Duration
	logger  *logger.Logger
}

// NewBuilder creates a traversal engine over the given schema graph and store.
// A nil resolver uses the default irregular type list.
func NewBuilder(g *schema.Graph, fields *schema.FieldResolver, lookup Lookup) (*Builder, error) {
	if g == nil {
		return nil, fmt.Errorf("schema graph is nil")
	}
	if lookup == nil {
		return nil, fmt.Errorf("lookup is nil")
	}
	if fields == nil {
		fields = schema.NewFieldResolver(nil)
	}

	return &Builder{
		schema: g,
		fields: fields,
		lookup: lookup,
		logger: logger.NewDefault(),
	}, nil
}

// SetLogger sets a custom logger for the builder.
func (b *Builder) SetLogger(log *logger.Logger) {
	b.logger = log
}

// SetLookupTimeout bounds every single store lookup. Zero disables the bound.
// A lookup that runs out of time is reported as types.ErrBackendUnavailable.
func (b *Builder) SetLookupTimeout(d time.Duration) {
	b.timeout = d
}

// Schema returns the schema graph used by this builder.
func (b *Builder) Schema() *schema.Graph {
	return b.schema
}

// Request describes one traversal.
type Request struct {
	Strategy    string
	SeedType    string
	SeedID      string
	DepthLimit  int // breadth-first only
	ObjectLimit int
}

// Run dispatches a request to the matching strategy.
func (b *Builder) Run(ctx context.Context, req Request) (*types.ResultGraph, error) {
	switch req.Strategy {
	case StrategyDepthFirst:
		return b.RunDepthFirst(ctx, req.SeedType, req.SeedID, req.ObjectLimit)
	case StrategyBreadthFirst, "":
		return b.RunBreadthFirst(ctx, req.SeedType, req.SeedID, req.DepthLimit, req.ObjectLimit)
	default:
		return nil, fmt.Errorf("unknown traversal strategy %q", req.Strategy)
	}
}

// RunDepthFirst discovers the neighborhood of the seed depth-first: a newly
// found record is expanded completely before its referrer's remaining
// edges. It stops when objectLimit nodes exist or nothing is left to expand.
func (b *Builder) RunDepthFirst(ctx context.Context, seedType, seedID string, objectLimit int) (*types.ResultGraph, error) {
	if objectLimit < 1 {
		return nil, fmt.Errorf("%w: object limit %d must be at least 1", types.ErrInvalidLimit, objectLimit)
	}

	t := b.newTraversal(StrategyDepthFirst, seedType, seedID, objectLimit)
	if err := t.seed(ctx); err != nil {
		return nil, err
	}
	if err := t.depthFirst(ctx); err != nil {
		return nil, err
	}
	return t.result(), nil
}

// RunBreadthFirst discovers the neighborhood of the seed one layer at a time.
// It stops after depthLimit layers, on an empty layer, or when objectLimit
// nodes exist.
func (b *Builder) RunBreadthFirst(ctx context.Context, seedType, seedID string, depthLimit, objectLimit int) (*types.ResultGraph, error) {
	if objectLimit < 1 {
		return nil, fmt.Errorf("%w: object limit %d must be at least 1", types.ErrInvalidLimit, objectLimit)
	}
	if depthLimit < 0 {
		return nil, fmt.Errorf("%w: depth limit %d cannot be negative", types.ErrInvalidLimit, depthLimit)
	}

	t := b.newTraversal(StrategyBreadthFirst, seedType, seedID, objectLimit)
	if err := t.seed(ctx); err != nil {
		return nil, err
	}
	if err := t.breadthFirst(ctx, depthLimit); err != nil {
		return nil, err
	}
	return t.result(), nil
}
