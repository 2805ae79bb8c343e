// Package schema holds the type-level reference graph that drives discovery.
package schema

import "sort"

// Edge is a declared reference from one record type to another.
type Edge struct {
	From string // Type holding the reference field
	To   string // Type being referenced
}

// Graph is the directed type-to-type adjacency declared by the edge file.
// It is built once and read-only afterwards, so it is safe to share between
// concurrent traversals.
type Graph struct {
	pointsTo    map[string][]string // type -> types it may reference (sorted, unique)
	pointedToBy map[string][]string // type -> types that may reference it (sorted, unique)
}

// NewGraph creates a graph from a list of edge declarations.
func NewGraph(edges []Edge) *Graph {
	g := &Graph{
		pointsTo:    make(map[string][]string),
		pointedToBy: make(map[string][]string),
	}
	for _, e := range edges {
		g.addEdge(e.From, e.To)
	}
	return g
}

// addEdge inserts to into pointsTo[from] and from into pointedToBy[to],
// keeping both lists sorted and free of duplicates.
func (g *Graph) addEdge(from, to string) {
	g.pointsTo[from] = insertSorted(g.pointsTo[from], to)
	g.pointedToBy[to] = insertSorted(g.pointedToBy[to], from)
}

func insertSorted(list []string, v string) []string {
	i := sort.SearchStrings(list, v)
	if i < len(list) && list[i] == v {
		return list
	}
	list = append(list, "")
	copy(list[i+1:], list[i:])
	list[i] = v
	return list
}

// PointsTo returns, in sorted order, every type t may reference.
// Unknown types have no edges.
func (g *Graph) PointsTo(t string) []string {
	return g.pointsTo[t]
}

// PointedToBy returns, in sorted order, every type that may reference t.
func (g *Graph) PointedToBy(t string) []string {
	return g.pointedToBy[t]
}

// HasType reports whether t appears on either side of any edge.
func (g *Graph) HasType(t string) bool {
	_, from := g.pointsTo[t]
	_, to := g.pointedToBy[t]
	return from || to
}

// Types returns every type mentioned by the graph, sorted.
func (g *Graph) Types() []string {
	var types []string
	for t := range g.pointsTo {
		types = insertSorted(types, t)
	}
	for t := range g.pointedToBy {
		types = insertSorted(types, t)
	}
	return types
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, targets := range g.pointsTo {
		count += len(targets)
	}
	return count
}

// Edges returns all distinct edges ordered by source then target type.
func (g *Graph) Edges() []Edge {
	sources := make([]string, 0, len(g.pointsTo))
	for from := range g.pointsTo {
		sources = append(sources, from)
	}
	sort.Strings(sources)

	edges := make([]Edge, 0, g.EdgeCount())
	for _, from := range sources {
		for _, to := range g.pointsTo[from] {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}
