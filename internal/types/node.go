// Package types contains shared types used across multiple packages to avoid import cycles.
package types

import (
	"fmt"
	"time"
)

// NodeKey identifies one record: its type (table) and id.
// Keys compare string-exact; no normalization is applied.
type NodeKey struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// String renders the key as "type/id".
func (k NodeKey) String() string {
	return fmt.Sprintf("%s/%s", k.Type, k.ID)
}

// Summary is the projection of a record shown for every discovered node.
// Fields absent from the stored document stay nil.
type Summary struct {
	Name     *string `json:"name,omitempty"`
	Status   *string `json:"status,omitempty"`
	Deleted  *string `json:"deleted,omitempty"`
	TypeFull *string `json:"type_full,omitempty"`
}

// Node is one discovered record in a result graph.
type Node struct {
	Index        int    `json:"index"`
	Type         string `json:"type"`
	ID           string `json:"id"`
	Layer        int    `json:"layer"`
	PointersFrom []int  `json:"pointers_from"`
	Summary
}

// Key returns the node's identity.
func (n *Node) Key() NodeKey {
	return NodeKey{Type: n.Type, ID: n.ID}
}

// HasPointerFrom reports whether index is already recorded as a referrer.
func (n *Node) HasPointerFrom(index int) bool {
	for _, p := range n.PointersFrom {
		if p == index {
			return true
		}
	}
	return false
}

// AddPointerFrom records index as a referrer unless it is already present.
// It returns false when the index was a duplicate.
func (n *Node) AddPointerFrom(index int) bool {
	if n.HasPointerFrom(index) {
		return false
	}
	n.PointersFrom = append(n.PointersFrom, index)
	return true
}

// ResultGraph is the output of one traversal run.
type ResultGraph struct {
	Strategy string         `json:"strategy"`
	Seed     NodeKey        `json:"seed"`
	Nodes    []*Node        `json:"nodes"` // position == Node.Index
	QueryLog []string       `json:"queries"`
	Stats    DiscoveryStats `json:"stats"`
}

// Node returns the node at index, or nil when out of range.
func (r *ResultGraph) Node(index int) *Node {
	if index < 0 || index >= len(r.Nodes) {
		return nil
	}
	return r.Nodes[index]
}

// Output returns the nodes keyed by index, the shape served over HTTP.
func (r *ResultGraph) Output() map[int]*Node {
	out := make(map[int]*Node, len(r.Nodes))
	for _, n := range r.Nodes {
		out[n.Index] = n
	}
	return out
}

// DiscoveryStats contains statistics about one traversal run.
type DiscoveryStats struct {
	NodesFound   int           `json:"nodes_found"`
	EdgesFound   int           `json:"edges_found"`
	Lookups      int           `json:"lookups"`
	DanglingRefs int           `json:"dangling_refs"`
	MaxDepth     int           `json:"max_depth"`
	LimitReached bool          `json:"limit_reached"`
	Duration     time.Duration `json:"duration_ns"`
	Types        []TypeCount   `json:"types"`
}

// TypeCount is the frequency of one record type in a result graph.
type TypeCount struct {
	Type     string         `json:"type"`
	Count    int            `json:"count"`
	Percent  float64        `json:"percent"`
	Subtypes []SubtypeCount `json:"subtypes,omitempty"`
}

// SubtypeCount is the frequency of one type_full value under its parent type.
type SubtypeCount struct {
	TypeFull      string  `json:"type_full"`
	Count         int     `json:"count"`
	Percent       float64 `json:"percent"`
	PercentOfType float64 `json:"percent_of_type"`
}
