package discovery

import (
	"strings"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/objectgraph/internal/types"
)

// ComputeStats summarizes a finished node list: node count, deepest layer
// and per-type frequencies. Types and subtypes are listed in the order they
// were first discovered.
func ComputeStats(nodes []*types.Node) types.DiscoveryStats {
	stats := types.DiscoveryStats{NodesFound: len(nodes)}
	if len(nodes) == 0 {
		return stats
	}

	byType := orderedmap.NewOrderedMap[string, int]()
	subtypes := make(map[string]*orderedmap.OrderedMap[string, int])

	for _, n := range nodes {
		if n.Layer > stats.MaxDepth {
			stats.MaxDepth = n.Layer
		}

		count, _ := byType.Get(n.Type)
		byType.Set(n.Type, count+1)

		if n.TypeFull == nil || !strings.HasPrefix(*n.TypeFull, n.Type) {
			continue
		}
		sub, ok := subtypes[n.Type]
		if !ok {
			sub = orderedmap.NewOrderedMap[string, int]()
			subtypes[n.Type] = sub
		}
		c, _ := sub.Get(*n.TypeFull)
		sub.Set(*n.TypeFull, c+1)
	}

	total := float64(len(nodes))
	for el := byType.Front(); el != nil; el = el.Next() {
		tc := types.TypeCount{
			Type:    el.Key,
			Count:   el.Value,
			Percent: percent(el.Value, total),
		}
		if sub, ok := subtypes[el.Key]; ok {
			for s := sub.Front(); s != nil; s = s.Next() {
				tc.Subtypes = append(tc.Subtypes, types.SubtypeCount{
					TypeFull:      s.Key,
					Count:         s.Value,
					Percent:       percent(s.Value, total),
					PercentOfType: percent(s.Value, float64(el.Value)),
				})
			}
		}
		stats.Types = append(stats.Types, tc)
	}
	return stats
}

func percent(count int, of float64) float64 {
	if of == 0 {
		return 0
	}
	return float64(count) * 100 / of
}
