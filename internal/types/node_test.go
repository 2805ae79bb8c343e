package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeKey_String(t *testing.T) {
	k := NodeKey{Type: "adunit", ID: "536873591"}
	assert.Equal(t, "adunit/536873591", k.String())
}

func TestNodeKey_Equality(t *testing.T) {
	t.Run("Same type and id", func(t *testing.T) {
		assert.Equal(t, NodeKey{Type: "site", ID: "1"}, NodeKey{Type: "site", ID: "1"})
	})

	t.Run("No normalization", func(t *testing.T) {
		seen := map[NodeKey]int{{Type: "site", ID: "1"}: 0}
		_, ok := seen[NodeKey{Type: "site", ID: "01"}]
		assert.False(t, ok)
		_, ok = seen[NodeKey{Type: "Site", ID: "1"}]
		assert.False(t, ok)
	})
}

func TestNode_AddPointerFrom(t *testing.T) {
	n := &Node{Index: 3, Type: "account", ID: "9", PointersFrom: []int{0}}

	assert.True(t, n.AddPointerFrom(2))
	assert.False(t, n.AddPointerFrom(0), "duplicate referrer must be rejected")
	assert.False(t, n.AddPointerFrom(2))
	assert.Equal(t, []int{0, 2}, n.PointersFrom)
	assert.True(t, n.HasPointerFrom(2))
	assert.False(t, n.HasPointerFrom(5))
	assert.Equal(t, NodeKey{Type: "account", ID: "9"}, n.Key())
}

func TestResultGraph_NodeAndOutput(t *testing.T) {
	rg := &ResultGraph{
		Nodes: []*Node{
			{Index: 0, Type: "adunit", ID: "1", PointersFrom: []int{}},
			{Index: 1, Type: "account", ID: "9", PointersFrom: []int{0}},
		},
	}

	assert.Nil(t, rg.Node(-1))
	assert.Nil(t, rg.Node(2))
	require.NotNil(t, rg.Node(1))
	assert.Equal(t, "account", rg.Node(1).Type)

	out := rg.Output()
	assert.Len(t, out, 2)
	assert.Equal(t, "adunit", out[0].Type)
}

func TestNode_JSONFlattensSummary(t *testing.T) {
	name := "Homepage"
	n := &Node{
		Index:        0,
		Type:         "site",
		ID:           "1",
		PointersFrom: []int{},
		Summary:      Summary{Name: &name},
	}

	data, err := json.Marshal(n)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Homepage", decoded["name"])
	assert.NotContains(t, decoded, "status")
	assert.NotContains(t, decoded, "type_full")
	assert.Equal(t, []interface{}{}, decoded["pointers_from"])
}

func TestDiscoveryStats_ZeroValues(t *testing.T) {
	stats := DiscoveryStats{}
	assert.Equal(t, 0, stats.NodesFound)
	assert.Equal(t, 0, stats.MaxDepth)
	assert.False(t, stats.LimitReached)
	assert.Equal(t, time.Duration(0), stats.Duration)
	assert.Nil(t, stats.Types)
}
