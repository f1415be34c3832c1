package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwhthompson/grist-mcp-server-sub005/internal/registry"
	"github.com/gwhthompson/grist-mcp-server-sub005/pkg/core"
)

func TestToNativeLeaves(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register(101, ""))

	tree := &core.ColSplit{Children: []core.Node{
		&core.ExistingPane{Section: 5},
		&core.NewPane{Table: "Orders", Widget: core.WidgetGrid},
	}}

	native, err := ToNative(tree, reg)
	require.NoError(t, err)

	split, ok := native.(*HSplit)
	require.True(t, ok)
	assert.Equal(t, &Leaf{Section: 5}, split.First)
	assert.Equal(t, &Leaf{Section: 101}, split.Second)
	assert.Equal(t, 0.5, split.Ratio)
}

func TestToNativeAssignsSectionsInTraversalOrder(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register(201, ""))
	require.NoError(t, reg.Register(202, ""))

	tree := &core.RowSplit{Children: []core.Node{
		&core.NewPane{Table: "A", Widget: core.WidgetGrid},
		&core.NewPane{Table: "B", Widget: core.WidgetGrid},
	}}

	native, err := ToNative(tree, reg)
	require.NoError(t, err)
	assert.Equal(t, []int{201, 202}, ExtractSectionIDs(native))
}

func TestToNativeMissingRegistration(t *testing.T) {
	tree := &core.NewPane{Table: "Orders", Widget: core.WidgetGrid}
	_, err := ToNative(tree, registry.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no section registered")
}

// Three equal-weight children fold into a left-leaning chain whose ratios
// come out as equal thirds: 1/2 inside, then 2/3 at the top.
func TestFoldEqualWeights(t *testing.T) {
	tree := &core.ColSplit{Children: []core.Node{
		&core.ExistingPane{Section: 1},
		&core.ExistingPane{Section: 2},
		&core.ExistingPane{Section: 3},
	}}

	native, err := ToNative(tree, registry.New())
	require.NoError(t, err)

	top, ok := native.(*HSplit)
	require.True(t, ok)
	assert.InDelta(t, 2.0/3.0, top.Ratio, 1e-9)

	inner, ok := top.First.(*HSplit)
	require.True(t, ok)
	assert.InDelta(t, 0.5, inner.Ratio, 1e-9)
	assert.Equal(t, &Leaf{Section: 3}, top.Second)
}

func TestFoldDeclaredWeights(t *testing.T) {
	tree := &core.RowSplit{Children: []core.Node{
		&core.ExistingPane{Section: 1, PaneWeight: 3},
		&core.ExistingPane{Section: 2, PaneWeight: 1},
	}}

	native, err := ToNative(tree, registry.New())
	require.NoError(t, err)

	split, ok := native.(*VSplit)
	require.True(t, ok)
	assert.InDelta(t, 0.75, split.Ratio, 1e-9)
}

func TestFromNative(t *testing.T) {
	native := &HSplit{
		First:  &Leaf{Section: 1},
		Second: &VSplit{First: &Leaf{Section: 2}, Second: &Leaf{Section: 3}, Ratio: 0.5},
		Ratio:  0.5,
	}

	tree, err := FromNative(native)
	require.NoError(t, err)

	cols, ok := tree.(*core.ColSplit)
	require.True(t, ok)
	require.Len(t, cols.Children, 2)
	assert.Equal(t, &core.ExistingPane{Section: 1}, cols.Children[0])

	rows, ok := cols.Children[1].(*core.RowSplit)
	require.True(t, ok)
	assert.Equal(t, &core.ExistingPane{Section: 2}, rows.Children[0])
	assert.Equal(t, &core.ExistingPane{Section: 3}, rows.Children[1])
}

// A binary native tree survives FromNative followed by ToNative unchanged
// when every ratio is the default split point.
func TestBinaryRoundTrip(t *testing.T) {
	native := &HSplit{
		First: &VSplit{First: &Leaf{Section: 1}, Second: &Leaf{Section: 2}, Ratio: 0.5},
		Second: &HSplit{
			First:  &Leaf{Section: 3},
			Second: &VSplit{First: &Leaf{Section: 4}, Second: &Leaf{Section: 5}, Ratio: 0.5},
			Ratio:  0.5,
		},
		Ratio: 0.5,
	}

	tree, err := FromNative(native)
	require.NoError(t, err)

	back, err := ToNative(tree, registry.New())
	require.NoError(t, err)
	assert.Equal(t, native, back)
}

func TestNativeTraversalHelpers(t *testing.T) {
	native := &VSplit{
		First:  &HSplit{First: &Leaf{Section: 4}, Second: &Leaf{Section: 7}, Ratio: 0.5},
		Second: &Leaf{Section: 2},
		Ratio:  0.5,
	}
	assert.Equal(t, []int{4, 7, 2}, ExtractSectionIDs(native))
	assert.Equal(t, 3, CountWidgets(native))
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	native := &HSplit{
		First:  &Leaf{Section: 1},
		Second: &VSplit{First: &Leaf{Section: 2}, Second: &Leaf{Section: 3}, Ratio: 0.25},
		Ratio:  0.5,
	}

	spec, err := Marshal(native)
	require.NoError(t, err)

	decoded, err := Unmarshal(spec)
	require.NoError(t, err)
	assert.Equal(t, native, decoded)
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantMsg string
	}{
		{"not json", `{`, "malformed layout spec"},
		{"neither leaf nor split", `{}`, "neither a leaf nor a split"},
		{"missing subtree", `{"split": "h", "first": {"leaf": 1}}`, "h split is missing a subtree"},
		{"unknown split kind", `{"split": "x", "first": {"leaf": 1}, "second": {"leaf": 2}}`, `unknown split kind "x"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal(tt.spec)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
