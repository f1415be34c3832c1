package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwhthompson/grist-mcp-server-sub005/pkg/core"
)

// sampleTree builds cols[new A, rows[existing 5, new B], existing 9].
func sampleTree() core.Node {
	return &core.ColSplit{Children: []core.Node{
		&core.NewPane{Table: "A", Widget: core.WidgetGrid, LocalID: "a"},
		&core.RowSplit{Children: []core.Node{
			&core.ExistingPane{Section: 5},
			&core.NewPane{Table: "B", Widget: core.WidgetCard, LocalID: "b"},
		}},
		&core.ExistingPane{Section: 9},
	}}
}

func TestWalkOrder(t *testing.T) {
	var visited []string
	err := Walk(sampleTree(), func(n core.Node) error {
		visited = append(visited, core.NodeString(n))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"cols[3]",
		`new grid pane "a" (table A)`,
		"rows[2]",
		"section 5",
		`new card pane "b" (table B)`,
		"section 9",
	}, visited)
}

func TestWalkStopsOnError(t *testing.T) {
	count := 0
	err := Walk(sampleTree(), func(n core.Node) error {
		count++
		if _, ok := n.(*core.RowSplit); ok {
			return assert.AnError
		}
		return nil
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 3, count)
}

func TestCollectNewPanesOrder(t *testing.T) {
	panes := CollectNewPanes(sampleTree())
	require.Len(t, panes, 2)
	assert.Equal(t, "A", panes[0].Table)
	assert.Equal(t, "B", panes[1].Table)
}

func TestCollectExistingSectionIDs(t *testing.T) {
	ids := CollectExistingSectionIDs(sampleTree())
	assert.Equal(t, map[int]struct{}{5: {}, 9: {}}, ids)
}

func TestCollectLocalIDs(t *testing.T) {
	ids, err := CollectLocalIDs(sampleTree())
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}}, ids)
}

func TestCollectLocalIDsDuplicate(t *testing.T) {
	tree := &core.RowSplit{Children: []core.Node{
		&core.NewPane{Table: "A", Widget: core.WidgetGrid, LocalID: "dup"},
		&core.NewPane{Table: "B", Widget: core.WidgetGrid, LocalID: "dup"},
	}}
	_, err := CollectLocalIDs(tree)
	var dupErr *core.DuplicateLocalIDError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "dup", dupErr.LocalID)
}

func TestCollectLinks(t *testing.T) {
	link := &core.Link{Kind: core.LinkSync, Widget: core.WidgetRef{Section: 5}}
	tree := &core.ColSplit{Children: []core.Node{
		&core.ExistingPane{Section: 5},
		&core.NewPane{Table: "B", Widget: core.WidgetGrid, Link: link},
	}}
	linked := CollectLinks(tree)
	require.Len(t, linked, 1)
	assert.Same(t, link, linked[0].Link)
	_, ok := linked[0].Pane.(*core.NewPane)
	assert.True(t, ok)
}

func TestValidateNilTree(t *testing.T) {
	err := Validate(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "layout tree is empty")
}

func TestValidateNestedSplitBounds(t *testing.T) {
	tree := &core.ColSplit{Children: []core.Node{
		&core.ExistingPane{Section: 1},
		&core.RowSplit{Children: []core.Node{&core.ExistingPane{Section: 2}}},
	}}
	err := Validate(tree)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 2 and 10 children")
}
