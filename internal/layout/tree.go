// Package layout defines the declarative layout tree grammar and the
// traversal helpers the rest of the pipeline consumes.
package layout

import (
	"github.com/gwhthompson/grist-mcp-server-sub005/pkg/core"
)

// Walk visits every node of the tree depth-first, left to right, calling fn
// on each. Traversal stops at the first error.
func Walk(tree core.Node, fn func(core.Node) error) error {
	if tree == nil {
		return nil
	}
	if err := fn(tree); err != nil {
		return err
	}
	switch v := tree.(type) {
	case *core.ColSplit:
		for _, child := range v.Children {
			if err := Walk(child, fn); err != nil {
				return err
			}
		}
	case *core.RowSplit:
		for _, child := range v.Children {
			if err := Walk(child, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// CollectLocalIDs returns the set of local ids declared in the tree.
// It fails with DuplicateLocalIDError the instant an id is seen twice,
// regardless of position.
func CollectLocalIDs(tree core.Node) (map[string]struct{}, error) {
	ids := make(map[string]struct{})
	err := Walk(tree, func(n core.Node) error {
		pane, ok := n.(*core.NewPane)
		if !ok || pane.LocalID == "" {
			return nil
		}
		if _, seen := ids[pane.LocalID]; seen {
			return &core.DuplicateLocalIDError{LocalID: pane.LocalID}
		}
		ids[pane.LocalID] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CollectNewPanes returns every NewPane in depth-first, left-to-right
// order. This order is load-bearing: it fixes the order creation calls are
// issued, hence the order persistent section ids are assigned.
func CollectNewPanes(tree core.Node) []*core.NewPane {
	var panes []*core.NewPane
	_ = Walk(tree, func(n core.Node) error {
		if pane, ok := n.(*core.NewPane); ok {
			panes = append(panes, pane)
		}
		return nil
	})
	return panes
}

// CollectExistingSectionIDs returns every persistent section id appearing
// anywhere in the tree.
func CollectExistingSectionIDs(tree core.Node) map[int]struct{} {
	ids := make(map[int]struct{})
	_ = Walk(tree, func(n core.Node) error {
		if pane, ok := n.(*core.ExistingPane); ok {
			ids[pane.Section] = struct{}{}
		}
		return nil
	})
	return ids
}

// LinkedPane pairs a link declaration with the pane carrying it. The
// carrying pane is the link target.
type LinkedPane struct {
	Pane core.Node // *core.ExistingPane or *core.NewPane
	Link *core.Link
}

// CollectLinks returns every declared link in depth-first order.
func CollectLinks(tree core.Node) []LinkedPane {
	var linked []LinkedPane
	_ = Walk(tree, func(n core.Node) error {
		switch v := n.(type) {
		case *core.ExistingPane:
			if v.Link != nil {
				linked = append(linked, LinkedPane{Pane: n, Link: v.Link})
			}
		case *core.NewPane:
			if v.Link != nil {
				linked = append(linked, LinkedPane{Pane: n, Link: v.Link})
			}
		}
		return nil
	})
	return linked
}

// Validate checks the structural invariants of a tree: split children
// counts, widget kinds, chart type presence, link shapes, and local id
// uniqueness. It issues no remote calls.
func Validate(tree core.Node) error {
	if tree == nil {
		return core.Validationf("layout tree is empty")
	}
	if err := Walk(tree, validateNode); err != nil {
		return err
	}
	_, err := CollectLocalIDs(tree)
	return err
}

func validateNode(n core.Node) error {
	switch v := n.(type) {
	case *core.ExistingPane:
		if v.Section <= 0 {
			return core.Validationf("section id must be positive, got %d", v.Section)
		}
		return validateLink(v.Link)
	case *core.NewPane:
		if v.Table == "" {
			return core.Validationf("new pane is missing a table")
		}
		if !v.Widget.Valid() {
			return core.Validationf("unknown widget type %q for table %s", v.Widget, v.Table)
		}
		if v.Widget == core.WidgetChart && v.ChartType == "" {
			return core.Validationf("chart widget for table %s requires a chart_type", v.Table)
		}
		if v.Widget != core.WidgetChart && v.ChartType != "" {
			return core.Validationf("chart_type is only valid for chart widgets (table %s)", v.Table)
		}
		return validateLink(v.Link)
	case *core.ColSplit:
		return validateChildren(v.Children)
	case *core.RowSplit:
		return validateChildren(v.Children)
	default:
		return core.Validationf("unknown layout node %T", n)
	}
}

func validateChildren(children []core.Node) error {
	if len(children) < core.MinSplitChildren || len(children) > core.MaxSplitChildren {
		return core.Validationf("split must have between %d and %d children, got %d",
			core.MinSplitChildren, core.MaxSplitChildren, len(children))
	}
	for _, child := range children {
		if child == nil {
			return core.Validationf("split contains an empty child")
		}
	}
	return nil
}

func validateLink(link *core.Link) error {
	if link == nil {
		return nil
	}
	if !link.Kind.Valid() {
		return core.Validationf("unknown link kind %q", link.Kind)
	}
	if !link.Widget.IsLocal() && link.Widget.Section <= 0 {
		return core.Validationf("%s link is missing a source widget", link.Kind)
	}
	switch link.Kind {
	case core.LinkSelect, core.LinkRefs, core.LinkCustom:
		if link.Column == "" {
			return core.Validationf("%s link requires a column", link.Kind)
		}
	case core.LinkFilter:
		if link.SourceColumn == "" || link.TargetColumn == "" {
			return core.Validationf("filter link requires source_column and target_column")
		}
	}
	return nil
}
