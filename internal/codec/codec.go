// Package codec converts between the declarative layout tree and the
// platform's native binary leaf/hsplit/vsplit tree.
package codec

import (
	"fmt"

	"github.com/gwhthompson/grist-mcp-server-sub005/internal/registry"
	"github.com/gwhthompson/grist-mcp-server-sub005/pkg/core"
)

// NativeNode is one node of the platform's layout tree. The native grammar
// is strictly binary: a leaf holds one section, a split holds exactly two
// subtrees and a ratio.
type NativeNode interface {
	nativeNode()
}

// Leaf holds one widget section.
type Leaf struct {
	Section int
}

// HSplit places First and Second side by side; Ratio is First's share of
// the width.
type HSplit struct {
	First  NativeNode
	Second NativeNode
	Ratio  float64
}

// VSplit stacks First above Second; Ratio is First's share of the height.
type VSplit struct {
	First  NativeNode
	Second NativeNode
	Ratio  float64
}

func (*Leaf) nativeNode()   {}
func (*HSplit) nativeNode() {}
func (*VSplit) nativeNode() {}

// ToNative resolves every leaf of the declarative tree to a concrete
// persistent section id and expands n-ary splits into binary chains.
//
// The expansion is a deterministic left-to-right fold: the first two
// children combine with ratio w0/(w0+w1) (0.5 for default weights), then
// each subsequent child folds against the accumulated subtree at
// accumulatedWeight/(accumulatedWeight+childWeight). This is lossy for
// weight-grouping semantics beyond two children; the declarative weights
// are not recoverable from the native form.
func ToNative(tree core.Node, reg *registry.WidgetRegistry) (NativeNode, error) {
	c := &converter{reg: reg}
	return c.convert(tree)
}

type converter struct {
	reg      *registry.WidgetRegistry
	nextPane int // index into reg.Sections(), advanced per NewPane in DFS order
}

func (c *converter) convert(n core.Node) (NativeNode, error) {
	switch v := n.(type) {
	case *core.ExistingPane:
		return &Leaf{Section: v.Section}, nil
	case *core.NewPane:
		sections := c.reg.Sections()
		if c.nextPane >= len(sections) {
			return nil, fmt.Errorf("no section registered for %s", core.NodeString(n))
		}
		leaf := &Leaf{Section: sections[c.nextPane]}
		c.nextPane++
		return leaf, nil
	case *core.ColSplit:
		return c.fold(v.Children, true)
	case *core.RowSplit:
		return c.fold(v.Children, false)
	default:
		return nil, fmt.Errorf("unknown layout node %T", n)
	}
}

func (c *converter) fold(children []core.Node, horizontal bool) (NativeNode, error) {
	if len(children) < 2 {
		return nil, fmt.Errorf("split must have at least 2 children, got %d", len(children))
	}

	acc, err := c.convert(children[0])
	if err != nil {
		return nil, err
	}
	accWeight := children[0].Weight()

	for _, child := range children[1:] {
		sub, err := c.convert(child)
		if err != nil {
			return nil, err
		}
		w := child.Weight()
		ratio := accWeight / (accWeight + w)
		if horizontal {
			acc = &HSplit{First: acc, Second: sub, Ratio: ratio}
		} else {
			acc = &VSplit{First: acc, Second: sub, Ratio: ratio}
		}
		accWeight += w
	}
	return acc, nil
}

// FromNative converts a native tree into a declarative tree of bare
// section ids. Link and weight metadata is intentionally not reconstructed
// inline; callers return it side-band as per-widget metadata.
func FromNative(native NativeNode) (core.Node, error) {
	switch v := native.(type) {
	case *Leaf:
		return &core.ExistingPane{Section: v.Section}, nil
	case *HSplit:
		first, err := FromNative(v.First)
		if err != nil {
			return nil, err
		}
		second, err := FromNative(v.Second)
		if err != nil {
			return nil, err
		}
		return &core.ColSplit{Children: []core.Node{first, second}}, nil
	case *VSplit:
		first, err := FromNative(v.First)
		if err != nil {
			return nil, err
		}
		second, err := FromNative(v.Second)
		if err != nil {
			return nil, err
		}
		return &core.RowSplit{Children: []core.Node{first, second}}, nil
	default:
		return nil, fmt.Errorf("unknown native node %T", native)
	}
}

// ExtractSectionIDs returns every section id in the native tree in
// depth-first order.
func ExtractSectionIDs(native NativeNode) []int {
	var ids []int
	walkNative(native, func(leaf *Leaf) {
		ids = append(ids, leaf.Section)
	})
	return ids
}

// CountWidgets returns the number of leaves in the native tree.
func CountWidgets(native NativeNode) int {
	count := 0
	walkNative(native, func(*Leaf) { count++ })
	return count
}

func walkNative(n NativeNode, fn func(*Leaf)) {
	switch v := n.(type) {
	case *Leaf:
		fn(v)
	case *HSplit:
		walkNative(v.First, fn)
		walkNative(v.Second, fn)
	case *VSplit:
		walkNative(v.First, fn)
		walkNative(v.Second, fn)
	}
}
