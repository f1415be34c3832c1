package core

import (
	"encoding/json"
	"fmt"
)

// WidgetKind is the caller-facing widget type of a pane.
type WidgetKind string

// Widget kind constants.
const (
	WidgetGrid     WidgetKind = "grid"
	WidgetCard     WidgetKind = "card"
	WidgetCardList WidgetKind = "card_list"
	WidgetChart    WidgetKind = "chart"
	WidgetForm     WidgetKind = "form"
	WidgetCustom   WidgetKind = "custom"
)

// sectionTypes maps widget kinds to the platform's section types.
var sectionTypes = map[WidgetKind]string{
	WidgetGrid:     "record",
	WidgetCard:     "single",
	WidgetCardList: "detail",
	WidgetChart:    "chart",
	WidgetForm:     "form",
	WidgetCustom:   "custom",
}

// Valid reports whether w is one of the known widget kinds.
func (w WidgetKind) Valid() bool {
	_, ok := sectionTypes[w]
	return ok
}

// SectionType returns the platform's section type string for w.
func (w WidgetKind) SectionType() string {
	return sectionTypes[w]
}

// WidgetKindFromSectionType maps a platform section type back to the
// caller-facing widget kind. Unknown types map to WidgetCustom.
func WidgetKindFromSectionType(sectionType string) WidgetKind {
	for kind, st := range sectionTypes {
		if st == sectionType {
			return kind
		}
	}
	return WidgetCustom
}

// DefaultWeight is the layout weight used when a node does not declare one.
const DefaultWeight = 1.0

// Split children count bounds.
const (
	MinSplitChildren = 2
	MaxSplitChildren = 10
)

// Node is one node of the declarative layout tree. The grammar is a closed
// union: ExistingPane, NewPane, ColSplit, RowSplit. A bare number and a
// two-element [id, weight] array in the wire form are sugar for ExistingPane.
type Node interface {
	layoutNode()
	// Weight returns the node's declared layout weight, or DefaultWeight
	// when the node does not declare one.
	Weight() float64
}

// ExistingPane places a widget that already exists on the page.
type ExistingPane struct {
	Section    int
	PaneWeight float64 // 0 means not declared
	Link       *Link
}

// NewPane declares a widget to be created during the operation.
type NewPane struct {
	Table      string
	Widget     WidgetKind
	LocalID    string // optional request-scoped identifier
	Title      string
	ChartType  string // required when Widget is WidgetChart
	PaneWeight float64
	Link       *Link
}

// ColSplit arranges children side by side, left to right.
type ColSplit struct {
	Children    []Node // MinSplitChildren to MaxSplitChildren entries
	SplitWeight float64
}

// RowSplit stacks children top to bottom.
type RowSplit struct {
	Children    []Node
	SplitWeight float64
}

func (*ExistingPane) layoutNode() {}
func (*NewPane) layoutNode()      {}
func (*ColSplit) layoutNode()     {}
func (*RowSplit) layoutNode()     {}

func (p *ExistingPane) Weight() float64 { return weightOrDefault(p.PaneWeight) }
func (p *NewPane) Weight() float64      { return weightOrDefault(p.PaneWeight) }
func (s *ColSplit) Weight() float64     { return weightOrDefault(s.SplitWeight) }
func (s *RowSplit) Weight() float64     { return weightOrDefault(s.SplitWeight) }

func weightOrDefault(w float64) float64 {
	if w <= 0 {
		return DefaultWeight
	}
	return w
}

// MarshalJSON renders the most compact sugar form: a bare number when only
// the section is set, an [id, weight] pair when weighted, otherwise the
// full object form.
func (p *ExistingPane) MarshalJSON() ([]byte, error) {
	if p.Link == nil {
		if p.PaneWeight == 0 {
			return json.Marshal(p.Section)
		}
		return json.Marshal([2]float64{float64(p.Section), p.PaneWeight})
	}
	return json.Marshal(struct {
		Section int     `json:"section"`
		Weight  float64 `json:"weight,omitempty"`
		Link    *Link   `json:"link,omitempty"`
	}{p.Section, p.PaneWeight, p.Link})
}

// MarshalJSON renders the wire object form of a new pane.
func (p *NewPane) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Table     string     `json:"table"`
		Widget    WidgetKind `json:"widget"`
		LocalID   string     `json:"id,omitempty"`
		Title     string     `json:"title,omitempty"`
		ChartType string     `json:"chart_type,omitempty"`
		Weight    float64    `json:"weight,omitempty"`
		Link      *Link      `json:"link,omitempty"`
	}{p.Table, p.Widget, p.LocalID, p.Title, p.ChartType, p.PaneWeight, p.Link})
}

// MarshalJSON renders {"cols": [...]}.
func (s *ColSplit) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Cols   []Node  `json:"cols"`
		Weight float64 `json:"weight,omitempty"`
	}{s.Children, s.SplitWeight})
}

// MarshalJSON renders {"rows": [...]}.
func (s *RowSplit) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Rows   []Node  `json:"rows"`
		Weight float64 `json:"weight,omitempty"`
	}{s.Children, s.SplitWeight})
}

// NodeString returns a short human-readable description of a node,
// used in error and log messages.
func NodeString(n Node) string {
	switch v := n.(type) {
	case *ExistingPane:
		return fmt.Sprintf("section %d", v.Section)
	case *NewPane:
		if v.LocalID != "" {
			return fmt.Sprintf("new %s pane %q (table %s)", v.Widget, v.LocalID, v.Table)
		}
		return fmt.Sprintf("new %s pane (table %s)", v.Widget, v.Table)
	case *ColSplit:
		return fmt.Sprintf("cols[%d]", len(v.Children))
	case *RowSplit:
		return fmt.Sprintf("rows[%d]", len(v.Children))
	default:
		return fmt.Sprintf("%T", n)
	}
}
