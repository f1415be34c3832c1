package layout

import (
	"bytes"
	"encoding/json"

	"github.com/gwhthompson/grist-mcp-server-sub005/pkg/core"
)

// Wire forms of a layout node:
//
//	7                                      existing pane
//	[7, 2]                                 existing pane with weight
//	{"section": 7, "link": {...}}          existing pane, full form
//	{"table": "Orders", "widget": "grid"}  new pane
//	{"cols": [...]} / {"rows": [...]}      splits, 2-10 children
//
// The sugar forms decode to ExistingPane; there is no separate node type
// for them.

// Parse decodes the declarative wire form into a validated layout tree.
// All failures are ValidationError: nothing here touches the network.
func Parse(data []byte) (core.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, core.Validationf("layout is empty")
	}
	node, err := parseNode(data)
	if err != nil {
		return nil, err
	}
	if err := Validate(node); err != nil {
		return nil, err
	}
	return node, nil
}

func parseNode(data []byte) (core.Node, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, core.Validationf("layout node is empty")
	}
	// json.Unmarshal treats null as a no-op on an int target.
	if bytes.Equal(data, []byte("null")) {
		return nil, core.Validationf("layout node must be a number, pair, or object: null")
	}

	switch data[0] {
	case '[':
		return parsePair(data)
	case '{':
		return parseObject(data)
	default:
		var section int
		if err := json.Unmarshal(data, &section); err != nil {
			return nil, core.Validationf("layout node must be a number, pair, or object: %s", data)
		}
		return &core.ExistingPane{Section: section}, nil
	}
}

// parsePair decodes the [id, weight] sugar form.
func parsePair(data []byte) (core.Node, error) {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil || len(pair) != 2 {
		return nil, core.Validationf("array node must be a two-element [section, weight] pair: %s", data)
	}
	section := int(pair[0])
	if float64(section) != pair[0] {
		return nil, core.Validationf("section id must be an integer, got %v", pair[0])
	}
	return &core.ExistingPane{Section: section, PaneWeight: pair[1]}, nil
}

func parseObject(data []byte) (core.Node, error) {
	var obj struct {
		Cols      []json.RawMessage `json:"cols"`
		Rows      []json.RawMessage `json:"rows"`
		Section   *int              `json:"section"`
		Table     string            `json:"table"`
		Widget    core.WidgetKind   `json:"widget"`
		LocalID   string            `json:"id"`
		Title     string            `json:"title"`
		ChartType string            `json:"chart_type"`
		Weight    float64           `json:"weight"`
		Link      *core.Link        `json:"link"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, core.Validationf("malformed layout node: %v", err)
	}

	switch {
	case obj.Cols != nil && obj.Rows != nil:
		return nil, core.Validationf("a node cannot declare both cols and rows")
	case obj.Cols != nil:
		children, err := parseChildren(obj.Cols)
		if err != nil {
			return nil, err
		}
		return &core.ColSplit{Children: children, SplitWeight: obj.Weight}, nil
	case obj.Rows != nil:
		children, err := parseChildren(obj.Rows)
		if err != nil {
			return nil, err
		}
		return &core.RowSplit{Children: children, SplitWeight: obj.Weight}, nil
	case obj.Section != nil:
		if obj.Table != "" {
			return nil, core.Validationf("a node cannot declare both section and table")
		}
		return &core.ExistingPane{Section: *obj.Section, PaneWeight: obj.Weight, Link: obj.Link}, nil
	case obj.Table != "":
		if obj.Widget == "" {
			obj.Widget = core.WidgetGrid
		}
		return &core.NewPane{
			Table:      obj.Table,
			Widget:     obj.Widget,
			LocalID:    obj.LocalID,
			Title:      obj.Title,
			ChartType:  obj.ChartType,
			PaneWeight: obj.Weight,
			Link:       obj.Link,
		}, nil
	default:
		return nil, core.Validationf("layout node must declare cols, rows, section, or table: %s", data)
	}
}

func parseChildren(raw []json.RawMessage) ([]core.Node, error) {
	children := make([]core.Node, 0, len(raw))
	for _, r := range raw {
		child, err := parseNode(r)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}
