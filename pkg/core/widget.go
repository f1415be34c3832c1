package core

import "strings"

// WidgetInfo is live metadata for one widget on a page.
type WidgetInfo struct {
	Section        int
	TableRef       int
	TableID        string
	Widget         WidgetKind
	IsSummaryTable bool
	Title          string
}

// Column is live metadata for one column of a table.
type Column struct {
	ColRef int
	ColID  string
	Type   string // e.g. "Text", "Ref:Products", "RefList:Orders"
}

// IsRef reports whether the column is a single-row reference.
func (c Column) IsRef() bool { return c.Type == "Ref" || strings.HasPrefix(c.Type, "Ref:") }

// IsRefList reports whether the column is a reference list.
func (c Column) IsRefList() bool {
	return c.Type == "RefList" || strings.HasPrefix(c.Type, "RefList:")
}

// RefTarget returns the table id a Ref or RefList column points at,
// or "" when the column is not a reference type.
func (c Column) RefTarget() string {
	if _, target, ok := strings.Cut(c.Type, ":"); ok && (c.IsRef() || c.IsRefList()) {
		return target
	}
	return ""
}
