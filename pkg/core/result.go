package core

// CreatePageResult reports the outcome of creating a page from scratch.
type CreatePageResult struct {
	Success        bool   `json:"success"`
	ViewID         int    `json:"viewId"`
	PageName       string `json:"pageName"`
	WidgetsCreated int    `json:"widgetsCreated"`
	SectionIDs     []int  `json:"sectionIds"`
}

// SetLayoutResult reports the outcome of reconciling an existing page.
type SetLayoutResult struct {
	Success        bool `json:"success"`
	ViewID         int  `json:"viewId"`
	WidgetsAdded   int  `json:"widgetsAdded"`
	WidgetsRemoved int  `json:"widgetsRemoved"`
}

// WidgetSummary is the per-widget metadata returned alongside a read-back
// layout. Link and weight information intentionally lives here rather than
// inline in the tree.
type WidgetSummary struct {
	Section int        `json:"section"`
	Table   string     `json:"table"`
	Widget  WidgetKind `json:"widget"`
	Title   string     `json:"title,omitempty"`
}

// GetLayoutResult is a page's layout in declarative form: a tree of bare
// section ids plus side-band widget metadata.
type GetLayoutResult struct {
	ViewID  int             `json:"viewId"`
	Name    string          `json:"name"`
	Layout  Node            `json:"layout"`
	Widgets []WidgetSummary `json:"widgets"`
}
