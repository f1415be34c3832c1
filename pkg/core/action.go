package core

import (
	"context"
	"encoding/json"
	"fmt"
)

// Action is one ordered user action in an apply batch, encoded as a
// positional JSON array the platform understands.
type Action []any

// Metadata table names used by the compiler's mutations and queries.
const (
	TableViews        = "_grist_Views"
	TableViewSections = "_grist_Views_section"
	TableTables       = "_grist_Tables"
	TableColumns      = "_grist_Tables_column"
)

// CreateViewSectionAction allocates a new widget section. A zero viewRef
// allocates a new view container as well.
func CreateViewSectionAction(tableRef, viewRef int, sectionType string) Action {
	return Action{"CreateViewSection", tableRef, viewRef, sectionType, nil, nil}
}

// RemoveViewSectionAction deletes a widget section.
func RemoveViewSectionAction(section int) Action {
	return Action{"RemoveViewSection", section}
}

// UpdateViewAction updates fields of a view record (name, layoutSpec).
func UpdateViewAction(viewRef int, fields map[string]any) Action {
	return Action{"UpdateRecord", TableViews, viewRef, fields}
}

// UpdateSectionAction updates fields of a section record (title, chart
// type, link triple).
func UpdateSectionAction(section int, fields map[string]any) Action {
	return Action{"UpdateRecord", TableViewSections, section, fields}
}

// ApplyResult is the platform's response to one apply call: one return
// value per action, in order.
type ApplyResult struct {
	ActionNum int               `json:"actionNum"`
	RetValues []json.RawMessage `json:"retValues"`
}

// CreateSectionResult is the return value of a CreateViewSection action.
type CreateSectionResult struct {
	ViewRef    int `json:"viewRef"`
	SectionRef int `json:"sectionRef"`
}

// CreateSectionRet decodes the return value at index i of an apply result
// as a CreateViewSection outcome.
func (r *ApplyResult) CreateSectionRet(i int) (*CreateSectionResult, error) {
	if i >= len(r.RetValues) {
		return nil, fmt.Errorf("apply returned %d values, want index %d", len(r.RetValues), i)
	}
	var out CreateSectionResult
	if err := json.Unmarshal(r.RetValues[i], &out); err != nil {
		return nil, fmt.Errorf("decoding CreateViewSection return value: %w", err)
	}
	return &out, nil
}

// DocWriter issues ordered metadata mutations against one document.
// Every call is awaited before the next; retries and rate limiting are the
// implementation's concern.
type DocWriter interface {
	Apply(ctx context.Context, actions []Action) (*ApplyResult, error)
}

// MetadataReader answers metadata queries against one document.
type MetadataReader interface {
	// TableRef resolves a table id to its numeric ref. Fails with
	// ErrNotFound for unknown tables.
	TableRef(ctx context.Context, tableID string) (int, error)

	// Columns returns the live column metadata of a table.
	Columns(ctx context.Context, tableRef int) ([]Column, error)

	// Widget returns live metadata for one section. Fails with ErrNotFound.
	Widget(ctx context.Context, section int) (*WidgetInfo, error)

	// ViewWidgets returns the current widget snapshot of one view,
	// keyed by section id.
	ViewWidgets(ctx context.Context, viewID int) (map[int]WidgetInfo, error)

	// ViewLayout returns the persisted layout state of one view. Fails
	// with ErrNotFound when the view does not exist.
	ViewLayout(ctx context.Context, viewID int) (*ViewLayout, error)
}

// Doc is the full document collaborator consumed by the executor.
type Doc interface {
	DocWriter
	MetadataReader
}

// ViewLayout is the persisted layout state of one view.
type ViewLayout struct {
	ViewID int
	Name   string
	// LayoutSpec is the raw native tree JSON; empty when the view has
	// never had a layout written.
	LayoutSpec string
}
