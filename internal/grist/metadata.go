package grist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gwhthompson/grist-mcp-server-sub005/pkg/core"
)

// Metadata queries over the document's system tables, all through the sql
// endpoint. These back the MetadataReader side of core.Doc.

// TableRef resolves a table id to its numeric ref.
func (c *Client) TableRef(ctx context.Context, tableID string) (int, error) {
	rows, err := c.sql(ctx, "SELECT id FROM _grist_Tables WHERE tableId = ?", []any{tableID})
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("table %q: %w", tableID, core.ErrNotFound)
	}
	return intField(rows[0], "id")
}

// Columns returns the live column metadata of a table.
func (c *Client) Columns(ctx context.Context, tableRef int) ([]core.Column, error) {
	rows, err := c.sql(ctx,
		"SELECT id, colId, type FROM _grist_Tables_column WHERE parentId = ? ORDER BY parentPos",
		[]any{tableRef})
	if err != nil {
		return nil, err
	}
	cols := make([]core.Column, 0, len(rows))
	for _, row := range rows {
		col, err := decodeColumn(row)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, nil
}

const widgetQuery = `SELECT s.id AS section, s.parentKey AS section_type, s.title AS title,
  t.id AS table_ref, t.tableId AS table_id, t.summarySourceTable AS summary_source
FROM _grist_Views_section s JOIN _grist_Tables t ON t.id = s.tableRef`

// Widget returns live metadata for one section.
func (c *Client) Widget(ctx context.Context, section int) (*core.WidgetInfo, error) {
	rows, err := c.sql(ctx, widgetQuery+" WHERE s.id = ?", []any{section})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("section %d: %w", section, core.ErrNotFound)
	}
	info, err := decodeWidget(rows[0])
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// ViewWidgets returns the current widget snapshot of one view.
func (c *Client) ViewWidgets(ctx context.Context, viewID int) (map[int]core.WidgetInfo, error) {
	rows, err := c.sql(ctx, widgetQuery+" WHERE s.parentId = ?", []any{viewID})
	if err != nil {
		return nil, err
	}
	widgets := make(map[int]core.WidgetInfo, len(rows))
	for _, row := range rows {
		info, err := decodeWidget(row)
		if err != nil {
			return nil, err
		}
		widgets[info.Section] = info
	}
	return widgets, nil
}

// ViewLayout returns the persisted layout state of one view.
func (c *Client) ViewLayout(ctx context.Context, viewID int) (*core.ViewLayout, error) {
	rows, err := c.sql(ctx,
		"SELECT id, name, layoutSpec FROM _grist_Views WHERE id = ?", []any{viewID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("view %d: %w", viewID, core.ErrNotFound)
	}
	row := rows[0]
	id, err := intField(row, "id")
	if err != nil {
		return nil, err
	}
	return &core.ViewLayout{
		ViewID:     id,
		Name:       strField(row, "name"),
		LayoutSpec: strField(row, "layoutSpec"),
	}, nil
}

func decodeColumn(row sqlRow) (core.Column, error) {
	ref, err := intField(row, "id")
	if err != nil {
		return core.Column{}, err
	}
	return core.Column{
		ColRef: ref,
		ColID:  strField(row, "colId"),
		Type:   strField(row, "type"),
	}, nil
}

func decodeWidget(row sqlRow) (core.WidgetInfo, error) {
	section, err := intField(row, "section")
	if err != nil {
		return core.WidgetInfo{}, err
	}
	tableRef, err := intField(row, "table_ref")
	if err != nil {
		return core.WidgetInfo{}, err
	}
	summarySource, _ := intField(row, "summary_source")
	return core.WidgetInfo{
		Section:        section,
		TableRef:       tableRef,
		TableID:        strField(row, "table_id"),
		Widget:         core.WidgetKindFromSectionType(strField(row, "section_type")),
		IsSummaryTable: summarySource != 0,
		Title:          strField(row, "title"),
	}, nil
}

// intField decodes a numeric column, tolerating the float form JSON
// numbers arrive in.
func intField(row sqlRow, name string) (int, error) {
	raw, ok := row[name]
	if !ok {
		return 0, fmt.Errorf("grist: response row is missing column %q", name)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("grist: column %q is not numeric: %w", name, err)
	}
	return int(f), nil
}

func strField(row sqlRow, name string) string {
	raw, ok := row[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
