package links

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwhthompson/grist-mcp-server-sub005/pkg/core"
)

// fakeMeta serves canned column metadata keyed by table ref.
type fakeMeta struct {
	columns map[int][]core.Column
}

func (f *fakeMeta) TableRef(_ context.Context, tableID string) (int, error) {
	return 0, core.ErrNotFound
}

func (f *fakeMeta) Columns(_ context.Context, tableRef int) ([]core.Column, error) {
	return f.columns[tableRef], nil
}

func (f *fakeMeta) Widget(_ context.Context, section int) (*core.WidgetInfo, error) {
	return nil, core.ErrNotFound
}

func (f *fakeMeta) ViewWidgets(_ context.Context, viewID int) (map[int]core.WidgetInfo, error) {
	return nil, nil
}

func (f *fakeMeta) ViewLayout(_ context.Context, viewID int) (*core.ViewLayout, error) {
	return nil, core.ErrNotFound
}

// Tables: Customers (ref 1), Orders (ref 2, with a Ref:Customers column and
// a RefList:Products column), Products (ref 3).
func newFakeMeta() *fakeMeta {
	return &fakeMeta{columns: map[int][]core.Column{
		1: {
			{ColRef: 10, ColID: "Name", Type: "Text"},
			{ColRef: 11, ColID: "Region", Type: "Text"},
		},
		2: {
			{ColRef: 20, ColID: "Customer", Type: "Ref:Customers"},
			{ColRef: 21, ColID: "Products", Type: "RefList:Products"},
			{ColRef: 22, ColID: "Status", Type: "Text"},
		},
		3: {
			{ColRef: 30, ColID: "Category", Type: "Text"},
		},
	}}
}

func widget(section, tableRef int, tableID string, kind core.WidgetKind, summary bool) *core.WidgetInfo {
	return &core.WidgetInfo{
		Section:        section,
		TableRef:       tableRef,
		TableID:        tableID,
		Widget:         kind,
		IsSummaryTable: summary,
	}
}

func TestResolveSync(t *testing.T) {
	r := NewResolver(newFakeMeta(), nil)
	source := widget(1, 2, "Orders", core.WidgetGrid, false)
	target := widget(2, 2, "Orders", core.WidgetCard, false)

	rl, err := r.Resolve(context.Background(), &core.Link{Kind: core.LinkSync}, source, target)
	require.NoError(t, err)
	assert.Equal(t, &core.ResolvedLink{TargetSection: 2, SourceSection: 1}, rl)
}

func TestResolveSyncTableMismatch(t *testing.T) {
	r := NewResolver(newFakeMeta(), nil)
	source := widget(1, 1, "Customers", core.WidgetGrid, false)
	target := widget(2, 2, "Orders", core.WidgetGrid, false)

	_, err := r.Resolve(context.Background(), &core.Link{Kind: core.LinkSync}, source, target)
	var mismatch *core.TableMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Contains(t, err.Error(), "requires both widgets to show the same table")
	assert.Contains(t, err.Error(), "Customers")
	assert.Contains(t, err.Error(), "Orders")
}

func TestResolveSelect(t *testing.T) {
	r := NewResolver(newFakeMeta(), nil)
	source := widget(1, 1, "Customers", core.WidgetGrid, false)
	target := widget(2, 2, "Orders", core.WidgetGrid, false)
	link := &core.Link{Kind: core.LinkSelect, Column: "Customer"}

	rl, err := r.Resolve(context.Background(), link, source, target)
	require.NoError(t, err)
	assert.Equal(t, &core.ResolvedLink{TargetSection: 2, SourceSection: 1, TargetColRef: 20}, rl)
}

func TestResolveSelectWrongColumnType(t *testing.T) {
	r := NewResolver(newFakeMeta(), nil)
	source := widget(1, 1, "Customers", core.WidgetGrid, false)
	target := widget(2, 2, "Orders", core.WidgetGrid, false)
	link := &core.Link{Kind: core.LinkSelect, Column: "Status"}

	_, err := r.Resolve(context.Background(), link, source, target)
	var wrongType *core.WrongColumnTypeError
	require.ErrorAs(t, err, &wrongType)
	assert.Equal(t, `column "Status" has type Text, expected Ref or RefList`, err.Error())
}

func TestResolveSelectWrongReferencedTable(t *testing.T) {
	r := NewResolver(newFakeMeta(), nil)
	source := widget(1, 3, "Products", core.WidgetGrid, false)
	target := widget(2, 2, "Orders", core.WidgetGrid, false)
	link := &core.Link{Kind: core.LinkSelect, Column: "Customer"}

	_, err := r.Resolve(context.Background(), link, source, target)
	var wrongTable *core.WrongReferencedTableError
	require.ErrorAs(t, err, &wrongTable)
	assert.Contains(t, err.Error(), `references table "Customers", expected "Products"`)
}

func TestResolveFilter(t *testing.T) {
	r := NewResolver(newFakeMeta(), nil)
	source := widget(1, 1, "Customers", core.WidgetGrid, false)
	target := widget(2, 2, "Orders", core.WidgetGrid, false)
	link := &core.Link{Kind: core.LinkFilter, SourceColumn: "Region", TargetColumn: "Status"}

	rl, err := r.Resolve(context.Background(), link, source, target)
	require.NoError(t, err)
	assert.Equal(t, &core.ResolvedLink{
		TargetSection: 2, SourceSection: 1, SourceColRef: 11, TargetColRef: 22,
	}, rl)
}

func TestResolveGroupAndSummary(t *testing.T) {
	r := NewResolver(newFakeMeta(), nil)

	for _, kind := range []core.LinkKind{core.LinkGroup, core.LinkSummary} {
		t.Run(string(kind), func(t *testing.T) {
			source := widget(1, 1, "Customers_summary", core.WidgetGrid, true)
			target := widget(2, 1, "Customers", core.WidgetGrid, false)

			rl, err := r.Resolve(context.Background(), &core.Link{Kind: kind}, source, target)
			require.NoError(t, err)
			assert.Equal(t, &core.ResolvedLink{TargetSection: 2, SourceSection: 1}, rl)
		})
	}
}

func TestResolveGroupNotSummary(t *testing.T) {
	r := NewResolver(newFakeMeta(), nil)
	source := widget(1, 1, "Customers", core.WidgetGrid, false)
	target := widget(2, 1, "Customers", core.WidgetGrid, false)

	_, err := r.Resolve(context.Background(), &core.Link{Kind: core.LinkGroup}, source, target)
	var notSummary *core.NotSummaryTableError
	require.ErrorAs(t, err, &notSummary)
	assert.Contains(t, err.Error(), "summary table")
}

func TestResolveRefs(t *testing.T) {
	r := NewResolver(newFakeMeta(), nil)
	source := widget(1, 2, "Orders", core.WidgetGrid, false)
	target := widget(2, 3, "Products", core.WidgetGrid, false)
	link := &core.Link{Kind: core.LinkRefs, Column: "Products"}

	rl, err := r.Resolve(context.Background(), link, source, target)
	require.NoError(t, err)
	assert.Equal(t, &core.ResolvedLink{TargetSection: 2, SourceSection: 1, SourceColRef: 21}, rl)
}

// A refs link over a plain Ref column (not RefList) must name the expected type.
func TestResolveRefsRequiresRefList(t *testing.T) {
	r := NewResolver(newFakeMeta(), nil)
	source := widget(1, 2, "Orders", core.WidgetGrid, false)
	target := widget(2, 1, "Customers", core.WidgetGrid, false)
	link := &core.Link{Kind: core.LinkRefs, Column: "Customer"}

	_, err := r.Resolve(context.Background(), link, source, target)
	var wrongType *core.WrongColumnTypeError
	require.ErrorAs(t, err, &wrongType)
	assert.Equal(t, "RefList", wrongType.Expected)
}

func TestResolveCustom(t *testing.T) {
	r := NewResolver(newFakeMeta(), nil)
	source := widget(1, 2, "Orders", core.WidgetGrid, false)
	target := widget(2, 1, "Customers", core.WidgetGrid, false)
	link := &core.Link{Kind: core.LinkCustom, Column: "Customer"}

	rl, err := r.Resolve(context.Background(), link, source, target)
	require.NoError(t, err)
	assert.Equal(t, &core.ResolvedLink{TargetSection: 2, SourceSection: 1, SourceColRef: 20}, rl)
}

func TestResolveCustomWrongTargetTable(t *testing.T) {
	r := NewResolver(newFakeMeta(), nil)
	source := widget(1, 2, "Orders", core.WidgetGrid, false)
	target := widget(2, 3, "Products", core.WidgetGrid, false)
	link := &core.Link{Kind: core.LinkCustom, Column: "Customer"}

	_, err := r.Resolve(context.Background(), link, source, target)
	var wrongTable *core.WrongReferencedTableError
	require.ErrorAs(t, err, &wrongTable)
}

func TestResolveSelfLink(t *testing.T) {
	r := NewResolver(newFakeMeta(), nil)
	w := widget(7, 2, "Orders", core.WidgetGrid, false)

	_, err := r.Resolve(context.Background(), &core.Link{Kind: core.LinkSync}, w, w)
	var selfLink *core.SelfLinkError
	require.ErrorAs(t, err, &selfLink)
	assert.Equal(t, 7, selfLink.Section)
}

func TestResolveChartAsSource(t *testing.T) {
	r := NewResolver(newFakeMeta(), nil)
	source := widget(1, 2, "Orders", core.WidgetChart, false)
	target := widget(2, 2, "Orders", core.WidgetGrid, false)

	_, err := r.Resolve(context.Background(), &core.Link{Kind: core.LinkSync}, source, target)
	var chartErr *core.ChartAsSourceError
	require.ErrorAs(t, err, &chartErr)
	assert.Contains(t, err.Error(), "charts cannot act as link sources")
}

func TestResolveUnknownColumn(t *testing.T) {
	r := NewResolver(newFakeMeta(), nil)
	source := widget(1, 1, "Customers", core.WidgetGrid, false)
	target := widget(2, 2, "Orders", core.WidgetGrid, false)
	link := &core.Link{Kind: core.LinkSelect, Column: "Ghost"}

	_, err := r.Resolve(context.Background(), link, source, target)
	var unknown *core.UnknownColumnError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, `column "Ghost" not found in table "Orders"`, err.Error())
}

func TestBuildLinkActions(t *testing.T) {
	resolved := []*core.ResolvedLink{
		{TargetSection: 9, SourceSection: 4, SourceColRef: 0, TargetColRef: 20},
	}
	actions := BuildLinkActions(resolved)
	require.Len(t, actions, 1)
	assert.Equal(t, core.Action{"UpdateRecord", core.TableViewSections, 9, map[string]any{
		"linkSrcSectionRef": 4,
		"linkSrcColRef":     0,
		"linkTargetColRef":  20,
	}}, actions[0])
}
