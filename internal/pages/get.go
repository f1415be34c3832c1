package pages

import (
	"context"
	"fmt"
	"sort"

	"github.com/gwhthompson/grist-mcp-server-sub005/internal/codec"
	"github.com/gwhthompson/grist-mcp-server-sub005/pkg/core"
)

// GetLayout reads a page's layout back in declarative form: a tree of bare
// section ids plus side-band widget metadata. Link and weight information
// is not reconstructed inline.
//
// A view with widgets but no stored layout spec gets a synthesized
// single-leaf layout holding its lowest-numbered section.
func (e *Engine) GetLayout(ctx context.Context, viewID int) (*core.GetLayoutResult, error) {
	vl, err := e.doc.ViewLayout(ctx, viewID)
	if err != nil {
		return nil, err
	}

	widgets, err := e.doc.ViewWidgets(ctx, viewID)
	if err != nil {
		return nil, fmt.Errorf("fetching widgets of view %d: %w", viewID, err)
	}

	tree, err := readTree(vl.LayoutSpec, widgets)
	if err != nil {
		return nil, fmt.Errorf("view %d: %w", viewID, err)
	}

	summaries := make([]core.WidgetSummary, 0, len(widgets))
	for _, w := range widgets {
		summaries = append(summaries, core.WidgetSummary{
			Section: w.Section,
			Table:   w.TableID,
			Widget:  w.Widget,
			Title:   w.Title,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Section < summaries[j].Section })

	return &core.GetLayoutResult{
		ViewID:  vl.ViewID,
		Name:    vl.Name,
		Layout:  tree,
		Widgets: summaries,
	}, nil
}

func readTree(spec string, widgets map[int]core.WidgetInfo) (core.Node, error) {
	if spec == "" {
		if len(widgets) == 0 {
			return nil, nil
		}
		lowest := 0
		for id := range widgets {
			if lowest == 0 || id < lowest {
				lowest = id
			}
		}
		return &core.ExistingPane{Section: lowest}, nil
	}

	native, err := codec.Unmarshal(spec)
	if err != nil {
		return nil, err
	}
	return codec.FromNative(native)
}
