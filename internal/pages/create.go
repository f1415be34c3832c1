package pages

import (
	"context"

	"github.com/gwhthompson/grist-mcp-server-sub005/internal/layout"
	"github.com/gwhthompson/grist-mcp-server-sub005/internal/registry"
	"github.com/gwhthompson/grist-mcp-server-sub005/pkg/core"
)

// CreatePage creates a new page holding the widgets the tree declares.
//
// The tree must contain at least one new pane; existing-pane references
// may appear only through links. Widgets are created in depth-first order,
// then one layout-update call is issued, then one call per declared link.
func (e *Engine) CreatePage(ctx context.Context, pageName string, tree core.Node) (*core.CreatePageResult, error) {
	if pageName == "" {
		return nil, core.Validationf("page name is required")
	}
	if err := layout.Validate(tree); err != nil {
		return nil, err
	}

	panes := layout.CollectNewPanes(tree)
	if len(panes) == 0 {
		return nil, core.Validationf("create_page requires at least one new widget")
	}

	e.logger.Info("creating page", "name", pageName, "widgets", len(panes))

	reg := registry.New()
	viewRef, created, err := e.createPanes(ctx, 0, panes, reg)
	if err != nil {
		return nil, err
	}

	if err := e.writeLayout(ctx, viewRef, tree, reg, map[string]any{"name": pageName}, created); err != nil {
		return nil, err
	}

	if _, err := e.applyLinks(ctx, tree, reg, created); err != nil {
		return nil, err
	}

	e.logger.Info("page created", "name", pageName, "view", viewRef)

	return &core.CreatePageResult{
		Success:        true,
		ViewID:         viewRef,
		PageName:       pageName,
		WidgetsCreated: len(panes),
		SectionIDs:     reg.Sections(),
	}, nil
}
