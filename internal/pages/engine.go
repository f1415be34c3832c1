// Package pages orchestrates layout operations against one document: page
// creation, layout reconciliation, and layout read-back.
//
// Every operation is a bounded, strictly sequential orchestration. Each
// remote call is awaited before the next because later calls depend on
// identifiers returned by earlier ones. There is no compensation for
// partial failure: an error mid-sequence aborts the remaining calls and
// leaves the document in an intermediate state, surfaced to the caller as
// the failing pane index and table.
package pages

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gwhthompson/grist-mcp-server-sub005/internal/codec"
	"github.com/gwhthompson/grist-mcp-server-sub005/internal/layout"
	"github.com/gwhthompson/grist-mcp-server-sub005/internal/links"
	"github.com/gwhthompson/grist-mcp-server-sub005/internal/registry"
	"github.com/gwhthompson/grist-mcp-server-sub005/pkg/core"
)

// Engine composes the tree model, registry, link resolver, and codec into
// the three page operations.
type Engine struct {
	doc    core.Doc
	links  *links.Resolver
	logger *slog.Logger
}

// Config holds engine collaborators.
type Config struct {
	// Doc is the document collaborator (transport + metadata reads).
	Doc core.Doc
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// New creates an engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Doc == nil {
		return nil, fmt.Errorf("pages: Doc collaborator is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		doc:    cfg.Doc,
		links:  links.NewResolver(cfg.Doc, logger),
		logger: logger,
	}, nil
}

// createdPane tracks one widget created during the current operation.
type createdPane struct {
	pane *core.NewPane
	info core.WidgetInfo
}

// createPanes issues one creation call per new pane in depth-first order,
// registering each returned section id. viewRef may be zero, in which case
// the first creation allocates a new view container and the allocated ref
// is used for the rest.
func (e *Engine) createPanes(ctx context.Context, viewRef int, panes []*core.NewPane, reg *registry.WidgetRegistry) (int, []createdPane, error) {
	created := make([]createdPane, 0, len(panes))

	for i, pane := range panes {
		tableRef, err := e.doc.TableRef(ctx, pane.Table)
		if err != nil {
			return viewRef, created, fmt.Errorf("pane %d (table %q): %w", i, pane.Table, err)
		}

		e.logger.Debug("creating widget",
			"index", i, "table", pane.Table, "widget", pane.Widget, "view", viewRef)

		res, err := e.doc.Apply(ctx, []core.Action{
			core.CreateViewSectionAction(tableRef, viewRef, pane.Widget.SectionType()),
		})
		if err != nil {
			return viewRef, created, fmt.Errorf("pane %d (table %q): %w", i, pane.Table, err)
		}

		ret, err := res.CreateSectionRet(0)
		if err != nil {
			return viewRef, created, fmt.Errorf("pane %d (table %q): %w", i, pane.Table, err)
		}
		if ret.SectionRef == 0 {
			return viewRef, created, fmt.Errorf("pane %d (table %q): creation returned no section id", i, pane.Table)
		}
		if viewRef == 0 {
			viewRef = ret.ViewRef
		}

		if err := reg.Register(ret.SectionRef, pane.LocalID); err != nil {
			return viewRef, created, err
		}

		created = append(created, createdPane{
			pane: pane,
			info: core.WidgetInfo{
				Section:  ret.SectionRef,
				TableRef: tableRef,
				TableID:  pane.Table,
				Widget:   pane.Widget,
				Title:    pane.Title,
			},
		})
	}

	return viewRef, created, nil
}

// writeLayout converts the tree to native form and issues one
// layout-update call. Title and chart-type updates for newly created panes
// ride in the same call so the creation-call count stays one per pane.
func (e *Engine) writeLayout(ctx context.Context, viewRef int, tree core.Node, reg *registry.WidgetRegistry, viewFields map[string]any, created []createdPane) error {
	native, err := codec.ToNative(tree, reg)
	if err != nil {
		return err
	}
	spec, err := codec.Marshal(native)
	if err != nil {
		return err
	}
	viewFields["layoutSpec"] = spec

	actions := []core.Action{core.UpdateViewAction(viewRef, viewFields)}
	for _, c := range created {
		fields := map[string]any{}
		if c.pane.Title != "" {
			fields["title"] = c.pane.Title
		}
		if c.pane.ChartType != "" {
			fields["chartType"] = c.pane.ChartType
		}
		if len(fields) > 0 {
			actions = append(actions, core.UpdateSectionAction(c.info.Section, fields))
		}
	}

	e.logger.Debug("writing layout", "view", viewRef, "widgets", codec.CountWidgets(native))

	if _, err := e.doc.Apply(ctx, actions); err != nil {
		return fmt.Errorf("writing layout of view %d: %w", viewRef, err)
	}
	return nil
}

// applyLinks resolves every declared link and issues one mutation call per
// resolved link, after all widget creation is complete.
//
// Local-id references are checked against traversal order: a link may only
// point at a pane visited earlier in the depth-first walk.
func (e *Engine) applyLinks(ctx context.Context, tree core.Node, reg *registry.WidgetRegistry, created []createdPane) (int, error) {
	linked := layout.CollectLinks(tree)
	if len(linked) == 0 {
		return 0, nil
	}

	bySection := make(map[int]core.WidgetInfo, len(created))
	byPane := make(map[*core.NewPane]core.WidgetInfo, len(created))
	for _, c := range created {
		bySection[c.info.Section] = c.info
		byPane[c.pane] = c.info
	}

	localPos, panePos := walkPositions(tree)

	resolved := make([]*core.ResolvedLink, 0, len(linked))
	for _, lp := range linked {
		if lp.Link.Widget.IsLocal() {
			defPos, defined := localPos[lp.Link.Widget.LocalID]
			if !defined || defPos >= panePos[lp.Pane] {
				return 0, &core.UnresolvedLocalIDError{LocalID: lp.Link.Widget.LocalID}
			}
		}

		target, err := e.widgetInfo(ctx, lp.Pane, byPane)
		if err != nil {
			return 0, err
		}

		sourceSection, err := reg.Resolve(lp.Link.Widget)
		if err != nil {
			return 0, err
		}
		source, err := e.sectionInfo(ctx, sourceSection, bySection)
		if err != nil {
			return 0, err
		}

		rl, err := e.links.Resolve(ctx, lp.Link, source, target)
		if err != nil {
			return 0, err
		}
		resolved = append(resolved, rl)
	}

	for _, action := range links.BuildLinkActions(resolved) {
		if _, err := e.doc.Apply(ctx, []core.Action{action}); err != nil {
			return 0, fmt.Errorf("applying link: %w", err)
		}
	}
	return len(resolved), nil
}

// widgetInfo returns live metadata for a link-carrying pane.
func (e *Engine) widgetInfo(ctx context.Context, pane core.Node, byPane map[*core.NewPane]core.WidgetInfo) (*core.WidgetInfo, error) {
	switch v := pane.(type) {
	case *core.NewPane:
		info, ok := byPane[v]
		if !ok {
			return nil, fmt.Errorf("no section recorded for %s", core.NodeString(pane))
		}
		return &info, nil
	case *core.ExistingPane:
		return e.doc.Widget(ctx, v.Section)
	default:
		return nil, fmt.Errorf("node %s cannot carry a link", core.NodeString(pane))
	}
}

// sectionInfo returns metadata for a link source, preferring what this
// operation already knows about freshly created widgets.
func (e *Engine) sectionInfo(ctx context.Context, section int, bySection map[int]core.WidgetInfo) (*core.WidgetInfo, error) {
	if info, ok := bySection[section]; ok {
		return &info, nil
	}
	return e.doc.Widget(ctx, section)
}

// walkPositions assigns each tree node its depth-first visit position and
// records where each local id is defined.
func walkPositions(tree core.Node) (localPos map[string]int, panePos map[core.Node]int) {
	localPos = make(map[string]int)
	panePos = make(map[core.Node]int)
	pos := 0
	_ = layout.Walk(tree, func(n core.Node) error {
		panePos[n] = pos
		if pane, ok := n.(*core.NewPane); ok && pane.LocalID != "" {
			localPos[pane.LocalID] = pos
		}
		pos++
		return nil
	})
	return localPos, panePos
}
