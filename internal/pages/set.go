package pages

import (
	"context"
	"fmt"
	"sort"

	"github.com/gwhthompson/grist-mcp-server-sub005/internal/layout"
	"github.com/gwhthompson/grist-mcp-server-sub005/internal/registry"
	"github.com/gwhthompson/grist-mcp-server-sub005/pkg/core"
)

// SetLayout reconciles an existing page against a desired tree. Every
// widget currently on the page must land in exactly one of the tree or the
// remove list; anything else fails before any mutation is issued.
//
// Stages: validate, remove, create, write layout, apply links.
func (e *Engine) SetLayout(ctx context.Context, viewID int, tree core.Node, removeIDs []int) (*core.SetLayoutResult, error) {
	if err := layout.Validate(tree); err != nil {
		return nil, err
	}

	existing, err := e.doc.ViewWidgets(ctx, viewID)
	if err != nil {
		return nil, fmt.Errorf("fetching widgets of view %d: %w", viewID, err)
	}

	referenced := layout.CollectExistingSectionIDs(tree)
	removeSet := make(map[int]struct{}, len(removeIDs))
	for _, id := range removeIDs {
		removeSet[id] = struct{}{}
	}

	if err := checkSections(referenced, removeSet, existing); err != nil {
		return nil, err
	}

	e.logger.Info("reconciling layout",
		"view", viewID, "referenced", len(referenced), "remove", len(removeIDs), "existing", len(existing))

	if len(removeIDs) > 0 {
		actions := make([]core.Action, 0, len(removeIDs))
		for _, id := range removeIDs {
			actions = append(actions, core.RemoveViewSectionAction(id))
		}
		if _, err := e.doc.Apply(ctx, actions); err != nil {
			return nil, fmt.Errorf("removing widgets from view %d: %w", viewID, err)
		}
	}

	panes := layout.CollectNewPanes(tree)
	reg := registry.New()
	_, created, err := e.createPanes(ctx, viewID, panes, reg)
	if err != nil {
		return nil, err
	}

	if err := e.writeLayout(ctx, viewID, tree, reg, map[string]any{}, created); err != nil {
		return nil, err
	}

	if _, err := e.applyLinks(ctx, tree, reg, created); err != nil {
		return nil, err
	}

	e.logger.Info("layout reconciled", "view", viewID, "added", len(panes), "removed", len(removeIDs))

	return &core.SetLayoutResult{
		Success:        true,
		ViewID:         viewID,
		WidgetsAdded:   len(panes),
		WidgetsRemoved: len(removeIDs),
	}, nil
}

// checkSections enforces the no-orphans invariant: every referenced id
// must exist on the page, every removed id must exist on the page, and
// every existing id must be referenced or removed, never both.
func checkSections(referenced, removeSet map[int]struct{}, existing map[int]core.WidgetInfo) error {
	for _, id := range sortedKeys(referenced) {
		if _, removing := removeSet[id]; removing {
			return core.Validationf("Section %d is in both layout and remove", id)
		}
		if _, ok := existing[id]; !ok {
			return &core.SectionNotFoundError{Section: id}
		}
	}
	for _, id := range sortedKeys(removeSet) {
		if _, ok := existing[id]; !ok {
			return &core.SectionNotFoundError{Section: id}
		}
	}
	existingIDs := make([]int, 0, len(existing))
	for id := range existing {
		existingIDs = append(existingIDs, id)
	}
	sort.Ints(existingIDs)
	for _, id := range existingIDs {
		_, inLayout := referenced[id]
		_, inRemove := removeSet[id]
		if !inLayout && !inRemove {
			return &core.OrphanedSectionError{Section: id}
		}
	}
	return nil
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
