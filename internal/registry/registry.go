// Package registry scopes request-local widget identifiers to one build
// operation and resolves widget references to persistent section ids.
package registry

import (
	"github.com/gwhthompson/grist-mcp-server-sub005/pkg/core"
)

// WidgetRegistry is a write-once map from local id to newly assigned
// section id. It is created fresh for each create/reconcile call and never
// persisted; no mutex is needed because the registry is local to one
// strictly sequential invocation.
type WidgetRegistry struct {
	byLocalID map[string]int

	// sections holds every registered section id in creation order, which
	// matches the depth-first traversal order of the tree's new panes.
	sections []int
}

// New creates an empty registry.
func New() *WidgetRegistry {
	return &WidgetRegistry{byLocalID: make(map[string]int)}
}

// Register records a newly created section. localID may be empty for
// anonymous panes. Registering the same local id twice fails with
// DuplicateLocalIDError.
func (r *WidgetRegistry) Register(section int, localID string) error {
	if localID != "" {
		if _, exists := r.byLocalID[localID]; exists {
			return &core.DuplicateLocalIDError{LocalID: localID}
		}
		r.byLocalID[localID] = section
	}
	r.sections = append(r.sections, section)
	return nil
}

// Resolve maps a widget reference to a persistent section id. Numeric
// references pass through unchanged; local ids must have been registered
// by an earlier pane in traversal order, otherwise the result is
// UnresolvedLocalIDError.
func (r *WidgetRegistry) Resolve(ref core.WidgetRef) (int, error) {
	if !ref.IsLocal() {
		return ref.Section, nil
	}
	section, ok := r.byLocalID[ref.LocalID]
	if !ok {
		return 0, &core.UnresolvedLocalIDError{LocalID: ref.LocalID}
	}
	return section, nil
}

// Sections returns every registered section id in creation order.
func (r *WidgetRegistry) Sections() []int {
	return r.sections
}

// Count returns the number of registered sections.
func (r *WidgetRegistry) Count() int {
	return len(r.sections)
}
