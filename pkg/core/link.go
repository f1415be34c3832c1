package core

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// LinkKind identifies one of the seven semantic link kinds.
type LinkKind string

// Link kind constants.
const (
	LinkSync    LinkKind = "sync"    // cursors track the same table row
	LinkSelect  LinkKind = "select"  // target rows selected by a Ref/RefList column
	LinkFilter  LinkKind = "filter"  // target rows filtered by matching column values
	LinkGroup   LinkKind = "group"   // summary group drives detail rows
	LinkSummary LinkKind = "summary" // summary drill-down into source rows
	LinkRefs    LinkKind = "refs"    // target shows rows referenced by a RefList column
	LinkCustom  LinkKind = "custom"  // source Ref column drives the target cursor
)

// Valid reports whether k is one of the seven link kinds.
func (k LinkKind) Valid() bool {
	switch k {
	case LinkSync, LinkSelect, LinkFilter, LinkGroup, LinkSummary, LinkRefs, LinkCustom:
		return true
	}
	return false
}

// WidgetRef identifies a link's source widget: either a persistent section
// id or a request-scoped local id, never both.
type WidgetRef struct {
	Section int
	LocalID string
}

// IsLocal reports whether the reference is a request-scoped local id.
func (r WidgetRef) IsLocal() bool { return r.LocalID != "" }

func (r WidgetRef) String() string {
	if r.IsLocal() {
		return r.LocalID
	}
	return strconv.Itoa(r.Section)
}

// MarshalJSON renders a number for persistent refs, a string for local refs.
func (r WidgetRef) MarshalJSON() ([]byte, error) {
	if r.IsLocal() {
		return json.Marshal(r.LocalID)
	}
	return json.Marshal(r.Section)
}

// UnmarshalJSON accepts a number (persistent section id) or a string
// (request-scoped local id).
func (r *WidgetRef) UnmarshalJSON(data []byte) error {
	var section int
	if err := json.Unmarshal(data, &section); err == nil {
		*r = WidgetRef{Section: section}
		return nil
	}
	var local string
	if err := json.Unmarshal(data, &local); err == nil {
		if local == "" {
			return fmt.Errorf("widget reference must not be empty")
		}
		*r = WidgetRef{LocalID: local}
		return nil
	}
	return fmt.Errorf("widget reference must be a section id or a local id string")
}

// Link declares that the carrying pane's displayed rows are driven by
// another widget. The carrying pane is the link target; Widget names the
// source.
type Link struct {
	Kind   LinkKind  `json:"kind"`
	Widget WidgetRef `json:"widget"`

	// Column names the target column for select links and the source
	// column for refs and custom links.
	Column string `json:"column,omitempty"`

	// SourceColumn and TargetColumn are used by filter links only.
	SourceColumn string `json:"source_column,omitempty"`
	TargetColumn string `json:"target_column,omitempty"`
}

// ResolvedLink is the platform's canonical three-integer link
// representation, applied to the target section. A zero column ref means
// whole-row linking.
type ResolvedLink struct {
	TargetSection int
	SourceSection int
	SourceColRef  int
	TargetColRef  int
}
