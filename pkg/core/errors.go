package core

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups for tables, views, or sections that do not
// exist in the document.
var ErrNotFound = errors.New("not found")

// ValidationError reports a malformed layout tree, caught before any
// remote call is issued.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// DuplicateLocalIDError reports a local id declared or registered twice
// within one layout tree.
type DuplicateLocalIDError struct {
	LocalID string
}

func (e *DuplicateLocalIDError) Error() string {
	return fmt.Sprintf("duplicate local id %q", e.LocalID)
}

// UnresolvedLocalIDError reports a link referencing a local id that no
// earlier pane has defined.
type UnresolvedLocalIDError struct {
	LocalID string
}

func (e *UnresolvedLocalIDError) Error() string {
	return fmt.Sprintf("unresolved local id %q: a local id must be defined by an earlier pane in traversal order", e.LocalID)
}

// SectionNotFoundError reports a layout tree referencing a section that is
// neither newly created nor present on the page.
type SectionNotFoundError struct {
	Section int
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("Section %d not found", e.Section)
}

// OrphanedSectionError reports an existing widget whose fate the caller
// left unspecified: it appears in neither the layout nor the remove list.
type OrphanedSectionError struct {
	Section int
}

func (e *OrphanedSectionError) Error() string {
	return fmt.Sprintf("Section %d exists on page but is not in layout or remove", e.Section)
}

// LinkError marks the structural link validation failures.
type LinkError interface {
	error
	linkError()
}

// SelfLinkError reports a link whose source and target are the same widget.
type SelfLinkError struct {
	Section int
}

func (e *SelfLinkError) linkError() {}
func (e *SelfLinkError) Error() string {
	return fmt.Sprintf("link source and target are the same widget (section %d)", e.Section)
}

// ChartAsSourceError reports a chart widget used as a link source.
type ChartAsSourceError struct {
	Section int
}

func (e *ChartAsSourceError) linkError() {}
func (e *ChartAsSourceError) Error() string {
	return fmt.Sprintf("widget %d is a chart; charts cannot act as link sources", e.Section)
}

// TableMismatchError reports a sync link between widgets on different tables.
type TableMismatchError struct {
	SourceTable string
	TargetTable string
}

func (e *TableMismatchError) linkError() {}
func (e *TableMismatchError) Error() string {
	return fmt.Sprintf("sync link requires both widgets to show the same table (source shows %q, target shows %q)",
		e.SourceTable, e.TargetTable)
}

// NotSummaryTableError reports a group or summary link whose source widget
// does not show a summary table.
type NotSummaryTableError struct {
	Kind  LinkKind
	Table string
}

func (e *NotSummaryTableError) linkError() {}
func (e *NotSummaryTableError) Error() string {
	return fmt.Sprintf("%s link requires the source widget to show a summary table (table %q is not one)",
		e.Kind, e.Table)
}

// WrongColumnTypeError reports a column whose declared type does not match
// what the link kind requires.
type WrongColumnTypeError struct {
	Column   string
	Actual   string
	Expected string
}

func (e *WrongColumnTypeError) linkError() {}
func (e *WrongColumnTypeError) Error() string {
	return fmt.Sprintf("column %q has type %s, expected %s", e.Column, e.Actual, e.Expected)
}

// WrongReferencedTableError reports a reference column pointing at a table
// other than the one the link kind requires.
type WrongReferencedTableError struct {
	Column   string
	Actual   string
	Expected string
}

func (e *WrongReferencedTableError) linkError() {}
func (e *WrongReferencedTableError) Error() string {
	return fmt.Sprintf("column %q references table %q, expected %q", e.Column, e.Actual, e.Expected)
}

// UnknownColumnError reports a link naming a column that does not exist in
// the table it should belong to.
type UnknownColumnError struct {
	Column string
	Table  string
}

func (e *UnknownColumnError) linkError() {}
func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("column %q not found in table %q", e.Column, e.Table)
}

// RemoteError wraps a failed remote call. It is surfaced opaquely, never
// reinterpreted by the compiler.
type RemoteError struct {
	Path   string
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote call %s failed with status %d: %s", e.Path, e.Status, e.Body)
}
