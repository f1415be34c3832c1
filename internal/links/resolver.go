// Package links resolves semantic link declarations into the platform's
// canonical three-integer link representation.
package links

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gwhthompson/grist-mcp-server-sub005/pkg/core"
)

// Resolver validates link declarations against live column metadata and
// produces resolved link triples.
type Resolver struct {
	meta   core.MetadataReader
	logger *slog.Logger
}

// NewResolver creates a resolver. A nil logger discards output.
func NewResolver(meta core.MetadataReader, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{meta: meta, logger: logger}
}

// Resolve turns one declared link into the canonical triple. target is the
// widget carrying the declaration (the one whose rows are driven); source
// is the widget the declaration points at, already resolved from its
// section-id or local-id reference.
func (r *Resolver) Resolve(ctx context.Context, link *core.Link, source, target *core.WidgetInfo) (*core.ResolvedLink, error) {
	if source.Section == target.Section {
		return nil, &core.SelfLinkError{Section: source.Section}
	}
	if source.Widget == core.WidgetChart {
		return nil, &core.ChartAsSourceError{Section: source.Section}
	}

	r.logger.Debug("resolving link",
		"kind", link.Kind, "source", source.Section, "target", target.Section)

	switch link.Kind {
	case core.LinkSync:
		if source.TableRef != target.TableRef {
			return nil, &core.TableMismatchError{SourceTable: source.TableID, TargetTable: target.TableID}
		}
		return r.triple(source, target, 0, 0), nil

	case core.LinkSelect:
		col, err := r.findColumn(ctx, target, link.Column)
		if err != nil {
			return nil, err
		}
		if !col.IsRef() && !col.IsRefList() {
			return nil, &core.WrongColumnTypeError{Column: col.ColID, Actual: col.Type, Expected: "Ref or RefList"}
		}
		if col.RefTarget() != source.TableID {
			return nil, &core.WrongReferencedTableError{Column: col.ColID, Actual: col.RefTarget(), Expected: source.TableID}
		}
		return r.triple(source, target, 0, col.ColRef), nil

	case core.LinkFilter:
		srcCol, err := r.findColumn(ctx, source, link.SourceColumn)
		if err != nil {
			return nil, err
		}
		tgtCol, err := r.findColumn(ctx, target, link.TargetColumn)
		if err != nil {
			return nil, err
		}
		return r.triple(source, target, srcCol.ColRef, tgtCol.ColRef), nil

	case core.LinkGroup, core.LinkSummary:
		// Drill-down (summary) and group-by linking share the structural
		// requirement: the source widget must show a summary table.
		if !source.IsSummaryTable {
			return nil, &core.NotSummaryTableError{Kind: link.Kind, Table: source.TableID}
		}
		return r.triple(source, target, 0, 0), nil

	case core.LinkRefs:
		col, err := r.findColumn(ctx, source, link.Column)
		if err != nil {
			return nil, err
		}
		if !col.IsRefList() {
			return nil, &core.WrongColumnTypeError{Column: col.ColID, Actual: col.Type, Expected: "RefList"}
		}
		return r.triple(source, target, col.ColRef, 0), nil

	case core.LinkCustom:
		col, err := r.findColumn(ctx, source, link.Column)
		if err != nil {
			return nil, err
		}
		if !col.IsRef() {
			return nil, &core.WrongColumnTypeError{Column: col.ColID, Actual: col.Type, Expected: "Ref"}
		}
		if col.RefTarget() != target.TableID {
			return nil, &core.WrongReferencedTableError{Column: col.ColID, Actual: col.RefTarget(), Expected: target.TableID}
		}
		return r.triple(source, target, col.ColRef, 0), nil

	default:
		return nil, core.Validationf("unknown link kind %q", link.Kind)
	}
}

func (r *Resolver) triple(source, target *core.WidgetInfo, srcColRef, tgtColRef int) *core.ResolvedLink {
	return &core.ResolvedLink{
		TargetSection: target.Section,
		SourceSection: source.Section,
		SourceColRef:  srcColRef,
		TargetColRef:  tgtColRef,
	}
}

// findColumn resolves a column by name within a widget's table.
func (r *Resolver) findColumn(ctx context.Context, widget *core.WidgetInfo, name string) (core.Column, error) {
	cols, err := r.meta.Columns(ctx, widget.TableRef)
	if err != nil {
		return core.Column{}, fmt.Errorf("fetching columns of table %q: %w", widget.TableID, err)
	}
	for _, col := range cols {
		if col.ColID == name {
			return col, nil
		}
	}
	return core.Column{}, &core.UnknownColumnError{Column: name, Table: widget.TableID}
}

// BuildLinkActions produces one section-update action per resolved link.
// These are always issued after all widget-creation actions within the
// same operation.
func BuildLinkActions(resolved []*core.ResolvedLink) []core.Action {
	actions := make([]core.Action, 0, len(resolved))
	for _, link := range resolved {
		actions = append(actions, core.UpdateSectionAction(link.TargetSection, map[string]any{
			"linkSrcSectionRef": link.SourceSection,
			"linkSrcColRef":     link.SourceColRef,
			"linkTargetColRef":  link.TargetColRef,
		}))
	}
	return actions
}
