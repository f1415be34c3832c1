package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/gwhthompson/grist-mcp-server-sub005/pkg/core"
)

// renderJSON writes v as indented JSON to w.
func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderCreateResult(w io.Writer, res *core.CreatePageResult, format string) error {
	if format == "json" {
		return renderJSON(w, res)
	}
	fmt.Fprintf(w, "Created page %q (view %d) with %d widget(s)\n",
		res.PageName, res.ViewID, res.WidgetsCreated)
	fmt.Fprintf(w, "Sections: %v\n", res.SectionIDs)
	return nil
}

func renderSetResult(w io.Writer, res *core.SetLayoutResult, format string) error {
	if format == "json" {
		return renderJSON(w, res)
	}
	fmt.Fprintf(w, "Updated view %d: %d widget(s) added, %d removed\n",
		res.ViewID, res.WidgetsAdded, res.WidgetsRemoved)
	return nil
}

func renderGetResult(w io.Writer, res *core.GetLayoutResult, format string) error {
	if format == "json" {
		return renderJSON(w, res)
	}

	fmt.Fprintf(w, "View %d: %s\n", res.ViewID, res.Name)
	if res.Layout != nil {
		spec, err := json.Marshal(res.Layout)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Layout: %s\n", spec)
	} else {
		fmt.Fprintln(w, "Layout: (empty)")
	}

	if len(res.Widgets) == 0 {
		return nil
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Section", "Table", "Widget", "Title"})
	for _, wi := range res.Widgets {
		t.AppendRow(table.Row{wi.Section, wi.Table, string(wi.Widget), wi.Title})
	}
	t.Render()
	return nil
}
