package commands

import (
	"github.com/spf13/cobra"

	"github.com/gwhthompson/grist-mcp-server-sub005/internal/layout"
)

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var layoutPath string

	cmd := &cobra.Command{
		Use:   "create <page-name>",
		Short: "Create a new page from a declarative layout tree",
		Long: `Create a new page in the document from a declarative layout tree.

The tree is JSON: leaves describe new widgets ({"table": ..., "widget": ...})
and splits nest them ({"cols": [...]} or {"rows": [...]}). Widgets may carry
links to other widgets in the same tree.`,
		Example: `  # Single grid widget over the Orders table
  echo '{"table": "Orders"}' | gristpages create "Orders"

  # Master-detail from a layout file
  gristpages create "Customers" --layout customers.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readLayout(cmd, layoutPath)
			if err != nil {
				return err
			}
			tree, err := layout.Parse(data)
			if err != nil {
				return err
			}

			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			res, err := cmdCtx.Engine.CreatePage(cmd.Context(), args[0], tree)
			if err != nil {
				return err
			}
			return renderCreateResult(cmd.OutOrStdout(), res, cmdCtx.Cfg.Output)
		},
	}

	cmd.Flags().StringVarP(&layoutPath, "layout", "l", "-", `layout tree JSON file ("-" for stdin)`)
	return cmd
}
