package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gwhthompson/grist-mcp-server-sub005/internal/layout"
)

// NewSetLayoutCommand creates the set-layout command.
func NewSetLayoutCommand() *cobra.Command {
	var (
		layoutPath string
		removeIDs  []int
	)

	cmd := &cobra.Command{
		Use:   "set-layout <view-id>",
		Short: "Replace the layout of an existing page",
		Long: `Replace the layout of an existing page.

The tree may mix existing widgets (bare section ids) with new ones. Every
widget currently on the page must appear in the tree or in --remove.`,
		Example: `  # Add a chart next to section 5, dropping section 7
  gristpages set-layout 3 --layout new.json --remove 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viewID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("view id must be a number, got %q", args[0])
			}
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
			res, err := cmdCtx.Engine.SetLayout(cmd.Context(), viewID, tree, removeIDs)
			if err != nil {
				return err
			}
			return renderSetResult(cmd.OutOrStdout(), res, cmdCtx.Cfg.Output)
		},
	}

	cmd.Flags().StringVarP(&layoutPath, "layout", "l", "-", `layout tree JSON file ("-" for stdin)`)
	cmd.Flags().IntSliceVar(&removeIDs, "remove", nil, "section ids to remove from the page")
	return cmd
}
