package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewGetLayoutCommand creates the get-layout command.
func NewGetLayoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-layout <view-id>",
		Short: "Read a page's layout back in declarative form",
		Example: `  # Show view 3 as a widget table
  gristpages get-layout 3

  # Full result as JSON
  gristpages get-layout 3 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viewID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("view id must be a number, got %q", args[0])
			}

			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			res, err := cmdCtx.Engine.GetLayout(cmd.Context(), viewID)
			if err != nil {
				return err
			}
			return renderGetResult(cmd.OutOrStdout(), res, cmdCtx.Cfg.Output)
		},
	}
	return cmd
}
