// Package commands implements the gristpages subcommands.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gwhthompson/grist-mcp-server-sub005/internal/cli/config"
	"github.com/gwhthompson/grist-mcp-server-sub005/internal/grist"
	"github.com/gwhthompson/grist-mcp-server-sub005/internal/pages"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Engine *pages.Engine
}

// NewCommandContext builds the document client and engine from the loaded
// configuration.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)

	client, err := grist.NewClient(grist.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		DocID:   cfg.DocID,
		Timeout: time.Duration(cfg.Timeout) * time.Second,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	eng, err := pages.New(pages.Config{Doc: client, Logger: logger})
	if err != nil {
		return nil, err
	}

	return &CommandContext{Cfg: cfg, Logger: logger, Engine: eng}, nil
}

// readLayout reads the layout tree source from a file, or from stdin when
// path is "-".
func readLayout(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading layout from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout file: %w", err)
	}
	return data, nil
}
