// Package main is the gristpages entry point.
package main

import (
	"os"

	"github.com/gwhthompson/grist-mcp-server-sub005/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
