// Package main is the entry point for the userload CLI.
package main

import (
	"os"

	"github.com/driftline-labs/userload/internal/cli"

	// Register database adapters.
	_ "github.com/driftline-labs/userload/internal/adapters/duckdb"
	_ "github.com/driftline-labs/userload/internal/adapters/postgres"
	_ "github.com/driftline-labs/userload/internal/adapters/sqlite"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
