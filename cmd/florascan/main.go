package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/florascan-inc/florascan/internal/interfaces/cli/migrate"
	"github.com/florascan-inc/florascan/internal/interfaces/cli/worker"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "florascan",
		Short: "FloraScan subscription engine",
		Long:  `FloraScan subscription and quota engine: plan catalog, subscription lifecycle jobs, and daily scan quota enforcement.`,
	}

	rootCmd.AddCommand(
		worker.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
