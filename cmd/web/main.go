package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "gigmarket",
	Short:         "GigMarket API server",
	SilenceUsage:  true,
	SilenceErrors: true,
	// без подкоманды запускается сервер
	RunE: serveCmd.RunE,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)

	serveCmd.Flags().Bool("no-migrate", false, "skip AutoMigrate on startup")
}
