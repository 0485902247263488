package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/daybook/core/cmd/daybook/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "daybook",
		Short: "Daybook core service",
		Long:  `Daybook keeps tasks, notes, and special dates in a local document or a key-value store, and serves the desktop shell bridge.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewBackupCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewImportCommand())
	rootCmd.AddCommand(commands.NewClearCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
