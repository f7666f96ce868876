// Package cli provides the command-line interface for Cavista.
package cli

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Batoli19/cavista/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "cavista",
	Short: "Voice and text command assistant backend",
	Long: `Cavista - a dialogue orchestration backend for voice and text commands.

It classifies commands, runs web research, generates project plans,
exports office documents, and keeps per-session follow-up state.

Quick Start:
  cavista serve          # Start the HTTP API
  cavista chat           # Interactive command REPL`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		if err := godotenv.Load(); err != nil {
			log.Printf("warning: failed to load .env file: %v", err)
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
}
