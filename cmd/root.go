// Package cmd wires up navi's command line interface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the navi application
var rootCmd = &cobra.Command{
	Use:   "navi",
	Short: "Personal life admin assistant with calendar tools",
	Long: `navi is a conversational assistant that manages reminders and Apple
Calendar events through an LLM with tool calling.

It runs as an HTTP server exposing a chat API; point a chat UI at
POST /api/chat to talk to it.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "navi version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
