// Package main provides the entry point for the holidayscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for holidayscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidayscan",
		Short: "Scrape public holiday tables from government web pages",
		Long: `holidayscan fetches public holiday schedule pages, extracts the
holiday table into structured records, and stores them in a local
SQLite database for querying and reporting.

By default it scrapes the Western Australia public holidays page.
Pass one or more URLs to scrape other pages with the same table shape.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
