package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/nao1215/holidayscan/internal/config"
	"github.com/nao1215/holidayscan/internal/database"
	"github.com/nao1215/holidayscan/internal/model"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored holiday records",
		Long: `List prints the holiday records stored by previous scrape runs.

Examples:
  # List all stored records
  holidayscan list

  # List records for one year
  holidayscan list --year 2026

  # List scrape run history instead of records
  holidayscan list --runs

  # JSON output for tool integration
  holidayscan list --json`,
		RunE: runListCmd,
	}

	cmd.Flags().StringP("year", "y", "", "Only list records for this year label")
	cmd.Flags().Bool("runs", false, "List scrape run history instead of records")
	cmd.Flags().BoolP("json", "j", false, "Output JSON instead of a table")
	cmd.Flags().String("db-dir", "", "Database directory (default: XDG data directory)")

	return cmd
}

// runListCmd executes the list command.
func runListCmd(cmd *cobra.Command, _ []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	year, err := cmd.Flags().GetString("year")
	if err != nil {
		return err
	}

	showRuns, err := cmd.Flags().GetBool("runs")
	if err != nil {
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Listing never creates the database; a missing one means no
	// scrape has run yet.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		return fmt.Errorf("no scrape data found (run 'holidayscan scrape' first): %w", err)
	}
	defer db.Close()

	if showRuns {
		return listRuns(cmd, db, asJSON)
	}

	return listHolidays(cmd, db, year, asJSON)
}

// listHolidays prints stored holiday records.
func listHolidays(cmd *cobra.Command, db *database.HolidayDB, year string, asJSON bool) error {
	ctx := cmd.Context()

	var holidays []model.Holiday
	var err error
	if year != "" {
		holidays, err = db.ListHolidaysByYear(ctx, year)
	} else {
		holidays, err = db.ListHolidays(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list holidays: %w", err)
	}

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(holidays)
	}

	if len(holidays) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No records found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "YEAR\tHOLIDAY\tDATE")
	for _, h := range holidays {
		fmt.Fprintf(w, "%s\t%s\t%s\n", h.Year, h.Name, h.Date)
	}
	return w.Flush()
}

// listRuns prints the scrape run history.
func listRuns(cmd *cobra.Command, db *database.HolidayDB, asJSON bool) error {
	runs, err := db.ListScrapeRuns(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list scrape runs: %w", err)
	}

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No scrape runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCRAPED AT\tSOURCE\tATTEMPTS\tRECORDS\tERROR")
	for _, run := range runs {
		errText := run.Error
		if errText == "" {
			errText = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			run.ScrapedAt.Format("2006-01-02 15:04:05"),
			run.SourceURL,
			run.Attempts,
			run.RecordCount,
			errText,
		)
	}
	return w.Flush()
}
