package main

import (
	"fmt"
	"time"

	webscraper "github.com/dmtanner/authenticated-webscraper"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if deps.Results == nil {
		err := webscraper.Errorf(webscraper.EINVALID, "run history requires --db or SCRAPER_DB")
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	filter := webscraper.ResultFilter{RunID: &c.RunID, Limit: c.Limit}
	switch c.Status {
	case "":
	case webscraper.StatusOK, webscraper.StatusFailed:
		filter.Status = &c.Status
	default:
		err := webscraper.Errorf(webscraper.EINVALID, "unknown status %q (want ok or failed)", c.Status)
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	run, err := deps.Results.FindRunByID(deps.Ctx, c.RunID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	results, err := deps.Results.FindResults(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Run %s\n", run.ID)
	fmt.Fprintf(deps.Stdout, "  Input:    %s\n", run.Input)
	fmt.Fprintf(deps.Stdout, "  Output:   %s\n", run.Output)
	fmt.Fprintf(deps.Stdout, "  Started:  %s\n", formatTime(run.StartedAt))
	fmt.Fprintf(deps.Stdout, "  Finished: %s\n", formatTime(run.FinishedAt))
	fmt.Fprintf(deps.Stdout, "  Rows:     %d (%d failed)\n", run.Total, run.Failed)

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No rows found.")
		return nil
	}
	for _, r := range results {
		printRow(deps.Stdout, r.Position, r.Reference, r.Cells())
	}

	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}
