package main

import (
	"context"
	"fmt"
	"io"
	"slices"

	webscraper "github.com/dmtanner/authenticated-webscraper"
	"github.com/dmtanner/authenticated-webscraper/batch"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	in, err := deps.Input.Read()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	// A missing column fails before any network traffic.
	col, err := in.Column(c.Column)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	if err := deps.Session.Login(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	var run *webscraper.Run
	if deps.Results != nil {
		run = &webscraper.Run{Input: deps.Input.Path(), Output: deps.Output.Path()}
		if err := deps.Results.CreateRun(deps.Ctx, run); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
			return err
		}
	}

	refs := make([]string, len(in.Rows))
	for i, row := range in.Rows {
		refs[i] = row.Cell(col)
	}

	progress := func(p batch.Progress) {
		fmt.Fprintf(deps.Stderr, "[%d/%d] %s\n", p.Completed, p.Total, p.Reference)
		if p.Err != nil {
			fmt.Fprintf(deps.Stderr, "fail %s: %s\n", p.Reference, errorText(p.Err))
		}
	}

	results := deps.Runner.Run(deps.Ctx, refs, progress)
	failed := batch.Failed(results)

	if err := deps.Output.Write(buildOutput(in, results)); err != nil {
		fmt.Fprintf(deps.Stderr, "error writing %s: %v\n", deps.Output.Path(), err)
		return err
	}

	if run != nil {
		if err := recordRun(deps, run, results, failed); err != nil {
			fmt.Fprintf(deps.Stderr, "error recording run: %s\n", errorText(err))
			return err
		}
	}

	printReport(deps, results)
	fmt.Fprintf(deps.Stdout, "Processed %d rows (%d failed), wrote %s\n", len(results), failed, deps.Output.Path())
	if run != nil {
		fmt.Fprintf(deps.Stdout, "Recorded run %s\n", run.ID)
	}

	return deps.Ctx.Err()
}

// buildOutput appends the result columns to every input row. Rows are
// padded or cut to the input header width so result cells stay aligned.
func buildOutput(in *webscraper.Table, results []*webscraper.RowResult) *webscraper.Table {
	width := len(in.Header)
	out := &webscraper.Table{
		Header: append(slices.Clone(in.Header), webscraper.ResultColumns...),
		Rows:   make([]*webscraper.Row, len(in.Rows)),
	}

	for i, row := range in.Rows {
		cells := make([]string, width, width+len(webscraper.ResultColumns))
		for j := range cells {
			cells[j] = row.Cell(j)
		}
		out.Rows[i] = &webscraper.Row{
			Position: row.Position,
			Cells:    append(cells, results[i].Cells()...),
		}
	}
	return out
}

func recordRun(deps *Dependencies, run *webscraper.Run, results []*webscraper.RowResult, failed int) error {
	// History is written even when the batch was interrupted.
	ctx := context.WithoutCancel(deps.Ctx)
	for _, r := range results {
		if err := deps.Results.CreateResult(ctx, webscraper.NewResult(run.ID, r)); err != nil {
			return err
		}
	}
	return deps.Results.FinishRun(ctx, run.ID, len(results), failed)
}

// printReport prints the extracted fields of every row.
func printReport(deps *Dependencies, results []*webscraper.RowResult) {
	for _, r := range results {
		printRow(deps.Stdout, r.Position, r.Reference, r.Cells())
	}
}

// printRow prints one row as a numbered reference followed by its fields,
// or by the failure reason when the row failed.
func printRow(w io.Writer, pos int, ref string, cells []string) {
	fmt.Fprintf(w, "%d. %s\n", pos+1, ref)

	status, msg := cells[len(cells)-2], cells[len(cells)-1]
	if status == webscraper.StatusFailed {
		fmt.Fprintf(w, "   failed: %s\n", msg)
		return
	}
	for i, name := range webscraper.ResultColumns[:len(cells)-2] {
		fmt.Fprintf(w, "   %s: %s\n", name, cells[i])
	}
}

// errorText prefers the application message and falls back to the full
// error for errors that carry no code.
func errorText(err error) string {
	if webscraper.ErrorCode(err) == webscraper.EINTERNAL {
		return err.Error()
	}
	return webscraper.ErrorMessage(err)
}
