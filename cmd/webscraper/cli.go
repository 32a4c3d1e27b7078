package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	webscraper "github.com/dmtanner/authenticated-webscraper"
	"github.com/dmtanner/authenticated-webscraper/batch"
	"github.com/dmtanner/authenticated-webscraper/fs"
)

// Authenticator starts an authenticated session.
type Authenticator interface {
	Login(ctx context.Context) error
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Input   *fs.TableFile
	Output  *fs.TableFile
	Session Authenticator
	Runner  *batch.Runner

	// Results is nil unless run history is enabled.
	Results webscraper.ResultService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `env:"SCRAPER_DB" help:"SQLite database recording run history"`
	Verbose bool   `short:"v" help:"Log debug output"`

	Scrape  ScrapeCmd  `cmd:"" default:"withargs" help:"Extract proposal fields for every row of INPUT into OUTPUT (default)"`
	History HistoryCmd `cmd:"" help:"Show a run recorded with --db"`
}

// ScrapeCmd processes every row of the input table and writes the output.
type ScrapeCmd struct {
	Input  string `arg:"" help:"Input table (.csv or .xlsx)"`
	Output string `arg:"" help:"Output table (.csv or .xlsx)"`

	Column string `default:"Proposal URL" help:"Input column holding document references"`

	BaseURL     string `name:"base-url" env:"SCRAPER_BASE_URL" help:"Web application base URL"`
	Username    string `env:"SCRAPER_USERNAME" help:"Login email"`
	Password    string `env:"SCRAPER_PASSWORD" help:"Login password"`
	LoginPath   string `name:"login-path" env:"SCRAPER_LOGIN_PATH" default:"/login" help:"Login page path"`
	SessionPath string `name:"session-path" env:"SCRAPER_SESSION_PATH" default:"/user_sessions" help:"Login form post path"`

	PDFPrefix string `name:"pdf-prefix" env:"SCRAPER_PDF_PREFIX" help:"URL prefix the reference path is appended to"`
	PDFSuffix string `name:"pdf-suffix" env:"SCRAPER_PDF_SUFFIX" help:"Suffix appended to the document URL"`

	Timeout     time.Duration `short:"t" default:"30s" help:"Timeout per row"`
	Concurrency int           `short:"c" default:"1" help:"Rows processed at once"`
	Rate        float64       `default:"0" help:"Downloads per second per host (0 = unlimited)"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	RunID  string `arg:"" name:"run-id" help:"Run ID printed by a scrape with --db"`
	Status string `short:"s" help:"Only show rows with this status (ok or failed)"`
	Limit  int    `short:"n" help:"Maximum number of rows to show (0 = all)"`
}
