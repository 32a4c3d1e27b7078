package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	webscraper "github.com/dmtanner/authenticated-webscraper"
	"github.com/dmtanner/authenticated-webscraper/batch"
	"github.com/dmtanner/authenticated-webscraper/csv"
	"github.com/dmtanner/authenticated-webscraper/excelize"
	"github.com/dmtanner/authenticated-webscraper/fs"
	"github.com/dmtanner/authenticated-webscraper/goquery"
	scraperhttp "github.com/dmtanner/authenticated-webscraper/http"
	"github.com/dmtanner/authenticated-webscraper/pdf"
	scraperslog "github.com/dmtanner/authenticated-webscraper/slog"
	"github.com/dmtanner/authenticated-webscraper/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	// Credentials may live in a .env file next to the inputs.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database holding run history. Opened only when --db is set.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webscraper"),
		kong.Description("Extract proposal fields from the documents referenced by a table"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("usage: webscraper [flags] INPUT OUTPUT")
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		defer m.Close()

		deps.Results = scraperslog.NewLoggingResultService(sqlite.NewResultService(m.DB), deps.Logger)
	}

	if !strings.HasPrefix(kongCtx.Command(), "history") {
		if err := wireScrape(deps, &cli.Scrape); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// wireScrape builds the session, document pipeline and table files of a
// scrape.
func wireScrape(deps *Dependencies, cmd *ScrapeCmd) error {
	deps.Input = tableFile(cmd.Input)
	deps.Output = tableFile(cmd.Output)

	session, err := scraperhttp.NewSession(scraperhttp.Config{
		BaseURL:     cmd.BaseURL,
		LoginPath:   cmd.LoginPath,
		SessionPath: cmd.SessionPath,
		Username:    cmd.Username,
		Password:    cmd.Password,
	}, goquery.NewTokenFinder(), scraperhttp.WithTimeout(cmd.Timeout))
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Set SCRAPER_BASE_URL, SCRAPER_USERNAME and SCRAPER_PASSWORD or pass them as flags")
		return err
	}
	deps.Session = session

	deps.Runner = &batch.Runner{
		Fetcher:     scraperslog.NewLoggingFetcher(session, deps.Logger),
		Converter:   scraperslog.NewLoggingConverter(pdf.NewConverter(), deps.Logger),
		Limiter:     batch.NewDomainLimiter(cmd.Rate),
		Prefix:      cmd.PDFPrefix,
		Suffix:      cmd.PDFSuffix,
		Timeout:     cmd.Timeout,
		Concurrency: cmd.Concurrency,
	}
	return nil
}

// tableFile picks the table format from the file extension.
func tableFile(path string) *fs.TableFile {
	var (
		r webscraper.TableReader
		w webscraper.TableWriter
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		r, w = excelize.NewReader(), excelize.NewWriter()
	default:
		r, w = csv.NewReader(), csv.NewWriter()
	}
	return fs.NewTableFile(path, r, w)
}
