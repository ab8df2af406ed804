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
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/prettyrfc"
	"github.com/fwojciec/prettyrfc/crawl"
	"github.com/fwojciec/prettyrfc/etree"
	"github.com/fwojciec/prettyrfc/fs"
	"github.com/fwojciec/prettyrfc/goquery"
	rfchtml "github.com/fwojciec/prettyrfc/html"
	"github.com/fwojciec/prettyrfc/htmltomarkdown"
	rfchttp "github.com/fwojciec/prettyrfc/http"
	"github.com/fwojciec/prettyrfc/resolve"
	rfcslog "github.com/fwojciec/prettyrfc/slog"
	"github.com/fwojciec/prettyrfc/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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
	// Fetcher replaces the archive fetcher when set. Set before calling Run().
	Fetcher prettyrfc.Fetcher

	// SQLite database used by SQLite service implementations.
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
		kong.Name("prettyrfc"),
		kong.Description("Read RFCs as clean, cross-linked HTML"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars{
			"db":          filepath.Join(defaultDir(), "prettyrfc.db"),
			"cache_dir":   filepath.Join(defaultDir(), "xml"),
			"archive_url": rfchttp.DefaultBaseURL,
		},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'prettyrfc --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd = strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Open database
	if cli.DB != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cli.DB), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	m.DB = sqlite.NewDB(cli.DB)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set PRETTYRFC_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher = rfchttp.NewFetcher(
			rfchttp.WithBaseURL(cli.ArchiveURL),
			rfchttp.WithTimeout(cli.FetchTimeout),
			rfchttp.WithRateLimit(cli.Rate),
		)
	}
	cache := fs.NewCache(cli.CacheDir, rfcslog.NewLoggingFetcher(fetcher, deps.Logger))

	documents := sqlite.NewDocumentService(m.DB)
	repo := resolve.NewRepository(
		cache,
		rfchtml.NewRenderer(etree.NewParser()),
		documents,
		goquery.NewTextExtractor(),
	)

	deps.Documents = documents
	deps.Resolver = rfcslog.NewLoggingResolver(resolve.NewResolver(repo), deps.Logger)
	deps.Search = rfcslog.NewLoggingSearchService(sqlite.NewSearchService(m.DB), deps.Logger)
	deps.Converter = htmltomarkdown.NewConverter()

	// Wire command-specific dependencies based on command
	switch cmd {
	case "fetch":
		deps.Crawler = &crawl.Crawler{
			Resolver:    deps.Resolver,
			Concurrency: cli.Fetch.Concurrency,
			MaxDepth:    cli.Fetch.Follow,
			Logger: func(format string, args ...any) {
				deps.Logger.Debug(fmt.Sprintf(format, args...))
			},
		}
	case "export":
		dir := filepath.Clean(cli.Export.Dir)
		deps.Exports = fs.NewExportStore(filepath.Dir(dir), filepath.Base(dir))
	}

	return kongCtx.Run(deps)
}

// defaultDir returns the directory holding the database and source cache.
func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".prettyrfc"
	}
	return filepath.Join(home, ".prettyrfc")
}
