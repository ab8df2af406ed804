package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/prettyrfc"
	"github.com/fwojciec/prettyrfc/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Documents prettyrfc.DocumentService
	Search    prettyrfc.SearchService
	Resolver  prettyrfc.DocumentResolver
	Converter prettyrfc.Converter
	Crawler   *crawl.Crawler
	Exports   prettyrfc.ExportStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config `embed:""`

	Serve  ServeCmd  `cmd:"" help:"Serve rendered RFCs over HTTP"`
	Fetch  FetchCmd  `cmd:"" help:"Fetch and render documents, optionally following references"`
	Search SearchCmd `cmd:"" help:"Search stored documents"`
	Show   ShowCmd   `cmd:"" help:"Print a document"`
	Export ExportCmd `cmd:"" help:"Export stored documents as markdown files"`
}

// Config holds the global flags shared by every command.
type Config struct {
	DB           string        `name:"db" env:"PRETTYRFC_DB" default:"${db}" help:"SQLite database path"`
	CacheDir     string        `name:"cache-dir" env:"PRETTYRFC_CACHE_DIR" default:"${cache_dir}" help:"Directory for cached document source"`
	ArchiveURL   string        `name:"archive-url" env:"PRETTYRFC_ARCHIVE_URL" default:"${archive_url}" help:"Base URL of the RFC archive"`
	FetchTimeout time.Duration `name:"fetch-timeout" env:"PRETTYRFC_FETCH_TIMEOUT" default:"10s" help:"Timeout for archive requests"`
	Rate         float64       `name:"rate" env:"PRETTYRFC_RATE" default:"2" help:"Archive requests per second (0 disables limiting)"`
	Verbose      bool          `short:"v" env:"PRETTYRFC_VERBOSE" help:"Enable debug logging"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" env:"PRETTYRFC_ADDR" help:"Address to listen on"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	IDs         []string `arg:"" name:"id" help:"Documents to fetch, e.g. rfc793"`
	Follow      int      `short:"f" default:"0" help:"Follow references this many levels deep"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent fetch limit"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query []string `arg:"" help:"Search terms"`
	Page  int      `short:"p" default:"1" help:"Result page"`
	Limit int      `short:"n" default:"20" help:"Results per page"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID       string `arg:"" help:"Document to show, e.g. rfc793"`
	Markdown bool   `short:"m" xor:"format" help:"Print as markdown"`
	HTML     bool   `name:"html" xor:"format" help:"Print the rendered HTML"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir string `arg:"" type:"path" help:"Output directory, replaced atomically"`
}
