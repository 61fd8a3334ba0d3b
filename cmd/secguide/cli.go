package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/secguide"
	"github.com/fwojciec/secguide/ingest"
)

// Indexer runs an index build.
type Indexer interface {
	Run(ctx context.Context, cfg secguide.CrawlConfig) (*ingest.Result, error)
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Table     string
	Indexer   Indexer
	Retriever secguide.Retriever
	Asker     secguide.Asker
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB         string `name:"db" env:"SECGUIDE_DB" default:"secguide.db" help:"SQLite database path"`
	Table      string `default:"security_guidance" help:"Vector table name"`
	Store      string `enum:"sqlite,qdrant" default:"sqlite" help:"Vector store backend (sqlite, qdrant)"`
	QdrantAddr string `name:"qdrant-addr" env:"SECGUIDE_QDRANT_ADDR" default:"localhost:6334" help:"Qdrant gRPC address"`
	TEIURL     string `name:"tei-url" env:"SECGUIDE_TEI_URL" default:"http://localhost:8080" help:"Text embeddings inference server URL"`
	Verbose    bool   `short:"v" help:"Log every fetch, embedding and query"`

	Index  IndexCmd  `cmd:"" help:"Crawl the guidance site and rebuild the vector index"`
	Search SearchCmd `cmd:"" help:"Print the guidance passages most relevant to a query"`
	Ask    AskCmd    `cmd:"" help:"Answer a question from the indexed guidance"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Seed          []string      `default:"https://security-guidance.service.justice.gov.uk/" help:"Seed URL (repeatable)"`
	AllowedDomain []string      `name:"allowed-domain" help:"Domain the crawl may visit (repeatable, defaults to seed hosts)"`
	Depth         int           `default:"5" help:"Maximum link depth"`
	Concurrency   int           `short:"c" default:"2" help:"Concurrent fetch limit"`
	Delay         time.Duration `default:"1s" help:"Minimum delay between requests to one host (0 disables)"`
	Robots        bool          `default:"true" negatable:"" help:"Honor robots.txt"`
	Sitemap       bool          `help:"Also seed the crawl from the site's sitemap"`
	UserAgent     string        `name:"user-agent" default:"Mozilla/5.0" help:"User-Agent header"`
	Timeout       time.Duration `default:"10s" help:"Per-request timeout"`
	CountTokens   bool          `name:"count-tokens" help:"Report the token count of the indexed content"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query      string `arg:"" help:"Search query"`
	K          int    `short:"k" default:"3" help:"Number of passages to return"`
	Candidates int    `default:"6" help:"Number of nearest neighbours fetched before deduplication"`
	JSON       bool   `name:"json" help:"Print passages as JSON"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about the guidance"`
	Model    string `default:"gemini-2.5-flash" help:"Gemini model"`
}
