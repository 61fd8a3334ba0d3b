package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/secguide"
	"github.com/fwojciec/secguide/crawl"
	"github.com/fwojciec/secguide/gemini"
	"github.com/fwojciec/secguide/goquery"
	sghttp "github.com/fwojciec/secguide/http"
	"github.com/fwojciec/secguide/ingest"
	"github.com/fwojciec/secguide/qdrant"
	"github.com/fwojciec/secguide/retrieve"
	sgslog "github.com/fwojciec/secguide/slog"
	"github.com/fwojciec/secguide/sqlite"
	"github.com/fwojciec/secguide/tei"
	"google.golang.org/genai"
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
	// Database path. Overrides the --db flag when set.
	DBPath string

	// SQLite database, when the sqlite store is selected.
	DB *sqlite.DB

	// Store and Embedder, when set, are used instead of the ones built
	// from flags.
	Store    secguide.VectorStore
	Embedder secguide.Embedder

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var first error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	m.closers = nil
	return first
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
		kong.Name("secguide"),
		kong.Description("Index and query security guidance documentation."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'secguide --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.Verbose)
	deps.Table = cli.Table

	store, err := m.openStore(cli, stderr)
	if err != nil {
		return err
	}
	defer m.Close()

	embedder := m.Embedder
	if embedder == nil {
		tc := tei.NewEmbedder(tei.Config{BaseURL: cli.TEIURL})
		if err := tc.Ping(ctx); err != nil {
			fmt.Fprintf(stderr, "Hint: start a text-embeddings-inference server for %s or set SECGUIDE_TEI_URL\n", tc.ModelName())
			return fmt.Errorf("embedding server unavailable at %s: %w", cli.TEIURL, err)
		}
		embedder = tc
	}

	if cli.Verbose {
		store = sgslog.NewLoggingVectorStore(store, deps.Logger)
		embedder = sgslog.NewLoggingEmbedder(embedder, deps.Logger)
	}

	switch cmd {
	case "index":
		indexer, err := m.newIndexer(&cli.Index, cli.Verbose, deps.Logger, embedder, store)
		if err != nil {
			return err
		}
		indexer.Table = cli.Table
		deps.Indexer = indexer

	case "search", "ask":
		table, err := store.Open(ctx, cli.Table)
		if err != nil {
			if secguide.ErrorCode(err) == secguide.ENOTFOUND {
				fmt.Fprintln(stderr, "Hint: run 'secguide index' to build the index")
			}
			return err
		}
		var retriever secguide.Retriever = retrieve.NewRetriever(embedder, table)
		if cli.Verbose {
			retriever = sgslog.NewLoggingRetriever(retriever, deps.Logger)
		}
		deps.Retriever = retriever

		if cmd == "ask" {
			asker, err := newAsker(ctx, stderr, retriever, cli.Ask.Model)
			if err != nil {
				return err
			}
			deps.Asker = asker
		}
	}

	return kongCtx.Run(deps)
}

// openStore builds the selected vector store. Resources it opens are
// released by Close.
func (m *Main) openStore(cli *CLI, stderr io.Writer) (secguide.VectorStore, error) {
	if m.Store != nil {
		return m.Store, nil
	}

	switch cli.Store {
	case "qdrant":
		host, port, err := splitAddr(cli.QdrantAddr)
		if err != nil {
			return nil, err
		}
		client, err := qdrant.NewClient(host, port)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Set SECGUIDE_QDRANT_ADDR to the Qdrant gRPC address")
			return nil, fmt.Errorf("failed to connect to qdrant at %q: %w", cli.QdrantAddr, err)
		}
		m.closers = append(m.closers, client)
		return qdrant.NewVectorStore(client), nil

	default:
		path := cli.DB
		if m.DBPath != "" {
			path = m.DBPath
		}
		m.DB = sqlite.NewDB(path)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintln(stderr, "Hint: Set SECGUIDE_DB to use a different database path")
			return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
		}
		m.closers = append(m.closers, m.DB)
		return sqlite.NewVectorStore(m.DB), nil
	}
}

func (m *Main) newIndexer(c *IndexCmd, verbose bool, logger *slog.Logger, embedder secguide.Embedder, store secguide.VectorStore) (*ingest.Indexer, error) {
	fetcher := sghttp.NewFetcher(
		sghttp.WithTimeout(c.Timeout),
		sghttp.WithUserAgent(c.UserAgent),
		sghttp.WithRobots(c.Robots),
	)
	m.closers = append(m.closers, fetcher)

	var f secguide.Fetcher = fetcher
	var sitemaps secguide.SitemapService = sghttp.NewSitemapService(&http.Client{Timeout: c.Timeout}, c.UserAgent)
	if verbose {
		f = sgslog.NewLoggingFetcher(f, logger)
		sitemaps = sgslog.NewLoggingSitemapService(sitemaps, logger)
	}

	crawler := &crawl.Crawler{
		Fetcher:     f,
		Extractor:   goquery.NewExtractor(),
		Links:       goquery.NewLinkExtractor(),
		Sitemaps:    sitemaps,
		RateLimiter: crawl.NewDomainLimiter(c.Delay),
		Logger:      logger,
	}

	indexer := &ingest.Indexer{
		Crawler:  crawler,
		Embedder: embedder,
		Store:    store,
		Logger:   logger,
	}
	if c.CountTokens {
		tokens, err := gemini.NewTokenCounter("")
		if err != nil {
			return nil, fmt.Errorf("failed to create token counter: %w", err)
		}
		indexer.Tokens = tokens
	}
	return indexer, nil
}

func newAsker(ctx context.Context, stderr io.Writer, retriever secguide.Retriever, model string) (*gemini.Asker, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	return gemini.NewAsker(client, retriever, model), nil
}

// newLogger logs warnings to stderr, or everything down to debug when
// verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, secguide.Errorf(secguide.EINVALID, "invalid qdrant address %q: want host:port", addr)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return "", 0, secguide.Errorf(secguide.EINVALID, "invalid qdrant port %q", portStr)
	}
	return host, port, nil
}

// errorText returns the message of an application error, or the full error
// text otherwise.
func errorText(err error) string {
	if secguide.ErrorCode(err) == secguide.EINTERNAL {
		return err.Error()
	}
	return secguide.ErrorMessage(err)
}
