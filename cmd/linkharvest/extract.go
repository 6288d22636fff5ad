package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pevans/linkharvest/article"
	"github.com/pevans/linkharvest/discovery"
	"github.com/pevans/linkharvest/scraper"
	"github.com/pevans/linkharvest/sink"
	"github.com/pevans/linkharvest/snapshot"
)

// clipboardGrace bounds how long the command waits for the background
// clipboard write before exiting.
const clipboardGrace = 2 * time.Second

// extractOptions are the per-invocation inputs of the extract command.
type extractOptions struct {
	input   string // file path, or "-" for stdin
	pageURL string
	charset string
	feed    bool
	format  string
	out     string
}

func handleExtract(s *settings, args []string) {
	cfg := s.Extract

	// Parse flags for extract command
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	variant := fs.String("variant", string(cfg.Variant), "Extraction variant: enhanced or basic")
	pattern := fs.String("pattern", cfg.Pattern.String(), "Article URL prefix to match")
	pageURL := fs.String("page-url", "", "Address the page was saved from (default: the pattern's origin)")
	charset := fs.String("charset", "", "Charset of the input when it is not UTF-8 and has no meta charset")
	feed := fs.Bool("feed", false, "Input is an RSS or Atom feed")
	normalize := fs.Bool("normalize", cfg.NormalizeTitles, "Strip ordinal prefixes and timestamp suffixes from titles")
	format := fs.String("format", s.Format, "Output format: report, json, links, table")
	copyJSON := fs.Bool("copy", s.Copy, "Copy the JSON to the clipboard")
	out := fs.String("out", "", "Also write the JSON to this file")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Parse(args)

	if len(fs.Args()) < 1 {
		fmt.Fprintf(os.Stderr, "Error: input file is required (use - for stdin)\n")
		fmt.Fprintf(os.Stderr, "Usage: linkharvest extract [flags] <page.html|->\n")
		os.Exit(1)
	}

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Validate flags
	v, err := scraper.ParseVariant(*variant)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg.Variant = v

	p, err := scraper.ParsePattern(*pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg.Pattern = p
	cfg.NormalizeTitles = *normalize

	if err := validateFormat(*format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := extractOptions{
		input:   fs.Args()[0],
		pageURL: *pageURL,
		charset: *charset,
		feed:    *feed,
		format:  *format,
		out:     *out,
	}

	result, json, err := runExtract(cfg, opts, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *copyJSON && !result.Empty() {
		delivery := sink.New(sink.ConsoleNotifier{Out: os.Stderr}).Deliver(json, len(result.Articles))
		select {
		case <-delivery:
		case <-time.After(clipboardGrace):
		}
	}
}

// runExtract loads the input, extracts article links and writes the
// requested output to stdout. It returns the result and its JSON encoding.
func runExtract(cfg *scraper.Config, opts extractOptions, stdin io.Reader, stdout io.Writer) (*discovery.Result, string, error) {
	doc, err := loadDocument(cfg, opts, stdin)
	if err != nil {
		return nil, "", err
	}

	extractor := discovery.NewExtractor(cfg)
	log.Debug().
		Str("variant", string(cfg.Variant)).
		Str("pattern", cfg.Pattern.String()).
		Strs("strategies", extractor.Strategies()).
		Msg("extracting")

	result := extractor.Extract(doc)

	json, err := article.Encode(result.Articles)
	if err != nil {
		return nil, "", err
	}

	if opts.out != "" {
		if err := article.WriteFile(opts.out, result.Articles); err != nil {
			return nil, "", err
		}
	}

	if opts.format == formatReport {
		printReport(stdout, result, json)
	} else {
		printArticles(stdout, opts.format, result.Articles, json)
	}

	return result, json, nil
}

// loadDocument reads the input as an HTML page or a feed.
func loadDocument(cfg *scraper.Config, opts extractOptions, stdin io.Reader) (snapshot.Document, error) {
	var r io.Reader = stdin
	if opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	if opts.feed {
		feed, err := snapshot.ParseFeed(r)
		if err != nil {
			return nil, err
		}
		return snapshot.FromFeed(feed, opts.pageURL), nil
	}

	// Saved pages lose their address; relative links are resolved against
	// the article host by default
	pageURL := opts.pageURL
	if pageURL == "" {
		pageURL = cfg.Pattern.Origin()
	}

	contentType := ""
	if opts.charset != "" {
		contentType = "text/html; charset=" + opts.charset
	}

	return snapshot.Parse(r, contentType, pageURL)
}
