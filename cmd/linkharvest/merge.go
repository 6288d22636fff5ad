package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/pevans/linkharvest/article"
	"github.com/pevans/linkharvest/discovery"
)

func handleMerge(s *settings, args []string) {
	// Parse flags for merge command
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	out := fs.String("out", "", "Write the merged JSON to this file instead of stdout")
	normalize := fs.Bool("normalize", s.Extract.NormalizeTitles, "Strip ordinal prefixes and timestamp suffixes from titles")
	format := fs.String("format", formatJSON, "Output format: json, links, table")
	fs.Parse(args)

	if len(fs.Args()) < 1 {
		fmt.Fprintf(os.Stderr, "Error: at least one export file is required\n")
		fmt.Fprintf(os.Stderr, "Usage: linkharvest merge [flags] <articles.json>...\n")
		os.Exit(1)
	}
	if *format == formatReport {
		*format = formatJSON
	}
	if err := validateFormat(*format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := runMerge(fs.Args(), s.Extract.UntitledLabel, *normalize, *format, *out, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runMerge combines export files with article.Merge. Titles left empty by
// cleaning get the untitled label; normalize also strips timestamp
// suffixes.
func runMerge(paths []string, untitled string, normalize bool, format, out string, stdout io.Writer) error {
	lists := make([][]article.Article, 0, len(paths))
	total := 0
	for _, path := range paths {
		articles, err := article.ReadFile(path)
		if err != nil {
			return err
		}
		log.Debug().Str("file", path).Int("articles", len(articles)).Msg("loaded export")
		lists = append(lists, articles)
		total += len(articles)
	}

	merged := article.Merge(lists...)
	if normalize {
		merged = discovery.NormalizeTitles(merged, untitled)
	} else {
		for i := range merged {
			if merged[i].Title == "" {
				merged[i].Title = untitled
			}
		}
	}
	log.Info().Int("files", len(paths)).Int("read", total).Int("merged", len(merged)).Msg("merged exports")

	if out != "" {
		if err := article.WriteFile(out, merged); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "✓ Wrote %d articles to %s\n", len(merged), out)
		return nil
	}

	json, err := article.Encode(merged)
	if err != nil {
		return err
	}
	printArticles(stdout, format, merged, json)
	return nil
}
