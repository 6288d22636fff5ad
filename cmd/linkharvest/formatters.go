package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pevans/linkharvest/article"
	"github.com/pevans/linkharvest/discovery"
)

const (
	bannerWidth     = 60
	tableTitleWidth = 48
)

// printReport prints the human-readable summary: every article, then the
// JSON and the plain link list. Empty results print the page diagnostics
// instead.
func printReport(w io.Writer, result *discovery.Result, json string) {
	banner := strings.Repeat("=", bannerWidth)

	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "Found %d articles\n", len(result.Articles))
	fmt.Fprintln(w, banner)

	if result.Empty() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No article links found.")
		printDiagnostics(w, result.Diagnostics)
		return
	}

	for i, a := range result.Articles {
		fmt.Fprintf(w, "%d. %s\n", i+1, a.Title)
		fmt.Fprintf(w, "   %s\n\n", a.URL)
	}

	fmt.Fprintln(w, "JSON:")
	fmt.Fprintln(w, json)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Links:")
	fmt.Fprintln(w, article.URLList(result.Articles))
}

// printDiagnostics prints what the page looked like, so the operator can
// tell whether the page was fully loaded when it was saved.
func printDiagnostics(w io.Writer, d discovery.Diagnostics) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Debug information:")
	fmt.Fprintf(w, "  Page URL: %s\n", d.PageURL)
	fmt.Fprintf(w, "  Page title: %s\n", d.PageTitle)
	fmt.Fprintf(w, "  Links on page: %d\n", d.AnchorCount)
	for _, n := range d.NeedleCounts {
		fmt.Fprintf(w, "  Links containing %q: %d\n", n.Needle, n.Count)
	}
	if d.SkippedScripts > 0 {
		fmt.Fprintf(w, "  Script blocks skipped: %d\n", d.SkippedScripts)
	}

	if len(d.SampleAnchors) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "First %d links:\n", len(d.SampleAnchors))
	for i, a := range d.SampleAnchors {
		fmt.Fprintf(w, "%d. %s - %s\n", i+1, a.Href, a.Text)
	}
}

// printTable prints one aligned row per article. Titles are padded by
// display width so CJK titles line up.
func printTable(w io.Writer, articles []article.Article) {
	if len(articles) == 0 {
		fmt.Fprintln(w, "No articles to display.")
		return
	}

	fmt.Fprintf(w, "%-4s %s %s\n", "#", runewidth.FillRight("TITLE", tableTitleWidth), "URL")
	fmt.Fprintln(w, strings.Repeat("-", 4+1+tableTitleWidth+1+3))

	for i, a := range articles {
		title := runewidth.Truncate(a.Title, tableTitleWidth, "...")
		fmt.Fprintf(w, "%-4d %s %s\n", i+1, runewidth.FillRight(title, tableTitleWidth), a.URL)
	}
}

// printArticles writes articles in a machine-readable format.
func printArticles(w io.Writer, format string, articles []article.Article, json string) {
	switch format {
	case formatLinks:
		if links := article.URLList(articles); links != "" {
			fmt.Fprintln(w, links)
		}
	case formatTable:
		printTable(w, articles)
	default:
		fmt.Fprintln(w, json)
	}
}
