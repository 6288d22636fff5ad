package discovery

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pevans/linkharvest/scraper"
	"github.com/pevans/linkharvest/snapshot"
)

const (
	sampleAnchors   = 10
	sampleTextWidth = 50
)

// StrategyTotal is the running article count after a strategy finished.
type StrategyTotal struct {
	Strategy string
	Total    int
}

// NeedleCount is the number of anchors whose href contains Needle.
type NeedleCount struct {
	Needle string
	Count  int
}

// AnchorSample is one anchor as it appears on the page.
type AnchorSample struct {
	Href string
	Text string
}

// Diagnostics describe the page an extraction ran against, so an operator
// can tell why nothing was found.
type Diagnostics struct {
	PageURL        string
	PageTitle      string
	AnchorCount    int
	NeedleCounts   []NeedleCount
	SampleAnchors  []AnchorSample
	Totals         []StrategyTotal
	SkippedScripts int
}

func diagnose(doc snapshot.Document, cfg *scraper.Config, totals []StrategyTotal, skipped int) Diagnostics {
	anchors := doc.Elements(isAnchor)

	d := Diagnostics{
		PageURL:        doc.URL(),
		PageTitle:      doc.Title(),
		AnchorCount:    len(anchors),
		Totals:         totals,
		SkippedScripts: skipped,
	}

	for _, needle := range cfg.DebugNeedles {
		count := 0
		for _, a := range anchors {
			if strings.Contains(a.Attr("href"), needle) {
				count++
			}
		}
		d.NeedleCounts = append(d.NeedleCounts, NeedleCount{Needle: needle, Count: count})
	}

	for _, a := range anchors[:min(sampleAnchors, len(anchors))] {
		d.SampleAnchors = append(d.SampleAnchors, AnchorSample{
			Href: a.Href(),
			Text: runewidth.Truncate(strings.TrimSpace(a.Text()), sampleTextWidth, ""),
		})
	}

	return d
}
