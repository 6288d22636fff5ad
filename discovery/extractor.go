// Package discovery finds article links in a page snapshot. Several
// independent strategies run in a fixed order and the first strategy to
// find a URL decides its title.
package discovery

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pevans/linkharvest/article"
	"github.com/pevans/linkharvest/scraper"
	"github.com/pevans/linkharvest/snapshot"
)

// Result is the outcome of one extraction run.
type Result struct {
	RunID       uuid.UUID
	Variant     scraper.Variant
	Articles    []article.Article
	Diagnostics Diagnostics
}

// Empty reports whether no article was found.
func (r *Result) Empty() bool {
	return len(r.Articles) == 0
}

// Extractor runs the strategies of a variant against page snapshots.
type Extractor struct {
	cfg    *scraper.Config
	logger zerolog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for progress lines. The global logger is
// used by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates an extractor for cfg.
func NewExtractor(cfg *scraper.Config, opts ...Option) *Extractor {
	e := &Extractor{
		cfg:    cfg,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strategies returns the names of the strategies the configured variant
// runs, in order.
func (e *Extractor) Strategies() []string {
	strategies := e.strategies()
	names := make([]string, 0, len(strategies))
	for _, s := range strategies {
		names = append(names, s.Name())
	}
	return names
}

func (e *Extractor) strategies() []strategy {
	if e.cfg.Variant == scraper.VariantBasic {
		return []strategy{listAnchorScan{}, scriptScan{requireNeedle: true}}
	}
	return []strategy{anchorScan{}, attributeScan{}, scriptScan{}, textScan{}, containerScan{}}
}

// Extract runs every strategy against doc. It never fails: a page without
// matching links yields an empty result whose diagnostics describe the page.
func (e *Extractor) Extract(doc snapshot.Document) *Result {
	result := &Result{
		RunID:   uuid.New(),
		Variant: e.cfg.Variant,
	}

	r := &run{
		cfg:    e.cfg,
		logger: e.logger.With().Str("run_id", result.RunID.String()).Str("variant", string(e.cfg.Variant)).Logger(),
		seen:   make(map[string]struct{}),
	}

	var totals []StrategyTotal
	for _, s := range e.strategies() {
		s.Collect(doc, r)
		totals = append(totals, StrategyTotal{Strategy: s.Name(), Total: len(r.articles)})
		r.logger.Info().Str("strategy", s.Name()).Int("total", len(r.articles)).Msg("strategy complete")
	}

	articles := r.articles
	if articles == nil {
		articles = []article.Article{}
	}
	if e.cfg.Variant == scraper.VariantBasic {
		articles = article.Dedupe(articles, article.QueryKey)
		r.logger.Debug().Int("before", len(r.articles)).Int("after", len(articles)).Msg("deduplicated on fragment and query")
	}
	if e.cfg.NormalizeTitles {
		articles = NormalizeTitles(articles, e.cfg.UntitledLabel)
	}

	result.Articles = articles
	result.Diagnostics = diagnose(doc, e.cfg, totals, r.skippedScripts)

	r.logger.Info().Int("articles", len(articles)).Msg("extraction finished")
	return result
}

// run holds the state of a single extraction.
type run struct {
	cfg            *scraper.Config
	logger         zerolog.Logger
	seen           map[string]struct{}
	articles       []article.Article
	skippedScripts int
}

// admit adds href unless its fragment-stripped form was already admitted.
// title is only called for new links.
func (r *run) admit(href string, title func() string) bool {
	url := article.FragmentKey(href)
	if url == "" {
		return false
	}
	if _, ok := r.seen[url]; ok {
		return false
	}
	r.seen[url] = struct{}{}

	r.articles = append(r.articles, article.Article{Title: title(), URL: url})
	return true
}

// numbered is the title of a link found without any text around it.
func (r *run) numbered() string {
	return fmt.Sprintf(r.cfg.NumberedLabel, len(r.articles)+1)
}

// isContainer matches elements whose class or id mentions a list marker.
func (r *run) isContainer(el snapshot.Element) bool {
	class, id := el.Attr("class"), el.Attr("id")
	for _, marker := range r.cfg.ContainerMarkers.Class {
		if marker != "" && strings.Contains(class, marker) {
			return true
		}
	}
	for _, marker := range r.cfg.ContainerMarkers.ID {
		if marker != "" && strings.Contains(id, marker) {
			return true
		}
	}
	return false
}
