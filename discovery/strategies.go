package discovery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pevans/linkharvest/snapshot"
)

// ErrScriptTooLarge is reported for script blocks above the configured size
// cap. The block is skipped and the scan continues.
var ErrScriptTooLarge = errors.New("script block exceeds size limit")

// strategy is one independent way of finding article links on a page.
type strategy interface {
	Name() string
	Collect(doc snapshot.Document, r *run)
}

// anchorScan admits every anchor whose href contains the pattern needle.
type anchorScan struct{}

func (anchorScan) Name() string { return "anchors" }

func (anchorScan) Collect(doc snapshot.Document, r *run) {
	needle := r.cfg.Pattern.Needle()
	accessors := []Accessor{HrefProperty(), Attribute("href")}

	for _, el := range doc.Elements(isAnchor) {
		href := FirstNonEmpty(el, accessors)
		if !strings.Contains(href, needle) {
			continue
		}
		r.admit(href, func() string {
			return orDefault(strings.TrimSpace(el.Text()), r.cfg.UntitledLabel)
		})
	}
}

// attributeScan admits any element carrying a link in href or a data
// attribute.
type attributeScan struct{}

func (attributeScan) Name() string { return "attributes" }

func (attributeScan) Collect(doc snapshot.Document, r *run) {
	needle := r.cfg.Pattern.Needle()
	accessors := LinkAccessors(r.cfg.LinkAttributes)
	carriers := attrContains(r.cfg.Pattern.Host, r.cfg.LinkAttributes...)

	for _, el := range doc.Elements(carriers) {
		href := FirstNonEmpty(el, accessors)
		if !strings.Contains(href, needle) {
			continue
		}
		r.admit(href, func() string {
			title := strings.TrimSpace(el.Text())
			if title == "" {
				title = strings.TrimSpace(el.Attr("title"))
			}
			return orDefault(title, r.cfg.UntitledLabel)
		})
	}
}

// scriptScan matches full article URLs in the text of inline scripts.
type scriptScan struct {
	// requireNeedle skips blocks that do not mention the needle at all.
	requireNeedle bool
}

func (scriptScan) Name() string { return "scripts" }

func (s scriptScan) Collect(doc snapshot.Document, r *run) {
	for i, script := range doc.Scripts() {
		if err := s.scan(script, r); err != nil {
			r.skippedScripts++
			r.logger.Warn().Err(err).Int("block", i).Int("bytes", len(script)).Msg("skipping script block")
		}
	}
}

func (s scriptScan) scan(script string, r *run) error {
	if limit := r.cfg.MaxScriptBytes; limit > 0 && len(script) > limit {
		return fmt.Errorf("%w (%d > %d bytes)", ErrScriptTooLarge, len(script), limit)
	}
	if s.requireNeedle && !strings.Contains(script, r.cfg.Pattern.Needle()) {
		return nil
	}

	for _, u := range r.cfg.Pattern.Regexp().FindAllString(script, -1) {
		r.admit(u, r.numbered)
	}
	return nil
}

// textScan matches full article URLs in the visible page text.
type textScan struct{}

func (textScan) Name() string { return "page text" }

func (textScan) Collect(doc snapshot.Document, r *run) {
	for _, u := range r.cfg.Pattern.Regexp().FindAllString(doc.BodyText(), -1) {
		r.admit(u, r.numbered)
	}
}

// containerScan repeats the anchor scan inside elements that look like
// article lists, using the container's first line as a fallback title.
type containerScan struct{}

func (containerScan) Name() string { return "containers" }

func (containerScan) Collect(doc snapshot.Document, r *run) {
	needle := r.cfg.Pattern.Needle()
	accessors := []Accessor{HrefProperty(), Attribute("href")}
	links := anchorTo(r.cfg.Pattern.Host)

	for _, container := range doc.Elements(r.isContainer) {
		for _, link := range container.Descendants(links) {
			href := FirstNonEmpty(link, accessors)
			if !strings.Contains(href, needle) {
				continue
			}
			r.admit(href, func() string {
				title := strings.TrimSpace(link.Text())
				if title == "" {
					title = firstLine(container.Text())
				}
				return orDefault(title, r.cfg.UntitledLabel)
			})
		}
	}
}

// listAnchorScan is the anchor scan of the basic variant: only anchors whose
// raw href carries the needle, with short titles replaced by the first line
// of the enclosing block and every title normalized.
type listAnchorScan struct{}

const (
	minTitleLength    = 2
	maxFallbackLength = 100
)

func (listAnchorScan) Name() string { return "list anchors" }

func (listAnchorScan) Collect(doc snapshot.Document, r *run) {
	for _, el := range doc.Elements(anchorTo(r.cfg.Pattern.Needle())) {
		href := FirstNonEmpty(el, []Accessor{HrefProperty()})
		if href == "" {
			continue
		}
		r.admit(href, func() string {
			title := strings.TrimSpace(el.Text())
			if len([]rune(title)) < minTitleLength {
				if block, ok := el.Closest("div, li, article, section"); ok {
					title = truncateRunes(firstLine(block.Text()), maxFallbackLength)
				}
			}
			return orDefault(NormalizeTitle(title), r.cfg.UntitledLabel)
		})
	}
}
