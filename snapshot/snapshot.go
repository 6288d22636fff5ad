// Package snapshot exposes a rendered page as a read-only document that link
// extraction can query without a live browser.
package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// Matcher reports whether an element should be selected.
type Matcher func(Element) bool

// Element is a single node of the document tree.
type Element interface {
	// Tag returns the lower-case tag name.
	Tag() string
	// Attr returns the raw attribute value, or "" when it is absent.
	Attr(name string) string
	// Href mirrors the DOM href property: the href attribute resolved
	// against the document base for a, area and link elements, "" for
	// everything else.
	Href() string
	// Text returns the text content of the element and its descendants.
	Text() string
	// Descendants returns the matching descendants in document order.
	Descendants(match Matcher) []Element
	// Closest returns the nearest ancestor-or-self matching the CSS
	// selector.
	Closest(selector string) (Element, bool)
}

// Document is a snapshot of a rendered page.
type Document interface {
	URL() string
	Title() string
	// Elements returns every matching element in document order.
	Elements(match Matcher) []Element
	// Scripts returns the literal text of each inline script block.
	Scripts() []string
	// BodyText returns the visible text of the body, one block per line.
	BodyText() string
}

// Page is a Document backed by a goquery document.
type Page struct {
	doc  *goquery.Document
	url  string
	base *url.URL
}

// Parse reads an HTML page. Input that is not valid UTF-8 is decoded
// according to contentType, or the page's own meta charset when contentType
// is empty. pageURL is the address the page was saved from; relative links
// are resolved against it.
func Parse(r io.Reader, contentType, pageURL string) (*Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}

	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		src, err = charset.NewReader(src, contentType)
		if err != nil {
			return nil, fmt.Errorf("failed to decode page: %w", err)
		}
	}

	doc, err := goquery.NewDocumentFromReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return FromDocument(doc, pageURL), nil
}

// FromDocument wraps an already parsed goquery document.
func FromDocument(doc *goquery.Document, pageURL string) *Page {
	p := &Page{doc: doc, url: pageURL}

	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil && u.IsAbs() {
			p.base = u
		}
	}

	// <base href> overrides the page address, the same way browsers do it
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			if p.base != nil {
				p.base = p.base.ResolveReference(ref)
			} else if ref.IsAbs() {
				p.base = ref
			}
		}
	}

	return p
}

// URL returns the address the page was loaded from.
func (p *Page) URL() string {
	return p.url
}

// Title returns the trimmed document title.
func (p *Page) Title() string {
	return strings.TrimSpace(p.doc.Find("title").First().Text())
}

// Elements returns all elements matching match in document order.
func (p *Page) Elements(match Matcher) []Element {
	return p.collect(p.doc.Find("*"), match)
}

// Scripts returns the text of every script element.
func (p *Page) Scripts() []string {
	var scripts []string
	p.doc.Find("script").Each(func(i int, s *goquery.Selection) {
		scripts = append(scripts, s.Text())
	})
	return scripts
}

// BodyText renders the visible text of the body.
func (p *Page) BodyText() string {
	body := p.doc.Find("body").First()
	if body.Length() == 0 {
		return ""
	}
	return VisibleText(body.Get(0))
}

func (p *Page) collect(sel *goquery.Selection, match Matcher) []Element {
	var elements []Element
	sel.Each(func(i int, s *goquery.Selection) {
		el := &node{sel: s, page: p}
		if match == nil || match(el) {
			elements = append(elements, el)
		}
	})
	return elements
}

// resolve resolves href against the document base and serializes it the
// way a browser does: lowercase host, non-ASCII path bytes percent-encoded.
// The raw value is returned when it does not parse, or when it is relative
// and there is no base.
func (p *Page) resolve(href string) string {
	href = strings.TrimSpace(href)
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if p.base != nil {
		ref = p.base.ResolveReference(ref)
	} else if !ref.IsAbs() {
		return href
	}
	ref.Host = strings.ToLower(ref.Host)
	return ref.String()
}

type node struct {
	sel  *goquery.Selection
	page *Page
}

func (n *node) Tag() string {
	return goquery.NodeName(n.sel)
}

func (n *node) Attr(name string) string {
	return n.sel.AttrOr(name, "")
}

func (n *node) Href() string {
	switch n.Tag() {
	case "a", "area", "link":
	default:
		return ""
	}

	href, ok := n.sel.Attr("href")
	if !ok {
		return ""
	}
	return n.page.resolve(href)
}

func (n *node) Text() string {
	return n.sel.Text()
}

func (n *node) Descendants(match Matcher) []Element {
	return n.page.collect(n.sel.Find("*"), match)
}

func (n *node) Closest(selector string) (Element, bool) {
	found := n.sel.Closest(selector)
	if found.Length() == 0 {
		return nil, false
	}
	return &node{sel: found.First(), page: n.page}, true
}
