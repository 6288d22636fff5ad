package snapshot

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFeed parses an RSS or Atom document. The gofeed library detects the
// format.
func ParseFeed(r io.Reader) (*gofeed.Feed, error) {
	fp := gofeed.NewParser()
	feed, err := fp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return feed, nil
}

// FromFeed renders a feed as a page so that the same extraction strategies
// apply to it. Each item becomes
//
//	<li class="feed-item"><a href="{link}">{title}</a><div>{content}</div></li>
//
// inside a <ul class="feed-list">, where content is the item's HTML content
// (or description) parsed as a fragment, so links embedded in item bodies
// are found too.
func FromFeed(feed *gofeed.Feed, pageURL string) *Page {
	if pageURL == "" {
		pageURL = feed.Link
	}

	root := &html.Node{Type: html.DocumentNode}
	htmlEl := element(atom.Html)
	head := element(atom.Head)
	title := element(atom.Title)
	title.AppendChild(text(feed.Title))
	head.AppendChild(title)
	body := element(atom.Body)
	list := element(atom.Ul, html.Attribute{Key: "class", Val: "feed-list"})

	for _, item := range feed.Items {
		li := element(atom.Li, html.Attribute{Key: "class", Val: "feed-item"})

		a := element(atom.A, html.Attribute{Key: "href", Val: item.Link})
		a.AppendChild(text(item.Title))
		li.AppendChild(a)

		content := item.Content
		if content == "" {
			content = item.Description
		}
		if content != "" {
			div := element(atom.Div)
			appendFragment(div, content)
			li.AppendChild(div)
		}

		list.AppendChild(li)
	}

	body.AppendChild(list)
	htmlEl.AppendChild(head)
	htmlEl.AppendChild(body)
	root.AppendChild(htmlEl)

	return FromDocument(goquery.NewDocumentFromNode(root), pageURL)
}

// appendFragment parses markup in the context of parent and appends the
// result. Markup that fails to parse is kept as plain text.
func appendFragment(parent *html.Node, markup string) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), parent)
	if err != nil {
		parent.AppendChild(text(markup))
		return
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
