package snapshot

import (
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func parse(t *testing.T, html, pageURL string) *Page {
	t.Helper()
	page, err := Parse(strings.NewReader(html), "", pageURL)
	require.NoError(t, err)
	return page
}

func byTag(tag string) Matcher {
	return func(el Element) bool { return el.Tag() == tag }
}

// TestParse_TitleAndURL verifies page metadata
func TestParse_TitleAndURL(t *testing.T) {
	page := parse(t, `<html><head><title>  My album </title></head><body></body></html>`, "https://example.com/a")

	assert.Equal(t, "My album", page.Title())
	assert.Equal(t, "https://example.com/a", page.URL())
}

// TestElements_DocumentOrder verifies elements are returned in document
// order and the matcher is applied
func TestElements_DocumentOrder(t *testing.T) {
	page := parse(t, `<body><a href="1">one</a><div><a href="2">two</a></div><a href="3">three</a></body>`, "")

	anchors := page.Elements(byTag("a"))
	require.Len(t, anchors, 3)
	assert.Equal(t, "one", anchors[0].Text())
	assert.Equal(t, "two", anchors[1].Text())
	assert.Equal(t, "three", anchors[2].Text())

	all := page.Elements(nil)
	assert.Greater(t, len(all), 3, "nil matcher selects every element")
}

// TestHref_Resolution verifies href mirrors the DOM property
func TestHref_Resolution(t *testing.T) {
	html := `
	<body>
		<a href="/s/one">relative</a>
		<a href="//cdn.example.com/x">protocol relative</a>
		<a href="https://other.example.com/y#f">absolute</a>
		<a>missing</a>
		<div href="/s/div">not a link element</div>
	</body>
	`
	page := parse(t, html, "https://example.com/list/page?x=1")
	anchors := page.Elements(byTag("a"))
	require.Len(t, anchors, 4)

	assert.Equal(t, "https://example.com/s/one", anchors[0].Href())
	assert.Equal(t, "https://cdn.example.com/x", anchors[1].Href())
	assert.Equal(t, "https://other.example.com/y#f", anchors[2].Href())
	assert.Equal(t, "", anchors[3].Href())

	divs := page.Elements(byTag("div"))
	require.Len(t, divs, 1)
	assert.Equal(t, "", divs[0].Href(), "only a, area and link elements have an href property")
	assert.Equal(t, "/s/div", divs[0].Attr("href"))
	assert.Equal(t, "", divs[0].Attr("data-url"), "missing attributes read as empty")
}

// TestHref_Serialization verifies hosts are lowercased and non-ASCII paths
// are percent-encoded, with or without a page address
func TestHref_Serialization(t *testing.T) {
	html := `<body><a href="HTTPS://MP.WEIXIN.QQ.COM/s/UP">upper</a><a href="/s/文章">unicode</a></body>`

	page := parse(t, html, "https://Example.COM/list")
	anchors := page.Elements(byTag("a"))
	require.Len(t, anchors, 2)
	assert.Equal(t, "https://mp.weixin.qq.com/s/UP", anchors[0].Href())
	assert.Equal(t, "https://example.com/s/%E6%96%87%E7%AB%A0", anchors[1].Href())

	noBase := parse(t, html, "")
	anchors = noBase.Elements(byTag("a"))
	assert.Equal(t, "https://mp.weixin.qq.com/s/UP", anchors[0].Href())
	assert.Equal(t, "/s/文章", anchors[1].Href())
}

// TestHref_NoBase verifies raw values are kept without a page address
func TestHref_NoBase(t *testing.T) {
	page := parse(t, `<body><a href=" /s/one ">x</a></body>`, "")
	anchors := page.Elements(byTag("a"))
	require.Len(t, anchors, 1)
	assert.Equal(t, "/s/one", anchors[0].Href())
}

// TestHref_BaseElement verifies <base href> takes precedence
func TestHref_BaseElement(t *testing.T) {
	html := `<html><head><base href="https://mirror.example.com/root/"></head><body><a href="s/one">x</a></body></html>`

	withPage := parse(t, html, "https://example.com/a")
	assert.Equal(t, "https://mirror.example.com/root/s/one", withPage.Elements(byTag("a"))[0].Href())

	withoutPage := parse(t, html, "")
	assert.Equal(t, "https://mirror.example.com/root/s/one", withoutPage.Elements(byTag("a"))[0].Href())
}

// TestDescendantsAndClosest verifies tree navigation
func TestDescendantsAndClosest(t *testing.T) {
	html := `
	<body>
		<section id="s1"><div class="card"><a href="#a">A</a></div><a href="#b">B</a></section>
		<a href="#c">C</a>
	</body>
	`
	page := parse(t, html, "")

	sections := page.Elements(byTag("section"))
	require.Len(t, sections, 1)
	links := sections[0].Descendants(byTag("a"))
	require.Len(t, links, 2)
	assert.Equal(t, "A", links[0].Text())
	assert.Equal(t, "B", links[1].Text())

	block, ok := links[0].Closest("div, li, article, section")
	require.True(t, ok)
	assert.Equal(t, "div", block.Tag())
	assert.Equal(t, "card", block.Attr("class"))

	outside := page.Elements(byTag("a"))[2]
	_, ok = outside.Closest("div, li, article, section")
	assert.False(t, ok)
}

// TestScripts verifies every script block's literal text is returned
func TestScripts(t *testing.T) {
	html := `<html><head><script>var a = 1;</script></head><body><script type="text/plain">b < c</script></body></html>`
	page := parse(t, html, "")

	assert.Equal(t, []string{"var a = 1;", "b < c"}, page.Scripts())
}

// TestBodyText verifies visible text rendering
func TestBodyText(t *testing.T) {
	html := `
	<html>
		<head><title>Ignored</title></head>
		<body>
			<h1>Heading</h1>
			<p>First <b>bold</b>   words</p>
			<script>var hidden = "https://mp.weixin.qq.com/s/HIDDEN";</script>
			<style>.x { color: red }</style>
			<div>Line one<br>Line two</div>
			<ul><li>a</li><li>b</li></ul>
		</body>
	</html>
	`
	page := parse(t, html, "")

	assert.Equal(t, "Heading\nFirst bold words\nLine one\nLine two\na\nb", page.BodyText())
}

// TestBodyText_NoBody verifies documents without content render empty text
func TestBodyText_NoBody(t *testing.T) {
	page := parse(t, "", "")
	assert.Equal(t, "", page.BodyText())
}

// TestParse_Charset verifies non-UTF-8 pages are decoded using their meta
// charset
func TestParse_Charset(t *testing.T) {
	html := `<html><head><meta charset="gbk"><title>文章列表</title></head><body><a href="https://mp.weixin.qq.com/s/G1">中文标题</a></body></html>`
	encoded, err := simplifiedchinese.GBK.NewEncoder().String(html)
	require.NoError(t, err)

	page, err := Parse(strings.NewReader(encoded), "", "")
	require.NoError(t, err)

	assert.Equal(t, "文章列表", page.Title())
	anchors := page.Elements(byTag("a"))
	require.Len(t, anchors, 1)
	assert.Equal(t, "中文标题", anchors[0].Text())
}

// TestParseFeed verifies RSS parsing
func TestParseFeed(t *testing.T) {
	rss := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Account</title>
		<link>https://mp.weixin.qq.com/</link>
		<item>
			<title>Post one</title>
			<link>https://mp.weixin.qq.com/s/P1</link>
			<description><![CDATA[<p>Related: <a href="https://mp.weixin.qq.com/s/P0">older</a></p>]]></description>
		</item>
	</channel>
</rss>`

	feed, err := ParseFeed(strings.NewReader(rss))
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)

	page := FromFeed(feed, "")
	assert.Equal(t, "Account", page.Title())
	assert.Equal(t, "https://mp.weixin.qq.com/", page.URL(), "feed link is the default page address")

	anchors := page.Elements(byTag("a"))
	require.Len(t, anchors, 2)
	assert.Equal(t, "https://mp.weixin.qq.com/s/P1", anchors[0].Href())
	assert.Equal(t, "Post one", anchors[0].Text())
	assert.Equal(t, "https://mp.weixin.qq.com/s/P0", anchors[1].Href())

	items := page.Elements(func(el Element) bool { return el.Attr("class") == "feed-item" })
	assert.Len(t, items, 1)
}

// TestParseFeed_Invalid verifies unparseable input is reported
func TestParseFeed_Invalid(t *testing.T) {
	_, err := ParseFeed(strings.NewReader("this is not a feed"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse feed")
}

// TestFromFeed_ContentPreferred verifies item content wins over description
func TestFromFeed_ContentPreferred(t *testing.T) {
	feed := &gofeed.Feed{
		Items: []*gofeed.Item{{
			Title:       "T",
			Link:        "https://example.com/t",
			Description: `<a href="https://example.com/desc">d</a>`,
			Content:     `<a href="https://example.com/content">c</a>`,
		}},
	}

	page := FromFeed(feed, "https://example.com/")
	anchors := page.Elements(byTag("a"))
	require.Len(t, anchors, 2)
	assert.Equal(t, "https://example.com/content", anchors[1].Href())
}
