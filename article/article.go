package article

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Article is a single extracted article link.
type Article struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Timestamp *int64 `json:"timestamp"`
}

// KeyFunc maps an article URL to the key used for deduplication.
type KeyFunc func(url string) string

// FragmentKey strips the fragment ("#...") from a URL. This is the key every
// extraction strategy uses when admitting a link.
func FragmentKey(url string) string {
	before, _, _ := strings.Cut(url, "#")
	return before
}

// QueryKey strips both the fragment and the query string. Two URLs that
// differ only after "?" share a QueryKey.
func QueryKey(url string) string {
	before, _, _ := strings.Cut(FragmentKey(url), "?")
	return before
}

// Dedupe returns the articles whose key has not been seen before, keeping
// the first occurrence and the original order.
func Dedupe(articles []Article, key KeyFunc) []Article {
	seen := make(map[string]struct{}, len(articles))
	unique := make([]Article, 0, len(articles))

	for _, a := range articles {
		k := key(a.URL)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, a)
	}

	return unique
}

// Encode renders articles as a pretty-printed JSON array. URLs are written
// as-is ("&" is not escaped) and an empty list is rendered as "[]".
func Encode(articles []Article) (string, error) {
	if articles == nil {
		articles = []Article{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		return "", fmt.Errorf("failed to marshal articles: %w", err)
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// URLList joins the article URLs with newlines.
func URLList(articles []Article) string {
	urls := make([]string, 0, len(articles))
	for _, a := range articles {
		urls = append(urls, a.URL)
	}
	return strings.Join(urls, "\n")
}

// WriteFile writes articles to path as pretty JSON.
func WriteFile(path string, articles []Article) error {
	data, err := Encode(articles)
	if err != nil {
		return err
	}

	// 0600: owner-only read/write
	if err := os.WriteFile(path, []byte(data+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write articles: %w", err)
	}

	return nil
}

// ReadFile loads an article list previously written by WriteFile (or by
// any tool emitting the same JSON array).
func ReadFile(path string) ([]Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read articles: %w", err)
	}

	var articles []Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal articles from %s: %w", path, err)
	}

	return articles, nil
}
