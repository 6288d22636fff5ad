package scraper

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Errors returned while validating extraction configuration
var (
	ErrInvalidPattern = errors.New("pattern must be an absolute http(s) URL prefix such as https://mp.weixin.qq.com/s")
	ErrUnknownVariant = errors.New("variant must be enhanced or basic")
)

// DefaultPattern is the article URL prefix of WeChat official-account posts.
const DefaultPattern = "https://mp.weixin.qq.com/s"

// TokenClass is the set of characters accepted in the token following the
// path prefix. URLs using other characters are truncated at the first one.
const TokenClass = `[A-Za-z0-9_?=&-]`

// Variant selects which set of strategies an extraction run uses.
type Variant string

const (
	// VariantEnhanced runs all five strategies with fragment-only dedup.
	VariantEnhanced Variant = "enhanced"
	// VariantBasic runs the anchor and script strategies, then dedups the
	// merged list again on fragment and query.
	VariantBasic Variant = "basic"
)

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantEnhanced, VariantBasic:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// Pattern identifies the article URLs to extract: scheme://host/path-prefix
// followed by a token.
type Pattern struct {
	Host       string `json:"host"`
	PathPrefix string `json:"path_prefix"`

	re *regexp.Regexp
}

// ParsePattern builds a pattern from a URL prefix. The scheme is accepted as
// either http or https when matching, whatever raw uses.
func ParsePattern(raw string) (Pattern, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Pattern{}, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Pattern{}, fmt.Errorf("%w: %q", ErrInvalidPattern, raw)
	}

	prefix := strings.TrimSuffix(u.Path, "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}

	p := Pattern{Host: u.Host, PathPrefix: prefix}
	p.re = p.compile()
	return p, nil
}

// MustParsePattern is like ParsePattern but panics on error.
func MustParsePattern(raw string) Pattern {
	p, err := ParsePattern(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Needle is the substring an href must contain: host plus path prefix.
func (p Pattern) Needle() string {
	return p.Host + p.PathPrefix
}

// Origin returns the https origin of the pattern's host.
func (p Pattern) Origin() string {
	return "https://" + p.Host + "/"
}

// Regexp matches complete article URLs in free text.
func (p Pattern) Regexp() *regexp.Regexp {
	if p.re == nil {
		return p.compile()
	}
	return p.re
}

// String returns the pattern as a URL prefix.
func (p Pattern) String() string {
	return "https://" + p.Needle()
}

func (p Pattern) compile() *regexp.Regexp {
	return regexp.MustCompile(`https?://` + regexp.QuoteMeta(p.Needle()) + `/` + TokenClass + `+`)
}

// ContainerMarkers lists the substrings of class and id attributes that mark
// an element as an article list container.
type ContainerMarkers struct {
	Class []string `json:"class" yaml:"class"`
	ID    []string `json:"id" yaml:"id"`
}

// Config defines how article links are extracted from a page.
type Config struct {
	Pattern Pattern `json:"pattern"`
	Variant Variant `json:"variant"`

	// NormalizeTitles strips ordinal prefixes and timestamp suffixes from
	// titles after extraction. The basic variant always normalizes anchor
	// titles.
	NormalizeTitles bool `json:"normalize_titles"`

	// UntitledLabel replaces titles that could not be extracted.
	UntitledLabel string `json:"untitled_label"`
	// NumberedLabel is a fmt format taking the article's position, used for
	// links found in scripts or page text.
	NumberedLabel string `json:"numbered_label"`

	// LinkAttributes are the attributes checked, in order, for a link value
	// by the attribute scan.
	LinkAttributes   []string         `json:"link_attributes"`
	ContainerMarkers ContainerMarkers `json:"container_markers"`

	// DebugNeedles are partial href substrings counted for diagnostics.
	DebugNeedles []string `json:"debug_needles"`
	// MaxScriptBytes caps the size of a script block the script scan will
	// read. Zero disables the cap.
	MaxScriptBytes int `json:"max_script_bytes"`
}

// NewConfig creates a configuration for pattern with default values.
func NewConfig(pattern Pattern) *Config {
	return &Config{
		Pattern:        pattern,
		Variant:        VariantEnhanced,
		UntitledLabel:  "(No title)",
		NumberedLabel:  "Article %d",
		LinkAttributes: []string{"href", "data-url", "data-link"},
		ContainerMarkers: ContainerMarkers{
			Class: []string{"article", "item", "list"},
			ID:    []string{"article", "item"},
		},
		DebugNeedles: []string{"weixin", "mp.weixin"},
	}
}

// DefaultConfig returns the configuration for WeChat article links.
func DefaultConfig() *Config {
	return NewConfig(MustParsePattern(DefaultPattern))
}

// Validate checks the configuration for values extraction cannot use.
func (c *Config) Validate() error {
	if c.Pattern.Host == "" {
		return ErrInvalidPattern
	}
	if _, err := ParseVariant(string(c.Variant)); err != nil {
		return err
	}
	if !validNumberedLabel(c.NumberedLabel) {
		return fmt.Errorf("numbered_label must contain exactly one %%d and no other verb, got %q", c.NumberedLabel)
	}
	if c.MaxScriptBytes < 0 {
		return fmt.Errorf("max_script_bytes must not be negative")
	}
	return nil
}

// validNumberedLabel reports whether label formats a single int: exactly one
// %d and no other verb. "%%" is a literal percent sign.
func validNumberedLabel(label string) bool {
	rest := strings.ReplaceAll(label, "%%", "")
	return strings.Count(rest, "%") == 1 && strings.Count(rest, "%d") == 1
}
