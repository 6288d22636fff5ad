package discovery

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pevans/linkharvest/article"
)

var (
	ordinalPrefix   = regexp.MustCompile(`^\d+\.\s*`)
	timestampSuffix = regexp.MustCompile(`\d{10}$`)
)

// NormalizeTitle removes a leading ordinal ("12. ") and a trailing 10-digit
// unix timestamp that list pages often glue onto link text.
func NormalizeTitle(title string) string {
	title = strings.TrimSpace(title)
	title = ordinalPrefix.ReplaceAllString(title, "")
	title = timestampSuffix.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

// NormalizeTitles applies NormalizeTitle to every article. Titles left empty
// are replaced with fallback.
func NormalizeTitles(articles []article.Article, fallback string) []article.Article {
	out := make([]article.Article, len(articles))
	for i, a := range articles {
		a.Title = NormalizeTitle(a.Title)
		if a.Title == "" {
			a.Title = fallback
		}
		out[i] = a
	}
	return out
}

// firstLine returns the first line of the trimmed text.
func firstLine(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	return strings.TrimSpace(line)
}

// truncateRunes cuts s to at most n characters.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
