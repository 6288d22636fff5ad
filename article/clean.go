package article

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ordinalPrefix = regexp.MustCompile(`^\d+\.\s*`)
	titleDate     = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日`)
	trailingDate  = regexp.MustCompile(`\d{4}年\d{1,2}月\d{1,2}日\s*$`)
)

// Clean prepares an exported article for merging: the URL is upgraded to
// https, a "YYYY年MM月DD日" date in the title becomes the timestamp, and the
// title loses its whitespace runs, ordinal prefix and trailing date. An
// existing timestamp is kept when the title carries no date. The title may
// be left empty.
func Clean(a Article) Article {
	if rest, ok := strings.CutPrefix(a.URL, "http://"); ok {
		a.URL = "https://" + rest
	}
	if ts, ok := DateTimestamp(a.Title, time.Local); ok {
		a.Timestamp = &ts
	}
	a.Title = CleanTitle(a.Title)
	return a
}

// CleanTitle collapses whitespace, then removes a leading ordinal ("36. ")
// and a trailing "YYYY年MM月DD日" date.
func CleanTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	title = ordinalPrefix.ReplaceAllString(title, "")
	title = trailingDate.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

// DateTimestamp finds the first "YYYY年MM月DD日" date in s and returns
// midnight of that day in loc as unix seconds. Dates that do not exist,
// such as 2月30日, are rejected.
func DateTimestamp(s string, loc *time.Location) (int64, bool) {
	m := titleDate.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return 0, false
	}
	return t.Unix(), true
}

// Merge cleans and concatenates article lists in argument order, then
// removes duplicates on the query key. Of two duplicates the first is kept
// unless only the later one has a timestamp, in which case it takes the
// earlier one's place. The result is sorted newest first; articles without
// a timestamp sort last and keep their relative order.
func Merge(lists ...[]Article) []Article {
	index := make(map[string]int)
	merged := make([]Article, 0)

	for _, list := range lists {
		for _, a := range list {
			a = Clean(a)
			key := QueryKey(a.URL)

			i, ok := index[key]
			if !ok {
				index[key] = len(merged)
				merged = append(merged, a)
				continue
			}
			if a.Timestamp != nil && merged[i].Timestamp == nil {
				merged[i] = a
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return timestampOrZero(merged[i]) > timestampOrZero(merged[j])
	})
	return merged
}

func timestampOrZero(a Article) int64 {
	if a.Timestamp == nil {
		return 0
	}
	return *a.Timestamp
}
