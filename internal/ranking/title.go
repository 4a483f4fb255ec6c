package ranking

import (
	"regexp"
	"strings"
)

const (
	TitleNoMatch = iota
	TitlePartial
	TitleStrong
	TitleExact
)

// titleMatcher grades titles against one query. Build it once per ranking
// pass.
type titleMatcher struct {
	query string
	word  *regexp.Regexp
}

func newTitleMatcher(query string) titleMatcher {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return titleMatcher{}
	}
	return titleMatcher{query: q, word: regexp.MustCompile(`\b` + regexp.QuoteMeta(q) + `\b`)}
}

func (m titleMatcher) level(title string) int {
	if m.query == "" {
		return TitleNoMatch
	}
	t := strings.ToLower(strings.TrimSpace(title))

	switch {
	case t == m.query:
		return TitleExact
	case strings.HasPrefix(t, m.query):
		return TitleStrong
	case m.word.MatchString(t):
		return TitleStrong
	case strings.Contains(t, m.query):
		return TitlePartial
	default:
		return TitleNoMatch
	}
}

// TitleMatchLevel grades how well a job title answers the query.
func TitleMatchLevel(title, query string) int {
	return newTitleMatcher(query).level(title)
}
