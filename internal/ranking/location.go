package ranking

import (
	"regexp"
	"sort"
	"strings"
)

var cityAliases = map[string]string{
	"bangalore": "bengaluru",
	"bengaluru": "bengaluru",
	"delhi":     "delhi",
	"new delhi": "delhi",
	"mumbai":    "mumbai",
	"bombay":    "mumbai",
	"hyderabad": "hyderabad",
}

type aliasPattern struct {
	alias     string
	canonical string
	re        *regexp.Regexp
	// anyCase matches the alias in text that has not been lower-cased.
	anyCase   *regexp.Regexp
}

// Longest alias first so "new delhi" wins over "delhi".
var aliasPatterns = func() []aliasPattern {
	aliases := make([]string, 0, len(cityAliases))
	for alias := range cityAliases {
		aliases = append(aliases, alias)
	}
	sort.Slice(aliases, func(i, j int) bool {
		if len(aliases[i]) != len(aliases[j]) {
			return len(aliases[i]) > len(aliases[j])
		}
		return aliases[i] < aliases[j]
	})

	patterns := make([]aliasPattern, len(aliases))
	for i, alias := range aliases {
		patterns[i] = aliasPattern{
			alias:     alias,
			canonical: cityAliases[alias],
			re:        regexp.MustCompile(`\b` + regexp.QuoteMeta(alias) + `\b`),
			anyCase:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(alias) + `\b`),
		}
	}
	return patterns
}()

// NormalizeLocation lower-cases s and rewrites every known city alias to its
// canonical name.
func NormalizeLocation(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	if canonical, ok := cityAliases[lower]; ok {
		return canonical
	}

	for _, p := range aliasPatterns {
		if p.alias == p.canonical {
			continue
		}
		lower = p.re.ReplaceAllString(lower, p.canonical)
	}
	return lower
}

// locationMatcher compares job locations with one filter. Build it once per
// filtering pass.
type locationMatcher struct {
	filter string
	word   *regexp.Regexp
}

func newLocationMatcher(filter string) locationMatcher {
	normalized := NormalizeLocation(filter)
	if normalized == "" {
		return locationMatcher{}
	}
	return locationMatcher{
		filter: normalized,
		word:   regexp.MustCompile(`\b` + regexp.QuoteMeta(normalized) + `\b`),
	}
}

func (m locationMatcher) match(jobLocation string) bool {
	if m.filter == "" {
		return true
	}
	normalizedJob := NormalizeLocation(jobLocation)
	return m.word.MatchString(normalizedJob) || strings.Contains(normalizedJob, m.filter)
}

// LocationMatches compares a job location with a location filter after alias
// normalization: whole-word match first, then plain containment.
func LocationMatches(jobLocation, filter string) bool {
	return newLocationMatcher(filter).match(jobLocation)
}

// splitCity pulls the first known city alias out of a free-text query.
// Indices come from the query itself; lower-casing may change byte lengths.
func splitCity(query string) (city, rest string, ok bool) {
	for _, p := range aliasPatterns {
		loc := p.anyCase.FindStringIndex(query)
		if loc == nil {
			continue
		}
		city = query[loc[0]:loc[1]]
		rest = strings.Join(strings.Fields(query[:loc[0]]+" "+query[loc[1]:]), " ")
		return city, rest, true
	}
	return "", "", false
}
