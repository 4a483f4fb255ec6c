package chat

import "strings"

// minFAQHits is the number of distinct trigger words a message needs before
// a canned answer is returned.
const minFAQHits = 2

type faqGroup struct {
	name     string
	patterns []string
	answer   string
}

var faqGroups = []faqGroup{
	{
		name:     "applications",
		patterns: []string{"where", "find", "see", "applications", "applied", "tracking"},
		answer:   `You can see all your applications in the "Applications" tab at the top of the page. There you'll find a timeline of all jobs you've applied to, with their current status.`,
	},
	{
		name:     "resume",
		patterns: []string{"upload", "resume", "cv"},
		answer:   `To upload or update your resume, click on the user icon in the top right corner and select "Upload Resume". You can upload PDF or TXT files.`,
	},
	{
		name:     "matching",
		patterns: []string{"how", "matching", "score", "work"},
		answer:   "Our matching algorithm analyzes your resume and compares it with job requirements. We look at: 1) Skill overlap (45% weight), 2) Experience level alignment (30% weight), and 3) Job title relevance (25% weight). Higher scores mean better matches!",
	},
	{
		name:     "filters",
		patterns: []string{"filter", "search", "find jobs"},
		answer:   "Use the filter panel on the left to narrow down jobs. You can filter by job title, skills, date posted, job type (full-time, part-time, etc.), work mode (remote, hybrid, on-site), and location.",
	},
}

// matchFAQ returns the first group with enough trigger words in the
// lower-cased message.
func matchFAQ(lower string) (faqGroup, bool) {
	for _, g := range faqGroups {
		hits := 0
		for _, p := range g.patterns {
			if strings.Contains(lower, p) {
				hits++
			}
		}
		if hits >= minFAQHits {
			return g, true
		}
	}
	return faqGroup{}, false
}
