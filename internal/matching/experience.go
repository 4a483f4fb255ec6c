package matching

import "strings"

type ExperienceLevel string

const (
	LevelSenior ExperienceLevel = "senior"
	LevelMid    ExperienceLevel = "mid"
	LevelJunior ExperienceLevel = "junior"
	LevelAny    ExperienceLevel = "any"
)

// Checked in this order; the first bucket with a hit wins.
var experienceMarkers = []struct {
	level   ExperienceLevel
	markers []string
}{
	{LevelSenior, []string{"senior", "lead", "principal", "10+ years", "8+ years"}},
	{LevelJunior, []string{"junior", "entry", "intern", "0-2 years", "1-2 years"}},
	{LevelMid, []string{"mid", "3-5 years", "2-4 years"}},
}

func ClassifyExperience(text string) ExperienceLevel {
	lower := strings.ToLower(text)
	for _, bucket := range experienceMarkers {
		for _, marker := range bucket.markers {
			if strings.Contains(lower, marker) {
				return bucket.level
			}
		}
	}
	return LevelAny
}

// ExperienceScore rates how close two levels are on a 0-100 scale.
func ExperienceScore(resume, job ExperienceLevel) int {
	if resume == job || resume == LevelAny || job == LevelAny {
		return 100
	}

	pair := func(a, b ExperienceLevel) bool {
		return (resume == a && job == b) || (resume == b && job == a)
	}

	switch {
	case pair(LevelMid, LevelSenior):
		return 70
	case pair(LevelJunior, LevelMid):
		return 60
	default:
		return 30
	}
}
