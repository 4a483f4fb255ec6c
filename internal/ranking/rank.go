package ranking

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/models"
)

// DefaultGroup is the rank group of a job that misses an active
// location or query filter.
const DefaultGroup = 4

// Ranker filters and orders annotated jobs.
type Ranker struct {
	log *zap.Logger
	now func() time.Time
}

func NewRanker(log *zap.Logger) *Ranker {
	return &Ranker{log: logger.OrNop(log), now: time.Now}
}

// Rank is RankJobs at the current time, with the filter steps logged.
func (r *Ranker) Rank(jobs []models.AnnotatedJob, c Criteria, hasResume bool) []models.AnnotatedJob {
	c = c.Normalize()
	now := r.now()

	filtered, steps := Filter(jobs, c, now)
	for _, s := range steps {
		if s.Dropped > 0 {
			r.log.Debug("ranking filter applied",
				zap.String("filter", s.Name),
				zap.Int("dropped", s.Dropped),
				zap.Int("left", s.Left),
			)
		}
	}

	return order(filtered, c, hasResume, now)
}

// RankJobs filters jobs by c and sorts them by rank group, then by
// descending tie-breaker. Jobs with equal keys keep their input order.
// The input slice is not modified.
func RankJobs(jobs []models.AnnotatedJob, c Criteria, hasResume bool, now time.Time) []models.AnnotatedJob {
	c = c.Normalize()
	filtered, _ := Filter(jobs, c, now)
	return order(filtered, c, hasResume, now)
}

func order(jobs []models.AnnotatedJob, c Criteria, hasResume bool, now time.Time) []models.AnnotatedJob {
	m := matchers{title: newTitleMatcher(c.Query)}
	if c.Location != "" {
		m.location = newLocationMatcher(c.Location)
	}
	for i := range jobs {
		annotate(&jobs[i], c, m, hasResume, now)
	}

	sort.SliceStable(jobs, func(i, j int) bool {
		if jobs[i].RankGroup != jobs[j].RankGroup {
			return jobs[i].RankGroup < jobs[j].RankGroup
		}
		return jobs[i].TieBreaker > jobs[j].TieBreaker
	})
	return jobs
}

// matchers are compiled once per ranking pass.
type matchers struct {
	title    titleMatcher
	location locationMatcher
}

func annotate(j *models.AnnotatedJob, c Criteria, m matchers, hasResume bool, now time.Time) {
	j.LocationMatch = c.Location != "" && m.location.match(j.Location)
	j.TitleMatchLevel = m.title.level(j.Title)
	j.RankGroup = rankGroup(c, j.LocationMatch, j.TitleMatchLevel)
	j.TieBreaker = tieBreaker(*j, c, hasResume, now)
}

func rankGroup(c Criteria, locationMatch bool, titleLevel int) int {
	hasLocation, hasQuery := c.Location != "", c.Query != ""

	switch {
	case hasLocation && hasQuery:
		switch {
		case locationMatch && titleLevel > TitleNoMatch:
			return 1
		case locationMatch:
			return 2
		case titleLevel > TitleNoMatch:
			return 3
		}
	case hasLocation:
		if locationMatch {
			return 1
		}
	case hasQuery:
		if titleLevel > TitleNoMatch {
			return 1
		}
	default:
		return 1
	}
	return DefaultGroup
}

func tieBreaker(j models.AnnotatedJob, c Criteria, hasResume bool, now time.Time) int {
	score := recencyPoints(j.PostedAt, now)
	score += j.TitleMatchLevel * 100

	if hasResume && j.MatchScore != nil {
		score += *j.MatchScore
	}

	if len(c.Skills) > 0 {
		matched := 0
		for _, js := range j.Skills {
			for _, s := range c.Skills {
				if SkillsOverlap(s, js) {
					matched++
					break
				}
			}
		}
		score += 50 * matched / len(c.Skills)
	}

	return score
}

func recencyPoints(posted, now time.Time) int {
	if posted.IsZero() {
		return 0
	}

	switch age := now.Sub(posted); {
	case age < 24*time.Hour:
		return 1000
	case age < 72*time.Hour:
		return 800
	case age < 168*time.Hour:
		return 600
	case age < 720*time.Hour:
		return 400
	default:
		return 200
	}
}
