package ranking

import (
	"strings"
	"time"

	"alfredoptarigan/job-matcher/internal/models"
)

// Step records how many jobs a single predicate removed.
type Step struct {
	Name    string
	Initial int
	Dropped int
	Left    int
}

type predicate struct {
	name string
	keep func(models.AnnotatedJob) bool
}

// predicates returns only the filters that are active for c.
func predicates(c Criteria, now time.Time) []predicate {
	var out []predicate

	if c.Query != "" {
		q := strings.ToLower(c.Query)
		out = append(out, predicate{name: "query", keep: func(j models.AnnotatedJob) bool {
			return strings.Contains(strings.ToLower(j.Title), q) ||
				strings.Contains(strings.ToLower(j.Description), q) ||
				strings.Contains(strings.ToLower(j.Company), q)
		}})
	}

	if c.Location != "" {
		loc := newLocationMatcher(c.Location)
		out = append(out, predicate{name: "location", keep: func(j models.AnnotatedJob) bool {
			return loc.match(j.Location)
		}})
	}

	if len(c.Skills) > 0 {
		skills := c.Skills
		out = append(out, predicate{name: "skills", keep: func(j models.AnnotatedJob) bool {
			for _, s := range skills {
				for _, js := range j.Skills {
					if SkillsOverlap(s, js) {
						return true
					}
				}
			}
			return false
		}})
	}

	if maxDays := c.DatePosted.MaxDays(); maxDays > 0 {
		out = append(out, predicate{name: "date_posted", keep: func(j models.AnnotatedJob) bool {
			if j.PostedAt.IsZero() {
				return true
			}
			return now.Sub(j.PostedAt).Hours()/24 <= float64(maxDays)
		}})
	}

	if c.JobType != "" {
		jt := c.JobType
		out = append(out, predicate{name: "job_type", keep: func(j models.AnnotatedJob) bool {
			return strings.EqualFold(string(j.JobType), jt)
		}})
	}

	if c.WorkMode != "" {
		wm := c.WorkMode
		out = append(out, predicate{name: "work_mode", keep: func(j models.AnnotatedJob) bool {
			return strings.EqualFold(string(j.WorkMode), wm)
		}})
	}

	if c.MinScore > 0 {
		threshold := c.MinScore
		out = append(out, predicate{name: "min_score", keep: func(j models.AnnotatedJob) bool {
			return j.Score() >= threshold
		}})
	}

	return out
}

// MaxDays is the age limit in days of the bucket, or 0 for "all".
func (d DateBucket) MaxDays() int {
	switch d {
	case DateDay:
		return 1
	case DateWeek:
		return 7
	case DateMonth:
		return 30
	default:
		return 0
	}
}

// SkillsOverlap is a case-insensitive substring test in either direction,
// so "go" overlaps "django".
func SkillsOverlap(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Filter keeps the jobs that pass every active criterion. The input slice is
// not modified.
func Filter(jobs []models.AnnotatedJob, c Criteria, now time.Time) ([]models.AnnotatedJob, []Step) {
	kept := make([]models.AnnotatedJob, len(jobs))
	copy(kept, jobs)

	preds := predicates(c, now)
	steps := make([]Step, 0, len(preds))

	for _, p := range preds {
		initial := len(kept)
		next := kept[:0:0]
		for _, j := range kept {
			if p.keep(j) {
				next = append(next, j)
			}
		}
		kept = next
		steps = append(steps, Step{Name: p.name, Initial: initial, Dropped: initial - len(kept), Left: len(kept)})
	}

	return kept, steps
}

// FilterJobs is Filter over plain jobs. They carry no score, so a score
// threshold is ignored.
func FilterJobs(jobs []models.Job, c Criteria, now time.Time) []models.Job {
	kept, _ := Filter(models.Annotations{}.Join(jobs), c.Normalize().ForListings(), now)
	return models.Jobs(kept)
}
