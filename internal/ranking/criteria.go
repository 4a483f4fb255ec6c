package ranking

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
)

type DateBucket string

const (
	DateAll   DateBucket = "all"
	DateDay   DateBucket = "day"
	DateWeek  DateBucket = "week"
	DateMonth DateBucket = "month"
)

// Criteria is the set of user-selected filters for one ranking pass.
type Criteria struct {
	Query      string     `json:"query,omitempty"`
	Location   string     `json:"location,omitempty"`
	Skills     []string   `json:"skills,omitempty"`
	DatePosted DateBucket `json:"datePosted,omitempty"`
	JobType    string     `json:"jobType,omitempty"`
	WorkMode   string     `json:"workMode,omitempty"`
	MinScore   int        `json:"minScore,omitempty"`
}

// Normalize trims every field, drops empty skills, maps unknown date buckets
// to "all" and clamps MinScore to 0-100. When no location is given and the
// query names a known city, the city moves from the query to the location.
func (c Criteria) Normalize() Criteria {
	out := Criteria{
		Query:      strings.TrimSpace(c.Query),
		Location:   strings.TrimSpace(c.Location),
		DatePosted: DateBucket(strings.ToLower(strings.TrimSpace(string(c.DatePosted)))),
		JobType:    strings.TrimSpace(c.JobType),
		WorkMode:   strings.TrimSpace(c.WorkMode),
		MinScore:   c.MinScore,
	}

	for _, s := range c.Skills {
		if s = strings.TrimSpace(s); s != "" {
			out.Skills = append(out.Skills, s)
		}
	}

	switch out.DatePosted {
	case DateDay, DateWeek, DateMonth:
	default:
		out.DatePosted = DateAll
	}

	if strings.EqualFold(out.JobType, "all") {
		out.JobType = ""
	}
	if strings.EqualFold(out.WorkMode, "all") {
		out.WorkMode = ""
	}

	if out.MinScore < 0 {
		out.MinScore = 0
	}
	if out.MinScore > 100 {
		out.MinScore = 100
	}

	if out.Location == "" && out.Query != "" {
		if city, rest, ok := splitCity(out.Query); ok {
			out.Location = city
			out.Query = rest
		}
	}

	return out
}

// ForListings drops the criteria that need match scores. Providers and the
// listing cache see only what can be decided from the listing itself.
func (c Criteria) ForListings() Criteria {
	c.MinScore = 0
	return c
}

// Active reports whether any filter narrows the job list.
func (c Criteria) Active() bool {
	return c.Query != "" || c.Location != "" || len(c.Skills) > 0 ||
		(c.DatePosted != "" && c.DatePosted != DateAll) ||
		c.JobType != "" || c.WorkMode != "" || c.MinScore > 0
}

// Fingerprint identifies the criteria together with the resume flag. Two
// requests share a fingerprint only if they would rank identically.
func (c Criteria) Fingerprint(hasResume bool) string {
	payload, _ := json.Marshal(struct {
		Criteria
		HasResume bool `json:"hasResume"`
	}{c.Normalize(), hasResume})

	sum := sha256.Sum256(payload)
	return fmt.Sprintf("%x", sum[:12])
}
