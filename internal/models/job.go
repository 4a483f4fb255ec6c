package models

import "time"

type WorkMode string

const (
	WorkModeRemote WorkMode = "Remote"
	WorkModeHybrid WorkMode = "Hybrid"
	WorkModeOnSite WorkMode = "On-site"
)

type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
)

// Job is a listing as delivered by a provider. It is never mutated after a
// fetch; derived values live in Annotation.
type Job struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Company     string    `json:"company" yaml:"company"`
	Location    string    `json:"location" yaml:"location"`
	WorkMode    WorkMode  `json:"workMode" yaml:"workMode"`
	JobType     JobType   `json:"jobType" yaml:"jobType"`
	Description string    `json:"description" yaml:"description"`
	Skills      []string  `json:"skills" yaml:"skills"`
	Salary      string    `json:"salary" yaml:"salary"`
	PostedAt    time.Time `json:"postedDate" yaml:"-"`
	ApplyURL    string    `json:"applyUrl" yaml:"applyUrl"`
	CompanyLogo string    `json:"companyLogo,omitempty" yaml:"companyLogo"`
}

// MatchResult is the outcome of scoring one resume against one job.
type MatchResult struct {
	Score         int      `json:"score"`
	Explanation   string   `json:"explanation"`
	MatchedSkills []string `json:"matchedSkills"`
	ResumeSkills  []string `json:"resumeSkills"`
	Source        string   `json:"source,omitempty"`
}

// Annotation holds the transient values computed for a job during a scoring
// or ranking pass.
type Annotation struct {
	MatchScore       *int     `json:"matchScore,omitempty"`
	MatchExplanation string   `json:"matchExplanation,omitempty"`
	MatchedSkills    []string `json:"matchedSkills,omitempty"`
	RankGroup        int      `json:"rankGroup,omitempty"`
	TieBreaker       int      `json:"tieBreaker,omitempty"`
	TitleMatchLevel  int      `json:"titleMatchLevel,omitempty"`
	LocationMatch    bool     `json:"locationMatch,omitempty"`
}

// Score returns the match score, or 0 when the job has not been scored.
func (a Annotation) Score() int {
	if a.MatchScore == nil {
		return 0
	}
	return *a.MatchScore
}

// WithMatch returns a copy of a carrying the given match result.
func (a Annotation) WithMatch(m MatchResult) Annotation {
	score := m.Score
	a.MatchScore = &score
	a.MatchExplanation = m.Explanation
	a.MatchedSkills = append([]string(nil), m.MatchedSkills...)
	return a
}

// Annotations maps a job ID to its annotation.
type Annotations map[string]Annotation

// AnnotatedJob is the consumption-time join of a job and its annotation.
type AnnotatedJob struct {
	Job
	Annotation
}

// Join pairs every job with its annotation, keeping the order of jobs.
func (a Annotations) Join(jobs []Job) []AnnotatedJob {
	out := make([]AnnotatedJob, len(jobs))
	for i, job := range jobs {
		out[i] = AnnotatedJob{Job: job, Annotation: a[job.ID]}
	}
	return out
}

// FromMatches builds annotations from match results keyed by job ID.
func FromMatches(matches map[string]MatchResult) Annotations {
	out := make(Annotations, len(matches))
	for id, m := range matches {
		out[id] = Annotation{}.WithMatch(m)
	}
	return out
}

// Jobs strips the annotations.
func Jobs(annotated []AnnotatedJob) []Job {
	out := make([]Job, len(annotated))
	for i, aj := range annotated {
		out[i] = aj.Job
	}
	return out
}
