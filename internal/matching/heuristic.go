package matching

import (
	"context"
	"fmt"
	"math"
	"strings"

	"alfredoptarigan/job-matcher/internal/models"
)

const (
	skillWeight      = 0.45
	experienceWeight = 0.30
	titleWeight      = 0.25

	neutralScore    = 50
	maxResumeSkills = 10

	// SourceHeuristic marks results produced without a delegate.
	SourceHeuristic = "heuristic"

	fallbackExplanation = "Based on general keyword matching"
)

// Heuristic is the deterministic scorer. It is pure and always succeeds.
type Heuristic struct{}

func (Heuristic) ScoreJobMatch(_ context.Context, resumeText string, job models.Job) models.MatchResult {
	return ScoreJobMatch(resumeText, job)
}

// ScoreJobMatch scores a resume against a job using skill overlap,
// experience-level distance and title-word overlap.
func ScoreJobMatch(resumeText string, job models.Job) models.MatchResult {
	resumeSkills := ExtractSkills(resumeText)
	jobSkills := job.Skills
	if len(jobSkills) == 0 {
		jobSkills = ExtractSkills(job.Description)
	}

	matched := matchedSkills(resumeSkills, jobSkills)
	skillScore := neutralScore
	if len(jobSkills) > 0 {
		skillScore = roundHalfUp(100 * float64(len(matched)) / float64(len(jobSkills)))
	}

	experienceScore := ExperienceScore(ClassifyExperience(resumeText), ClassifyExperience(job.Description))
	titleScore := TitleScore(resumeText, job.Title)

	score := clampScore(roundHalfUp(
		float64(skillScore)*skillWeight +
			float64(experienceScore)*experienceWeight +
			float64(titleScore)*titleWeight,
	))

	if len(resumeSkills) > maxResumeSkills {
		resumeSkills = resumeSkills[:maxResumeSkills]
	}

	return models.MatchResult{
		Score:         score,
		Explanation:   explain(score, matched, experienceScore, titleScore),
		MatchedSkills: matched,
		ResumeSkills:  resumeSkills,
		Source:        SourceHeuristic,
	}
}

// TitleScore is the share of title words longer than two characters found in
// the resume, or 50 when the title has none.
func TitleScore(resumeText, title string) int {
	lowerResume := strings.ToLower(resumeText)

	var words []string
	for _, w := range strings.Fields(strings.ToLower(title)) {
		if len([]rune(w)) > 2 {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return neutralScore
	}

	hits := 0
	for _, w := range words {
		if strings.Contains(lowerResume, w) {
			hits++
		}
	}

	return roundHalfUp(100 * float64(hits) / float64(len(words)))
}

func matchedSkills(resumeSkills, jobSkills []string) []string {
	have := make(map[string]struct{}, len(resumeSkills))
	for _, s := range resumeSkills {
		have[strings.ToLower(s)] = struct{}{}
	}

	matched := []string{}
	for _, s := range jobSkills {
		if _, ok := have[strings.ToLower(s)]; ok {
			matched = append(matched, s)
		}
	}
	return matched
}

func explain(score int, matched []string, experienceScore, titleScore int) string {
	var parts []string

	switch {
	case score >= 80:
		parts = append(parts, "Excellent match")
	case score >= 60:
		parts = append(parts, "Good match")
	}

	switch {
	case len(matched) >= 3:
		parts = append(parts, fmt.Sprintf("Strong skill overlap: %s", strings.Join(matched, ", ")))
	case len(matched) > 0:
		parts = append(parts, fmt.Sprintf("Matching skills: %s", strings.Join(matched, ", ")))
	}

	if experienceScore >= 60 {
		parts = append(parts, experiencePhrase(experienceScore))
	}

	if titleScore >= 50 {
		parts = append(parts, titlePhrase(titleScore))
	}

	if len(parts) == 0 {
		return fallbackExplanation
	}
	return strings.Join(parts, ". ")
}

func experiencePhrase(score int) string {
	switch {
	case score >= 80:
		return "Experience level aligns well"
	case score >= 60:
		return "Experience level is close to the role"
	case score >= 40:
		return "Experience level differs from the role"
	default:
		return "Experience level is a stretch for this role"
	}
}

func titlePhrase(score int) string {
	if score >= 70 {
		return "Job title matches your profile"
	}
	return "Job title partially matches your profile"
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
