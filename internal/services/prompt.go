package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"alfredoptarigan/job-matcher/internal/matching"
	"alfredoptarigan/job-matcher/internal/models"
)

const (
	maxPromptResume      = 2000
	maxPromptDescription = 1000
	maxPromptJobs        = 8
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildMatchPrompt creates the prompt for scoring one job against a resume.
// Its signature matches matching.PromptFunc.
func (pb *PromptBuilder) BuildMatchPrompt(resumeText string, job models.Job, requiredSkills []string) string {
	skills := "Not listed"
	if len(requiredSkills) > 0 {
		skills = strings.Join(requiredSkills, ", ")
	}

	return fmt.Sprintf(`You are a job matching expert. Score how well a resume matches a job posting.

RESUME:
%s

JOB:
Title: %s
Company: %s
Required skills: %s
Description: %s

Weigh skill overlap (45%%), experience level alignment (30%%) and title relevance (25%%).

Return ONLY JSON in this format:
{
  "score": <integer 0-100>,
  "explanation": "<one or two sentences>",
  "matchedSkills": ["<skill>", "..."]
}`,
		truncateRunes(resumeText, maxPromptResume),
		job.Title, job.Company, skills,
		truncateRunes(job.Description, maxPromptDescription))
}

// BuildChatPrompt creates the prompt for an open-ended assistant question.
func (pb *PromptBuilder) BuildChatPrompt(message string, jobs []models.Job, resumeText, ragContext string) string {
	var listing strings.Builder
	for i, job := range jobs {
		if i == maxPromptJobs {
			break
		}
		fmt.Fprintf(&listing, "- %s at %s (%s, %s)\n", job.Title, job.Company, job.Location, job.WorkMode)
	}
	if listing.Len() == 0 {
		listing.WriteString("No jobs loaded.\n")
	}

	resume := "The user has not uploaded a resume."
	if resumeText != "" {
		resume = truncateRunes(resumeText, maxPromptResume/2)
	}

	return fmt.Sprintf(`You are a friendly career assistant inside a job search app for the Indian market.

CURRENT JOB FEED (sample):
%s
RELEVANT LISTINGS:
%s

USER RESUME:
%s

USER QUESTION:
%s

Answer in 2-4 sentences of plain text. Mention specific listings from the feed when they help. Do not invent jobs.`,
		listing.String(), ragContext, resume, message)
}

// BuildRetrievalQuery creates the query embedded for job index retrieval.
func (pb *PromptBuilder) BuildRetrievalQuery(message, resumeText string) string {
	skills := ""
	if resumeText != "" {
		skills = strings.Join(firstN(matching.ExtractSkills(resumeText), 5), ", ")
	}
	if skills == "" {
		return message
	}
	return fmt.Sprintf("%s (candidate skills: %s)", message, skills)
}

// FormatRAGContext renders search hits for a prompt.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return "No relevant context found."
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Listing %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}

func truncateRunes(s string, n int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n])
}

// truncateBytes cuts s to at most n bytes without splitting a rune.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
