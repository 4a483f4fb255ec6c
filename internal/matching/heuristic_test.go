package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/job-matcher/internal/models"
)

const seniorReactResume = "Senior React Developer with 8 years experience in React, Node.js, AWS"

func seniorReactJob() models.Job {
	return models.Job{
		ID:          "job-1",
		Title:       "Senior React Developer",
		Description: "We are hiring a senior engineer to own our React frontend.",
		Skills:      []string{"React", "Node.js", "AWS", "TypeScript"},
	}
}

func TestExtractSkills(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: []string{}},
		{name: "case insensitive", text: "REACT and Docker", want: []string{"react", "docker"}},
		{name: "phrase", text: "applied Machine Learning at scale", want: []string{"machine learning"}},
		{name: "substring quirk", text: "django", want: []string{"go", "django"}},
		{name: "react native also yields react", text: "React Native apps", want: []string{"react", "react native"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractSkills(tc.text))
		})
	}
}

func TestClassifyExperience(t *testing.T) {
	cases := []struct {
		text string
		want ExperienceLevel
	}{
		{"Senior engineer", LevelSenior},
		{"Tech Lead", LevelSenior},
		{"10+ years of Go", LevelSenior},
		{"Junior developer", LevelJunior},
		{"Summer Intern", LevelJunior},
		{"1-2 years experience", LevelJunior},
		{"mid-level role", LevelMid},
		{"3-5 years", LevelMid},
		{"Backend engineer", LevelAny},
		{"Senior mentor for junior staff", LevelSenior},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyExperience(tc.text))
		})
	}
}

func TestExperienceScore(t *testing.T) {
	cases := []struct {
		resume, job ExperienceLevel
		want        int
	}{
		{LevelSenior, LevelSenior, 100},
		{LevelAny, LevelJunior, 100},
		{LevelJunior, LevelAny, 100},
		{LevelMid, LevelSenior, 70},
		{LevelSenior, LevelMid, 70},
		{LevelJunior, LevelMid, 60},
		{LevelMid, LevelJunior, 60},
		{LevelJunior, LevelSenior, 30},
		{LevelSenior, LevelJunior, 30},
	}

	for _, tc := range cases {
		t.Run(string(tc.resume)+"/"+string(tc.job), func(t *testing.T) {
			assert.Equal(t, tc.want, ExperienceScore(tc.resume, tc.job))
		})
	}
}

func TestTitleScore(t *testing.T) {
	assert.Equal(t, 100, TitleScore(seniorReactResume, "Senior React Developer"))
	assert.Equal(t, 50, TitleScore("anything", "QA"))
	assert.Equal(t, 33, TitleScore("python", "Python Data Engineer"))
}

func TestScoreJobMatchSeniorReactScenario(t *testing.T) {
	result := ScoreJobMatch(seniorReactResume, seniorReactJob())

	assert.Equal(t, 89, result.Score)
	assert.Equal(t, []string{"React", "Node.js", "AWS"}, result.MatchedSkills)
	assert.Equal(t, []string{"react", "node.js", "aws"}, result.ResumeSkills)
	assert.Equal(t,
		"Excellent match. Strong skill overlap: React, Node.js, AWS. Experience level aligns well. Job title matches your profile",
		result.Explanation,
	)
	assert.Equal(t, SourceHeuristic, result.Source)
}

func TestScoreJobMatchIsDeterministic(t *testing.T) {
	first := ScoreJobMatch(seniorReactResume, seniorReactJob())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ScoreJobMatch(seniorReactResume, seniorReactJob()))
	}
}

func TestScoreJobMatchNoSkillsIsNeutral(t *testing.T) {
	job := models.Job{ID: "x", Title: "QA", Description: "Testing role"}

	// skill 50, experience 100 (any/any), title 50: 22.5 + 30 + 12.5 = 65
	result := ScoreJobMatch("Manual tester with an eye for detail and process", job)
	assert.Equal(t, 65, result.Score)
	assert.Empty(t, result.MatchedSkills)
}

func TestScoreJobMatchFallsBackToDescriptionSkills(t *testing.T) {
	job := models.Job{ID: "x", Title: "Engineer", Description: "We use Python and Docker daily."}
	result := ScoreJobMatch("I write python services", job)
	assert.Equal(t, []string{"python"}, result.MatchedSkills)
}

func TestScoreJobMatchGenericExplanation(t *testing.T) {
	job := models.Job{
		ID:          "x",
		Title:       "Principal Kotlin Architect",
		Description: "Principal engineer owning Android platform",
		Skills:      []string{"Kotlin", "Android"},
	}
	result := ScoreJobMatch("Junior graphic designer with a flair for posters and print", job)
	assert.Equal(t, fallbackExplanation, result.Explanation)
	assert.Equal(t, 9, result.Score)
}

func TestScoreJobMatchBounds(t *testing.T) {
	resumes := []string{"", "x", seniorReactResume, "junior intern react vue angular html css python go java"}
	jobs := []models.Job{
		{},
		seniorReactJob(),
		{Title: "a b c", Description: "entry", Skills: []string{"Cobol"}},
	}

	for _, r := range resumes {
		for _, j := range jobs {
			res := ScoreJobMatch(r, j)
			assert.GreaterOrEqual(t, res.Score, 0)
			assert.LessOrEqual(t, res.Score, 100)
		}
	}
}

func TestScoreJobMatchCapsResumeSkills(t *testing.T) {
	resume := "react vue angular javascript typescript html css sass tailwind next.js redux webpack"
	res := ScoreJobMatch(resume, seniorReactJob())
	require.Len(t, res.ResumeSkills, maxResumeSkills)
}

func TestHeuristicSatisfiesScorer(t *testing.T) {
	var s Scorer = Heuristic{}
	assert.Equal(t, 89, s.ScoreJobMatch(context.Background(), seniorReactResume, seniorReactJob()).Score)
}
