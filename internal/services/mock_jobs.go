package services

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/ranking"
)

//go:embed mock_jobs.yaml
var mockJobsYAML []byte

type mockJob struct {
	models.Job    `yaml:",inline"`
	PostedDaysAgo int `yaml:"postedDaysAgo"`
}

// MockProvider serves the embedded demo listings. It never fails, so it is
// the last provider in every chain.
type MockProvider struct {
	now func() time.Time
}

func NewMockProvider() *MockProvider {
	return &MockProvider{now: time.Now}
}

func (p *MockProvider) Name() string { return "mock" }

// FetchJobs implements JobProvider. Listings are filtered with the same
// predicates the feed ranker applies.
func (p *MockProvider) FetchJobs(_ context.Context, c ranking.Criteria) ([]models.Job, error) {
	now := p.now()
	jobs, err := LoadMockJobs(now)
	if err != nil {
		return nil, err
	}
	return ranking.FilterJobs(jobs, c, now), nil
}

// LoadMockJobs decodes the fixture with posted dates relative to now.
func LoadMockJobs(now time.Time) ([]models.Job, error) {
	var raw []mockJob
	if err := yaml.Unmarshal(mockJobsYAML, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode mock jobs: %w", err)
	}

	jobs := make([]models.Job, len(raw))
	for i, m := range raw {
		job := m.Job
		job.PostedAt = now.AddDate(0, 0, -m.PostedDaysAgo)
		jobs[i] = job
	}
	return jobs, nil
}
