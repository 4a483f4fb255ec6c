package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/job-matcher/internal/cache"
	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/ranking"
)

type stubProvider struct {
	name  string
	jobs  []models.Job
	err   error
	calls atomic.Int32
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) FetchJobs(context.Context, ranking.Criteria) ([]models.Job, error) {
	p.calls.Add(1)
	return p.jobs, p.err
}

func jobsWithIDs(ids ...string) []models.Job {
	out := make([]models.Job, len(ids))
	for i, id := range ids {
		out[i] = models.Job{ID: id, Title: "Job " + id}
	}
	return out
}

func TestJobServiceProviderOrder(t *testing.T) {
	cases := []struct {
		name      string
		primary   *stubProvider
		secondary *stubProvider
		want      string
	}{
		{
			name:      "primary wins",
			primary:   &stubProvider{name: "a", jobs: jobsWithIDs("a1")},
			secondary: &stubProvider{name: "b", jobs: jobsWithIDs("b1")},
			want:      "a1",
		},
		{
			name:      "primary failure falls through",
			primary:   &stubProvider{name: "a", err: errors.New("timeout")},
			secondary: &stubProvider{name: "b", jobs: jobsWithIDs("b1")},
			want:      "b1",
		},
		{
			name:      "empty result falls through",
			primary:   &stubProvider{name: "a", jobs: []models.Job{}},
			secondary: &stubProvider{name: "b", jobs: jobsWithIDs("b1")},
			want:      "b1",
		},
		{
			name:      "fallback when all remote fail",
			primary:   &stubProvider{name: "a", err: ErrProviderDisabled},
			secondary: &stubProvider{name: "b", err: errors.New("500")},
			want:      "m1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fallback := &stubProvider{name: "mock", jobs: jobsWithIDs("m1")}
			svc := NewJobService(cache.NewMemory(0), time.Hour, fallback, nil, tc.primary, tc.secondary)

			jobs, err := svc.FetchJobs(context.Background(), ranking.Criteria{})
			require.NoError(t, err)
			require.Len(t, jobs, 1)
			assert.Equal(t, tc.want, jobs[0].ID)
		})
	}
}

func TestJobServiceCachesPerCriteria(t *testing.T) {
	store := cache.NewMemory(0)
	provider := &stubProvider{name: "a", jobs: jobsWithIDs("a1", "a2")}
	svc := NewJobService(store, time.Hour, nil, nil, provider)
	ctx := context.Background()

	_, err := svc.FetchJobs(ctx, ranking.Criteria{})
	require.NoError(t, err)
	_, err = svc.Feed(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), provider.calls.Load())

	var cached []models.Job
	found, err := store.Get(ctx, "jobs:all", &cached)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, cached, 2)

	_, err = svc.FetchJobs(ctx, ranking.Criteria{Query: "golang"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.calls.Load())

	require.NoError(t, svc.Warm(ctx))
	assert.Equal(t, int32(3), provider.calls.Load())
}

func TestJobsKey(t *testing.T) {
	assert.Equal(t, "jobs:all", jobsKey(ranking.Criteria{DatePosted: ranking.DateAll}))
	assert.Equal(t, `jobs:all:`, jobsKey(ranking.Criteria{Query: "go"})[:9])
	assert.NotEqual(t, jobsKey(ranking.Criteria{Query: "go"}), jobsKey(ranking.Criteria{Query: "rust"}))
}

func TestJobServiceFallsBackToMockFixture(t *testing.T) {
	svc := NewJobService(cache.NewMemory(0), 0, nil, nil)
	jobs, err := svc.FetchJobs(context.Background(), ranking.Criteria{})
	require.NoError(t, err)
	assert.Len(t, jobs, 15)
}

func TestJobServiceIgnoresMinScore(t *testing.T) {
	store := cache.NewMemory(0)
	svc := NewJobService(store, 0, nil, nil)
	ctx := context.Background()

	jobs, err := svc.FetchJobs(ctx, ranking.Criteria{MinScore: 10})
	require.NoError(t, err)
	assert.Len(t, jobs, 15, "listings are not scored yet")

	var cached []models.Job
	found, err := store.Get(ctx, "jobs:all", &cached)
	require.NoError(t, err)
	assert.True(t, found, "a score threshold shares the unfiltered cache entry")
	assert.Len(t, cached, 15)
}
