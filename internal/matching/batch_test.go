package matching

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/job-matcher/internal/models"
)

type countingScorer struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (c *countingScorer) ScoreJobMatch(_ context.Context, resumeText string, job models.Job) models.MatchResult {
	n := c.inFlight.Add(1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	c.inFlight.Add(-1)
	return ScoreJobMatch(resumeText, job)
}

func batchJobs(n int) []models.Job {
	jobs := make([]models.Job, n)
	for i := range jobs {
		jobs[i] = models.Job{
			ID:          fmt.Sprintf("job-%d", i),
			Title:       "Developer",
			Description: "React role",
			Skills:      []string{"React"},
		}
	}
	return jobs
}

func TestAnnotateJobsKeepsInputOrder(t *testing.T) {
	jobs := batchJobs(20)
	out := AnnotateJobs(context.Background(), Heuristic{}, "react developer", jobs, 4)

	require.Len(t, out, len(jobs))
	for i, aj := range out {
		assert.Equal(t, jobs[i].ID, aj.ID)
		require.NotNil(t, aj.MatchScore)
		assert.Equal(t, 100, *aj.MatchScore)
		assert.Equal(t, []string{"React"}, aj.MatchedSkills)
	}
}

func TestScoreJobsInBatchRespectsConcurrency(t *testing.T) {
	scorer := &countingScorer{}
	res := ScoreJobsInBatch(context.Background(), scorer, "react", batchJobs(12), 3)

	assert.Len(t, res, 12)
	assert.LessOrEqual(t, scorer.peak.Load(), int32(3))
}

func TestScoreJobsInBatchSurvivesFailingDelegate(t *testing.T) {
	chain := NewChain(time.Second, nil, DelegateAttempt("gemini", &stubGenerator{err: errors.New("quota")}, testPrompt))
	res := ScoreJobsInBatch(context.Background(), chain, "react", batchJobs(5), 0)

	require.Len(t, res, 5)
	for _, r := range res {
		assert.Equal(t, SourceHeuristic, r.Source)
	}
}

func TestScoreJobsInBatchEmpty(t *testing.T) {
	assert.Empty(t, AnnotateJobs(context.Background(), Heuristic{}, "x", nil, 2))
}

func TestBatchTimeoutBoundsStalledDelegates(t *testing.T) {
	var calls atomic.Int32
	stalled := Attempt{Name: "gemini", Score: func(ctx context.Context, _ string, _ models.Job) (models.MatchResult, error) {
		calls.Add(1)
		<-ctx.Done()
		return models.MatchResult{}, ctx.Err()
	}}
	chain := NewChain(time.Hour, nil, stalled, stalled)

	start := time.Now()
	res := Batch{Concurrency: 2, Timeout: 50 * time.Millisecond}.Score(context.Background(), chain, "react", batchJobs(10))

	assert.Less(t, time.Since(start), 2*time.Second)
	require.Len(t, res, 10)
	for _, r := range res {
		assert.Equal(t, SourceHeuristic, r.Source)
	}
	assert.LessOrEqual(t, calls.Load(), int32(4), "delegates are skipped once the batch deadline passes")
}
