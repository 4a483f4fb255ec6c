package matching

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"alfredoptarigan/job-matcher/internal/models"
)

// Batch scores many jobs against one resume. Concurrency <= 0 means
// unbounded. A positive Timeout bounds the whole batch: once it passes, a
// Chain skips its delegates and the remaining jobs get heuristic scores.
type Batch struct {
	Concurrency int
	Timeout     time.Duration
}

// Score scores every job and returns the results keyed by job ID. It waits
// for all scorings.
func (b Batch) Score(ctx context.Context, scorer Scorer, resumeText string, jobs []models.Job) map[string]models.MatchResult {
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	results := make([]models.MatchResult, len(jobs))

	var g errgroup.Group
	if b.Concurrency > 0 {
		g.SetLimit(b.Concurrency)
	}

	for i, job := range jobs {
		g.Go(func() error {
			results[i] = scorer.ScoreJobMatch(ctx, resumeText, job)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]models.MatchResult, len(jobs))
	for i, job := range jobs {
		out[job.ID] = results[i]
	}
	return out
}

// Annotate scores jobs and joins the results back in input order.
func (b Batch) Annotate(ctx context.Context, scorer Scorer, resumeText string, jobs []models.Job) []models.AnnotatedJob {
	return models.FromMatches(b.Score(ctx, scorer, resumeText, jobs)).Join(jobs)
}

// ScoreJobsInBatch is an unbounded-time Batch with the given concurrency.
func ScoreJobsInBatch(ctx context.Context, scorer Scorer, resumeText string, jobs []models.Job, concurrency int) map[string]models.MatchResult {
	return Batch{Concurrency: concurrency}.Score(ctx, scorer, resumeText, jobs)
}

// AnnotateJobs is ScoreJobsInBatch joined back in input order.
func AnnotateJobs(ctx context.Context, scorer Scorer, resumeText string, jobs []models.Job, concurrency int) []models.AnnotatedJob {
	return Batch{Concurrency: concurrency}.Annotate(ctx, scorer, resumeText, jobs)
}
