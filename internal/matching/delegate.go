package matching

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/models"
)

// Scorer produces a match result for one resume and job. Implementations
// never fail; failures degrade to the heuristic.
type Scorer interface {
	ScoreJobMatch(ctx context.Context, resumeText string, job models.Job) models.MatchResult
}

// TextGenerator is an external text-generation backend.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
}

// PromptFunc renders the delegate prompt for one job.
type PromptFunc func(resumeText string, job models.Job, requiredSkills []string) string

// AttemptFunc is one way of scoring a job that may fail.
type AttemptFunc func(ctx context.Context, resumeText string, job models.Job) (models.MatchResult, error)

type Attempt struct {
	Name  string
	Score AttemptFunc
}

const delegateTemperature = 0.3

// DelegateAttempt scores through a text generator and parses its JSON reply.
func DelegateAttempt(name string, gen TextGenerator, prompt PromptFunc) Attempt {
	return Attempt{
		Name: name,
		Score: func(ctx context.Context, resumeText string, job models.Job) (models.MatchResult, error) {
			required := job.Skills
			if len(required) == 0 {
				required = ExtractSkills(job.Description)
			}

			text, err := gen.GenerateText(ctx, prompt(resumeText, job, required), delegateTemperature)
			if err != nil {
				return models.MatchResult{}, err
			}
			return ParseDelegateResponse(text, resumeText)
		},
	}
}

// Chain tries each attempt in order and falls back to the heuristic. Each
// attempt is bounded by timeout.
type Chain struct {
	attempts []Attempt
	timeout  time.Duration
	log      *zap.Logger
}

func NewChain(timeout time.Duration, log *zap.Logger, attempts ...Attempt) *Chain {
	return &Chain{
		attempts: attempts,
		timeout:  timeout,
		log:      logger.OrNop(log),
	}
}

func (c *Chain) ScoreJobMatch(ctx context.Context, resumeText string, job models.Job) models.MatchResult {
	for _, attempt := range c.attempts {
		if ctx.Err() != nil {
			break
		}

		result, err := c.try(ctx, attempt, resumeText, job)
		if err == nil {
			result.Source = attempt.Name
			return result
		}

		c.log.Warn("match delegate failed, trying next",
			zap.String("delegate", attempt.Name),
			logger.JobField(job.ID),
			zap.Error(err),
		)
	}

	return ScoreJobMatch(resumeText, job)
}

func (c *Chain) try(ctx context.Context, attempt Attempt, resumeText string, job models.Job) (models.MatchResult, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	type outcome struct {
		result models.MatchResult
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("delegate panicked: %v", r)}
			}
		}()
		result, err := attempt.Score(ctx, resumeText, job)
		done <- outcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		return models.MatchResult{}, fmt.Errorf("delegate %s: %w", attempt.Name, ctx.Err())
	}
}
