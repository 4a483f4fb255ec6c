package services

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/cache"
	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/matching"
	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/repositories"
)

const DefaultScoreCacheTTL = 6 * time.Hour

type MatchService interface {
	// Annotate scores the jobs against the user's resume. hasResume is false
	// and the annotations empty when the user has no resume.
	Annotate(ctx context.Context, userID string, jobs []models.Job) (models.Annotations, bool, error)
	// Refresh scores the default feed so the next request is served from cache.
	Refresh(ctx context.Context, userID string) error
	Clear(ctx context.Context, userID string) error
}

type matchService struct {
	resumes repositories.ResumeRepository
	jobs    JobService
	scorer  matching.Scorer
	store   cache.Store
	ttl     time.Duration
	batch   matching.Batch
	log     *zap.Logger
}

func NewMatchService(
	resumes repositories.ResumeRepository,
	jobs JobService,
	scorer matching.Scorer,
	store cache.Store,
	ttl time.Duration,
	batch matching.Batch,
	log *zap.Logger,
) MatchService {
	if scorer == nil {
		scorer = matching.Heuristic{}
	}
	if ttl <= 0 {
		ttl = DefaultScoreCacheTTL
	}
	return &matchService{
		resumes: resumes,
		jobs:    jobs,
		scorer:  scorer,
		store:   store,
		ttl:     ttl,
		batch:   batch,
		log:     logger.OrNop(log),
	}
}

func scoresKey(userID string) string {
	return "scores:" + userID
}

// scoreSet is the cached score map of one user, tagged with the resume it
// was computed against. A set whose tag differs from the current resume is
// discarded.
type scoreSet struct {
	Resume string                        `json:"resume"`
	Scores map[string]models.MatchResult `json:"scores"`
}

func resumeVersion(r *models.Resume) string {
	sum := sha256.Sum256([]byte(r.Text))
	return fmt.Sprintf("%x", sum[:12])
}

func (s *matchService) loadScores(ctx context.Context, userID, version string) map[string]models.MatchResult {
	var set scoreSet
	found, err := s.store.Get(ctx, scoresKey(userID), &set)
	if err != nil {
		s.log.Warn("score cache read failed", logger.UserField(userID), zap.Error(err))
	}
	if !found || set.Resume != version || set.Scores == nil {
		return map[string]models.MatchResult{}
	}
	return set.Scores
}

// saveScores writes the set unless the resume changed while it was being
// scored.
func (s *matchService) saveScores(ctx context.Context, userID, version string, scores map[string]models.MatchResult) {
	current, err := s.resumes.Find(ctx, userID)
	if err != nil || resumeVersion(current) != version {
		s.log.Debug("resume changed during scoring, dropping scores", logger.UserField(userID))
		return
	}
	if err := s.store.Set(ctx, scoresKey(userID), scoreSet{Resume: version, Scores: scores}, s.ttl); err != nil {
		s.log.Warn("score cache write failed", logger.UserField(userID), zap.Error(err))
	}
}

func (s *matchService) Annotate(ctx context.Context, userID string, jobs []models.Job) (models.Annotations, bool, error) {
	resume, err := s.resumes.Find(ctx, userID)
	if errors.Is(err, models.ErrResumeNotFound) {
		return models.Annotations{}, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	version := resumeVersion(resume)
	scores := s.loadScores(ctx, userID, version)

	var missing []models.Job
	for _, job := range jobs {
		if _, ok := scores[job.ID]; !ok {
			missing = append(missing, job)
		}
	}

	if len(missing) > 0 {
		for id, result := range s.batch.Score(ctx, s.scorer, resume.Text, missing) {
			scores[id] = result
		}
		s.saveScores(ctx, userID, version, scores)
		s.log.Debug("scored jobs",
			logger.UserField(userID),
			zap.Int("scored", len(missing)),
			zap.Int("cached", len(jobs)-len(missing)),
		)
	}

	out := make(models.Annotations, len(jobs))
	for _, job := range jobs {
		out[job.ID] = models.Annotation{}.WithMatch(scores[job.ID])
	}
	return out, true, nil
}

func (s *matchService) Refresh(ctx context.Context, userID string) error {
	jobs, err := s.jobs.Feed(ctx)
	if err != nil {
		return err
	}
	_, _, err = s.Annotate(ctx, userID, jobs)
	return err
}

func (s *matchService) Clear(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, scoresKey(userID))
}
