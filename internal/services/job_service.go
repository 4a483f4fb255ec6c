package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/job-matcher/internal/cache"
	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/ranking"
)

const (
	jobsCacheKey        = "jobs:all"
	DefaultJobsCacheTTL = time.Hour
)

type JobService interface {
	// FetchJobs returns listings for the criteria, from cache when fresh.
	FetchJobs(ctx context.Context, criteria ranking.Criteria) ([]models.Job, error)
	// Feed returns the unfiltered default listing set.
	Feed(ctx context.Context) ([]models.Job, error)
	// Warm refetches the default feed and replaces its cache entry.
	Warm(ctx context.Context) error
}

type jobService struct {
	remote   []JobProvider
	fallback JobProvider
	store    cache.Store
	ttl      time.Duration
	log      *zap.Logger
}

// NewJobService queries the remote providers concurrently and takes the
// first non-empty result in provider order. The fallback serves when every
// remote provider fails or returns nothing.
func NewJobService(store cache.Store, ttl time.Duration, fallback JobProvider, log *zap.Logger, remote ...JobProvider) JobService {
	if ttl <= 0 {
		ttl = DefaultJobsCacheTTL
	}
	if fallback == nil {
		fallback = NewMockProvider()
	}
	return &jobService{
		remote:   remote,
		fallback: fallback,
		store:    store,
		ttl:      ttl,
		log:      logger.OrNop(log),
	}
}

func jobsKey(c ranking.Criteria) string {
	if !c.Active() {
		return jobsCacheKey
	}
	encoded, err := json.Marshal(c)
	if err != nil {
		return jobsCacheKey
	}
	return jobsCacheKey + ":" + string(encoded)
}

func (s *jobService) FetchJobs(ctx context.Context, criteria ranking.Criteria) ([]models.Job, error) {
	criteria = criteria.Normalize().ForListings()
	key := jobsKey(criteria)

	var cached []models.Job
	found, err := s.store.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("jobs cache read failed", zap.String("key", key), zap.Error(err))
	}
	if found {
		s.log.Debug("serving jobs from cache", zap.String("key", key), zap.Int("count", len(cached)))
		return cached, nil
	}

	return s.fetchAndStore(ctx, key, criteria)
}

func (s *jobService) Feed(ctx context.Context) ([]models.Job, error) {
	return s.FetchJobs(ctx, ranking.Criteria{})
}

func (s *jobService) Warm(ctx context.Context) error {
	_, err := s.fetchAndStore(ctx, jobsCacheKey, ranking.Criteria{})
	return err
}

func (s *jobService) fetchAndStore(ctx context.Context, key string, criteria ranking.Criteria) ([]models.Job, error) {
	jobs, source, err := s.fetch(ctx, criteria)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, key, jobs, s.ttl); err != nil {
		s.log.Warn("jobs cache write failed", zap.String("key", key), zap.Error(err))
	}

	s.log.Info("jobs fetched",
		zap.String("source", source),
		zap.Int("count", len(jobs)),
		zap.Bool("filtered", criteria.Active()),
	)
	return jobs, nil
}

func (s *jobService) fetch(ctx context.Context, criteria ranking.Criteria) ([]models.Job, string, error) {
	results := make([][]models.Job, len(s.remote))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range s.remote {
		g.Go(func() error {
			jobs, err := p.FetchJobs(gctx, criteria)
			switch {
			case errors.Is(err, ErrProviderDisabled):
				s.log.Debug("job provider skipped", zap.String("provider", p.Name()))
			case err != nil:
				s.log.Warn("job provider failed", zap.String("provider", p.Name()), zap.Error(err))
			default:
				results[i] = jobs
			}
			// Provider failures never cancel the others.
			return nil
		})
	}
	_ = g.Wait()

	for i, jobs := range results {
		if len(jobs) > 0 {
			return jobs, s.remote[i].Name(), nil
		}
	}

	jobs, err := s.fallback.FetchJobs(ctx, criteria)
	if err != nil {
		return nil, "", err
	}
	return jobs, s.fallback.Name(), nil
}
