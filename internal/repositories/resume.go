package repositories

import (
	"context"
	"fmt"

	"alfredoptarigan/job-matcher/internal/cache"
	"alfredoptarigan/job-matcher/internal/models"
)

type ResumeRepository interface {
	Save(ctx context.Context, userID string, resume *models.Resume) error
	Find(ctx context.Context, userID string) (*models.Resume, error)
	Delete(ctx context.Context, userID string) error
}

type resumeRepository struct {
	store cache.Store
}

// NewResumeRepository keeps one resume per user in the key-value store.
// Records do not expire.
func NewResumeRepository(store cache.Store) ResumeRepository {
	return &resumeRepository{store: store}
}

func resumeKey(userID string) string {
	return "resume:" + userID
}

func (r *resumeRepository) Save(ctx context.Context, userID string, resume *models.Resume) error {
	if err := r.store.Set(ctx, resumeKey(userID), resume, 0); err != nil {
		return fmt.Errorf("failed to save resume: %w", err)
	}
	return nil
}

func (r *resumeRepository) Find(ctx context.Context, userID string) (*models.Resume, error) {
	var resume models.Resume
	found, err := r.store.Get(ctx, resumeKey(userID), &resume)
	if err != nil {
		return nil, fmt.Errorf("failed to load resume: %w", err)
	}
	if !found {
		return nil, models.ErrResumeNotFound
	}
	return &resume, nil
}

func (r *resumeRepository) Delete(ctx context.Context, userID string) error {
	if err := r.store.Delete(ctx, resumeKey(userID)); err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	return nil
}
