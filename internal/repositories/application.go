package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/job-matcher/internal/models"
)

type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	FindByJob(ctx context.Context, userID, jobID string) (*models.Application, error)
	ListByUser(ctx context.Context, userID string, status models.ApplicationStatus) ([]models.Application, error)
	// Modify applies fn to the application while holding its row lock, then
	// saves status, timeline and updated_at.
	Modify(ctx context.Context, userID string, id uuid.UUID, fn func(*models.Application)) (*models.Application, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create implements ApplicationRepository. The (user_id, job_id) unique index
// turns a concurrent duplicate into ErrDuplicateApplication.
func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrDuplicateApplication
		}
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *applicationRepository) FindByJob(ctx context.Context, userID, jobID string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

// ListByUser returns the user's applications, newest first. An empty status
// means every status.
func (r *applicationRepository) ListByUser(ctx context.Context, userID string, status models.ApplicationStatus) ([]models.Application, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var apps []models.Application
	if err := query.Order("applied_at DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) Modify(ctx context.Context, userID string, id uuid.UUID, fn func(*models.Application)) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).
			First(&app).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrApplicationNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock application: %w", err)
		}

		fn(&app)

		err = tx.Model(&models.Application{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(map[string]interface{}{
				"status":     app.Status,
				"timeline":   app.Timeline,
				"updated_at": app.UpdatedAt,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update application: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Delete implements ApplicationRepository. Deleting a missing application is
// not an error.
func (r *applicationRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Application{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return nil
}
