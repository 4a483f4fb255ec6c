package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/repositories"
)

const initialTimelineNote = "Application submitted"

// ListOptions narrows and orders an application listing.
type ListOptions struct {
	Status string // "" or "all" for every status
	SortBy string // date, company or status
	Order  string // asc or desc
}

type ApplicationService interface {
	// Create returns ErrDuplicateApplication together with the existing
	// record when the user already applied to the job.
	Create(ctx context.Context, userID string, req models.CreateApplicationRequest) (*models.Application, error)
	List(ctx context.Context, userID string, opts ListOptions) ([]models.Application, models.ApplicationStats, error)
	Update(ctx context.Context, userID string, id uuid.UUID, req models.UpdateApplicationRequest) (*models.Application, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	Check(ctx context.Context, userID, jobID string) (*models.Application, error)
}

type applicationService struct {
	repo repositories.ApplicationRepository
	log  *zap.Logger
	now  func() time.Time
}

func NewApplicationService(repo repositories.ApplicationRepository, log *zap.Logger) ApplicationService {
	return &applicationService{repo: repo, log: logger.OrNop(log), now: time.Now}
}

func (s *applicationService) Create(ctx context.Context, userID string, req models.CreateApplicationRequest) (*models.Application, error) {
	if strings.TrimSpace(req.JobID) == "" || strings.TrimSpace(req.JobTitle) == "" || strings.TrimSpace(req.Company) == "" {
		return nil, models.ErrMissingFields
	}

	status := req.Status
	if status == "" {
		status = models.StatusApplied
	}
	if !status.Valid() {
		return nil, models.ErrInvalidStatus
	}

	existing, err := s.repo.FindByJob(ctx, userID, req.JobID)
	if err == nil {
		return existing, models.ErrDuplicateApplication
	}
	if !errors.Is(err, models.ErrApplicationNotFound) {
		return nil, err
	}

	now := s.now()
	appliedAt := now
	if req.AppliedAt != nil && !req.AppliedAt.IsZero() {
		appliedAt = *req.AppliedAt
	}

	app := &models.Application{
		ID:        uuid.New(),
		UserID:    userID,
		JobID:     req.JobID,
		JobTitle:  req.JobTitle,
		Company:   req.Company,
		ApplyURL:  req.ApplyURL,
		Status:    status,
		AppliedAt: appliedAt,
		UpdatedAt: now,
		Timeline: datatypes.JSONSlice[models.TimelineEntry]{
			{Status: models.StatusApplied, Date: appliedAt, Note: initialTimelineNote},
		},
	}

	if err := s.repo.Create(ctx, app); err != nil {
		if errors.Is(err, models.ErrDuplicateApplication) {
			// Lost a race with a concurrent create.
			if existing, findErr := s.repo.FindByJob(ctx, userID, req.JobID); findErr == nil {
				return existing, models.ErrDuplicateApplication
			}
		}
		return nil, err
	}

	s.log.Info("application created",
		logger.UserField(userID),
		logger.JobField(app.JobID),
		zap.String("status", string(app.Status)),
	)
	return app, nil
}

// List returns the filtered, sorted applications. Stats cover the filtered
// set.
func (s *applicationService) List(ctx context.Context, userID string, opts ListOptions) ([]models.Application, models.ApplicationStats, error) {
	var status models.ApplicationStatus
	if opts.Status != "" && opts.Status != "all" {
		status = models.ApplicationStatus(opts.Status)
	}

	apps, err := s.repo.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, models.ApplicationStats{}, err
	}

	sortApplications(apps, opts.SortBy, opts.Order)
	return apps, computeStats(apps), nil
}

func sortApplications(apps []models.Application, sortBy, order string) {
	asc := strings.EqualFold(order, "asc")

	var less func(a, b models.Application) int
	switch sortBy {
	case "company":
		less = func(a, b models.Application) int {
			return strings.Compare(strings.ToLower(a.Company), strings.ToLower(b.Company))
		}
	case "status":
		less = func(a, b models.Application) int {
			return strings.Compare(string(a.Status), string(b.Status))
		}
	default:
		less = func(a, b models.Application) int {
			return a.AppliedAt.Compare(b.AppliedAt)
		}
	}

	sort.SliceStable(apps, func(i, j int) bool {
		c := less(apps[i], apps[j])
		if asc {
			return c < 0
		}
		return c > 0
	})
}

func computeStats(apps []models.Application) models.ApplicationStats {
	stats := models.ApplicationStats{Total: len(apps)}
	for _, app := range apps {
		switch app.Status {
		case models.StatusApplied:
			stats.Applied++
		case models.StatusInterview:
			stats.Interview++
		case models.StatusOffer:
			stats.Offer++
		case models.StatusRejected:
			stats.Rejected++
		}
	}
	return stats
}

func (s *applicationService) Update(ctx context.Context, userID string, id uuid.UUID, req models.UpdateApplicationRequest) (*models.Application, error) {
	if req.Status != "" && !req.Status.Valid() {
		return nil, models.ErrInvalidStatus
	}

	now := s.now()
	app, err := s.repo.Modify(ctx, userID, id, func(app *models.Application) {
		if req.Status != "" {
			app.Status = req.Status
		}

		note := req.Note
		if note == "" {
			note = fmt.Sprintf("Status changed to %s", app.Status)
		}
		app.Timeline = append(app.Timeline, models.TimelineEntry{Status: app.Status, Date: now, Note: note})
		app.UpdatedAt = now
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("application updated",
		logger.UserField(userID),
		zap.String("application_id", id.String()),
		zap.String("status", string(app.Status)),
	)
	return app, nil
}

func (s *applicationService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}

// Check returns nil without error when the user has not applied to the job.
func (s *applicationService) Check(ctx context.Context, userID, jobID string) (*models.Application, error) {
	app, err := s.repo.FindByJob(ctx, userID, jobID)
	if errors.Is(err, models.ErrApplicationNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}
