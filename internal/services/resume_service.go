package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/repositories"
)

const (
	resumePreviewLength = 200
	textResumeFilename  = "resume.txt"
)

// RefreshQueue schedules a background score refresh for a user.
type RefreshQueue interface {
	EnqueueRefresh(userID string)
}

type ResumeService interface {
	Upload(ctx context.Context, userID string, file *multipart.FileHeader) (*models.Resume, error)
	UploadText(ctx context.Context, userID, text string) (*models.Resume, error)
	Get(ctx context.Context, userID string) models.ResumeStatusResponse
	Text(ctx context.Context, userID string) (string, bool)
	Delete(ctx context.Context, userID string) error
}

type resumeService struct {
	repo        repositories.ResumeRepository
	storage     StorageService
	parser      ResumeParser
	matches     MatchService
	queue       RefreshQueue
	maxFileSize int64
	log         *zap.Logger
	now         func() time.Time
}

func NewResumeService(
	repo repositories.ResumeRepository,
	storage StorageService,
	parser ResumeParser,
	matches MatchService,
	queue RefreshQueue,
	maxFileSize int64,
	log *zap.Logger,
) ResumeService {
	return &resumeService{
		repo:        repo,
		storage:     storage,
		parser:      parser,
		matches:     matches,
		queue:       queue,
		maxFileSize: maxFileSize,
		log:         logger.OrNop(log),
		now:         time.Now,
	}
}

func (s *resumeService) Upload(ctx context.Context, userID string, file *multipart.FileHeader) (*models.Resume, error) {
	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return nil, models.ErrFileTooLarge
	}
	mimeType, err := ResumeMimeType(file.Filename)
	if err != nil {
		return nil, err
	}

	storedName, path, err := s.storage.SaveFile(file, userID)
	if err != nil {
		return nil, err
	}

	text, err := s.parser.ExtractText(path, mimeType)
	if err == nil && len(strings.TrimSpace(text)) < models.MinResumeLength {
		err = models.ErrInsufficientText
	}
	if err != nil {
		s.discard(storedName)
		return nil, err
	}

	resume := &models.Resume{
		Filename:   file.Filename,
		MimeType:   mimeType,
		Text:       text,
		StoredFile: storedName,
		UploadedAt: s.now(),
	}
	if err := s.replace(ctx, userID, resume); err != nil {
		s.discard(storedName)
		return nil, err
	}
	return resume, nil
}

func (s *resumeService) UploadText(ctx context.Context, userID, text string) (*models.Resume, error) {
	if len(strings.TrimSpace(text)) < models.MinResumeLength {
		return nil, models.ErrResumeTooShort
	}

	resume := &models.Resume{
		Filename:   textResumeFilename,
		MimeType:   MimeText,
		Text:       text,
		UploadedAt: s.now(),
	}
	if err := s.replace(ctx, userID, resume); err != nil {
		return nil, err
	}
	return resume, nil
}

// replace stores the new resume, removes the previous upload and schedules
// a re-score against it.
func (s *resumeService) replace(ctx context.Context, userID string, resume *models.Resume) error {
	previous, err := s.repo.Find(ctx, userID)
	if err != nil && !errors.Is(err, models.ErrResumeNotFound) {
		s.log.Warn("failed to load previous resume", logger.UserField(userID), zap.Error(err))
	}

	if err := s.repo.Save(ctx, userID, resume); err != nil {
		return err
	}
	if previous != nil && previous.StoredFile != resume.StoredFile {
		s.discard(previous.StoredFile)
	}

	s.invalidate(ctx, userID)
	if s.queue != nil {
		s.queue.EnqueueRefresh(userID)
	}

	s.log.Info("resume stored",
		logger.UserField(userID),
		zap.String("filename", resume.Filename),
		zap.Int("text_length", len(resume.Text)),
	)
	return nil
}

// Get never fails; a store error reads as no resume.
func (s *resumeService) Get(ctx context.Context, userID string) models.ResumeStatusResponse {
	resume, err := s.repo.Find(ctx, userID)
	if err != nil {
		if !errors.Is(err, models.ErrResumeNotFound) {
			s.log.Warn("failed to load resume", logger.UserField(userID), zap.Error(err))
		}
		return models.ResumeStatusResponse{HasResume: false}
	}

	uploadedAt := resume.UploadedAt
	return models.ResumeStatusResponse{
		HasResume:   true,
		Filename:    resume.Filename,
		UploadedAt:  &uploadedAt,
		TextPreview: truncateRunes(resume.Text, resumePreviewLength) + "...",
	}
}

func (s *resumeService) Text(ctx context.Context, userID string) (string, bool) {
	resume, err := s.repo.Find(ctx, userID)
	if err != nil {
		return "", false
	}
	return resume.Text, true
}

func (s *resumeService) Delete(ctx context.Context, userID string) error {
	resume, err := s.repo.Find(ctx, userID)
	if err != nil && !errors.Is(err, models.ErrResumeNotFound) {
		return err
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	if resume != nil {
		s.discard(resume.StoredFile)
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *resumeService) invalidate(ctx context.Context, userID string) {
	if s.matches == nil {
		return
	}
	if err := s.matches.Clear(ctx, userID); err != nil {
		s.log.Warn("failed to clear cached scores", logger.UserField(userID), zap.Error(err))
	}
}

func (s *resumeService) discard(storedName string) {
	if err := s.storage.DeleteFile(storedName); err != nil {
		s.log.Warn("failed to delete resume file", zap.String("file", storedName), zap.Error(err))
	}
}
