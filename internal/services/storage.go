package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/job-matcher/internal/models"
)

const (
	MimePDF  = "application/pdf"
	MimeText = "text/plain"
)

var allowedResumeExt = map[string]string{
	".pdf": MimePDF,
	".txt": MimeText,
}

type StorageService interface {
	SaveFile(file *multipart.FileHeader, userID string) (storedName, path string, err error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{uploadPath: uploadPath}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

// ResumeMimeType resolves the accepted mime type of an upload from its
// extension. Anything other than PDF or plain text is rejected.
func ResumeMimeType(filename string) (string, error) {
	mime, ok := allowedResumeExt[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return "", models.ErrUnsupportedFileType
	}
	return mime, nil
}

func (s *storageService) SaveFile(file *multipart.FileHeader, userID string) (string, string, error) {
	if _, err := ResumeMimeType(file.Filename); err != nil {
		return "", "", err
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))

	storedName := fmt.Sprintf("resume_%s_%s%s", sanitizeName(userID), uuid.New().String(), ext)
	path := filepath.Join(s.uploadPath, storedName)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return storedName, path, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filepath.Base(filename))
}

// DeleteFile removes a stored file. A file that is already gone is not an
// error.
func (s *storageService) DeleteFile(filename string) error {
	if filename == "" {
		return nil
	}
	if err := os.Remove(s.GetFilePath(filename)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
