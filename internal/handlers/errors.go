package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/job-matcher/internal/models"
)

// userMessages holds the client-facing text for domain errors.
var userMessages = map[error]string{
	models.ErrMissingUserID:        "userId query parameter is required",
	models.ErrMissingFields:        "Missing required fields: jobId, jobTitle, company",
	models.ErrInvalidStatus:        "Invalid status. Must be one of: applied, interview, offer, rejected",
	models.ErrDuplicateApplication: "Already applied to this job",
	models.ErrApplicationNotFound:  "Application not found",
	models.ErrResumeNotFound:       "Resume not found",
	models.ErrResumeTooShort:       "Resume text must be at least 50 characters",
	models.ErrUnsupportedFileType:  "Invalid file type. Please upload PDF or TXT file.",
	models.ErrInsufficientText:     "Could not extract enough text from the file. Please ensure your resume has sufficient content.",
	models.ErrFileTooLarge:         "File too large",
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrMissingUserID),
		errors.Is(err, models.ErrMissingFields),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrResumeTooShort),
		errors.Is(err, models.ErrUnsupportedFileType),
		errors.Is(err, models.ErrInsufficientText),
		errors.Is(err, models.ErrFileTooLarge):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrApplicationNotFound),
		errors.Is(err, models.ErrResumeNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrDuplicateApplication):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func messageFor(err error, fallback string) string {
	for sentinel, msg := range userMessages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return fallback
}

// respondError writes a domain error. Unknown errors become a 500 carrying
// fallback, never the internal error text.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": messageFor(err, fallback),
	})
}

// ErrorHandler renders errors that escape a handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

// userID reads the required userId query parameter.
func userID(c *fiber.Ctx) (string, error) {
	id := c.Query("userId")
	if id == "" {
		return "", models.ErrMissingUserID
	}
	return id, nil
}
