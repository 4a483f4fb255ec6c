package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/services"
)

type ResumeHandler struct {
	resumes services.ResumeService
	log     *zap.Logger
}

func NewResumeHandler(resumes services.ResumeService, log *zap.Logger) *ResumeHandler {
	return &ResumeHandler{resumes: resumes, log: logger.OrNop(log)}
}

func (h *ResumeHandler) HandleUpload(c *fiber.Ctx) error {
	user, err := userID(c)
	if err != nil {
		return respondError(c, err, "")
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	resume, err := h.resumes.Upload(c.UserContext(), user, file)
	if err != nil {
		if statusFor(err) == fiber.StatusInternalServerError {
			h.log.Error("resume upload failed", logger.UserField(user), zap.Error(err))
		}
		return respondError(c, err, "Failed to upload resume")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Resume uploaded successfully",
		"filename":   resume.Filename,
		"textLength": len(resume.Text),
	})
}

func (h *ResumeHandler) HandleText(c *fiber.Ctx) error {
	user, err := userID(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var req models.ResumeTextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if _, err := h.resumes.UploadText(c.UserContext(), user, req.Text); err != nil {
		if statusFor(err) == fiber.StatusInternalServerError {
			h.log.Error("resume save failed", logger.UserField(user), zap.Error(err))
		}
		return respondError(c, err, "Failed to save resume")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Resume saved successfully",
	})
}

func (h *ResumeHandler) HandleGet(c *fiber.Ctx) error {
	user, err := userID(c)
	if err != nil {
		return respondError(c, err, "")
	}
	return c.JSON(h.resumes.Get(c.UserContext(), user))
}

func (h *ResumeHandler) HandleDelete(c *fiber.Ctx) error {
	user, err := userID(c)
	if err != nil {
		return respondError(c, err, "")
	}

	if err := h.resumes.Delete(c.UserContext(), user); err != nil {
		h.log.Error("resume delete failed", logger.UserField(user), zap.Error(err))
		return respondError(c, err, "Failed to delete resume")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Resume deleted",
	})
}
