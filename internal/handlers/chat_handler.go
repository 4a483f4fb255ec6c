package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/chat"
	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/services"
)

type ChatHandler struct {
	jobs      services.JobService
	resumes   services.ResumeService
	assistant *chat.Assistant
	log       *zap.Logger
}

func NewChatHandler(jobs services.JobService, resumes services.ResumeService, assistant *chat.Assistant, log *zap.Logger) *ChatHandler {
	return &ChatHandler{jobs: jobs, resumes: resumes, assistant: assistant, log: logger.OrNop(log)}
}

func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	user, err := userID(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	ctx := c.UserContext()
	jobs, err := h.jobs.Feed(ctx)
	if err != nil {
		h.log.Warn("chat without job feed", logger.UserField(user), zap.Error(err))
		jobs = []models.Job{}
	}
	resumeText, _ := h.resumes.Text(ctx, user)

	return c.JSON(h.assistant.ProcessChatQuery(ctx, req.Message, jobs, resumeText))
}
