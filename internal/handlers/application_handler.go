package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/services"
)

type ApplicationHandler struct {
	apps services.ApplicationService
	log  *zap.Logger
}

func NewApplicationHandler(apps services.ApplicationService, log *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, log: logger.OrNop(log)}
}

func (h *ApplicationHandler) HandleCreate(c *fiber.Ctx) error {
	user, err := userID(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var req models.CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	app, err := h.apps.Create(c.UserContext(), user, req)
	if errors.Is(err, models.ErrDuplicateApplication) {
		resp := fiber.Map{"error": messageFor(err, "")}
		if app != nil {
			resp["existing"] = models.NewApplicationResponse(*app)
		}
		return c.Status(fiber.StatusConflict).JSON(resp)
	}
	if err != nil {
		h.logFailure("create application", user, err)
		return respondError(c, err, "Failed to create application")
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"application": models.NewApplicationResponse(*app),
	})
}

func (h *ApplicationHandler) HandleList(c *fiber.Ctx) error {
	user, err := userID(c)
	if err != nil {
		return respondError(c, err, "")
	}

	apps, stats, err := h.apps.List(c.UserContext(), user, services.ListOptions{
		Status: c.Query("status"),
		SortBy: c.Query("sortBy", "date"),
		Order:  c.Query("order", "desc"),
	})
	if err != nil {
		h.logFailure("list applications", user, err)
		return respondError(c, err, "Failed to get applications")
	}

	resp := models.ApplicationListResponse{
		Applications: make([]models.ApplicationResponse, len(apps)),
		Stats:        stats,
	}
	for i, app := range apps {
		resp.Applications[i] = models.NewApplicationResponse(app)
	}
	return c.JSON(resp)
}

func (h *ApplicationHandler) HandleUpdate(c *fiber.Ctx) error {
	user, err := userID(c)
	if err != nil {
		return respondError(c, err, "")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, models.ErrApplicationNotFound, "")
	}

	var req models.UpdateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	app, err := h.apps.Update(c.UserContext(), user, id, req)
	if err != nil {
		h.logFailure("update application", user, err)
		return respondError(c, err, "Failed to update application")
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"application": models.NewApplicationResponse(*app),
	})
}

func (h *ApplicationHandler) HandleDelete(c *fiber.Ctx) error {
	user, err := userID(c)
	if err != nil {
		return respondError(c, err, "")
	}

	// An unparseable id cannot match a stored application.
	if id, err := uuid.Parse(c.Params("id")); err == nil {
		if err := h.apps.Delete(c.UserContext(), user, id); err != nil {
			h.logFailure("delete application", user, err)
			return respondError(c, err, "Failed to delete application")
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Application deleted",
	})
}

func (h *ApplicationHandler) HandleCheck(c *fiber.Ctx) error {
	user, err := userID(c)
	if err != nil {
		return respondError(c, err, "")
	}

	app, err := h.apps.Check(c.UserContext(), user, c.Params("jobId"))
	if err != nil {
		h.logFailure("check application", user, err)
		return respondError(c, err, "Failed to check application")
	}

	resp := fiber.Map{"applied": app != nil, "application": nil}
	if app != nil {
		resp["application"] = models.NewApplicationResponse(*app)
	}
	return c.JSON(resp)
}

func (h *ApplicationHandler) logFailure(op, user string, err error) {
	if statusFor(err) == fiber.StatusInternalServerError {
		h.log.Error("failed to "+op, logger.UserField(user), zap.Error(err))
	}
}
