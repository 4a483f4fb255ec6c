package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the API on router, normally the /api/v1 group.
func RegisterRoutes(
	router fiber.Router,
	jobs *JobsHandler,
	chat *ChatHandler,
	resume *ResumeHandler,
	apps *ApplicationHandler,
) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	router.Get("/jobs", jobs.HandleList)
	router.Post("/chat", chat.HandleChat)

	r := router.Group("/resume")
	r.Post("/upload", resume.HandleUpload)
	r.Post("/text", resume.HandleText)
	r.Get("/", resume.HandleGet)
	r.Delete("/", resume.HandleDelete)

	a := router.Group("/applications")
	a.Post("/", apps.HandleCreate)
	a.Get("/", apps.HandleList)
	a.Get("/check/:jobId", apps.HandleCheck)
	a.Patch("/:id", apps.HandleUpdate)
	a.Delete("/:id", apps.HandleDelete)
}
