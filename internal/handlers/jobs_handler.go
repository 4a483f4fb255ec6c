package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/ranking"
	"alfredoptarigan/job-matcher/internal/services"
)

const maxPageSize = 50

type JobsHandler struct {
	jobs     services.JobService
	matches  services.MatchService
	ranker   *ranking.Ranker
	tracker  *ranking.PageTracker
	pageSize int
	log      *zap.Logger
}

func NewJobsHandler(
	jobs services.JobService,
	matches services.MatchService,
	ranker *ranking.Ranker,
	tracker *ranking.PageTracker,
	pageSize int,
	log *zap.Logger,
) *JobsHandler {
	if pageSize < 1 {
		pageSize = ranking.DefaultPageSize
	}
	return &JobsHandler{
		jobs:     jobs,
		matches:  matches,
		ranker:   ranker,
		tracker:  tracker,
		pageSize: pageSize,
		log:      logger.OrNop(log),
	}
}

func parseCriteria(c *fiber.Ctx) ranking.Criteria {
	var skills []string
	for _, s := range strings.Split(c.Query("skills"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}

	return ranking.Criteria{
		Query:      c.Query("query"),
		Location:   c.Query("location"),
		Skills:     skills,
		DatePosted: ranking.DateBucket(c.Query("datePosted")),
		JobType:    c.Query("jobType"),
		WorkMode:   c.Query("workMode"),
		MinScore:   c.QueryInt("minScore", 0),
	}.Normalize()
}

// HandleList serves one page of the ranked feed. The page falls back to 1
// whenever the criteria or the resume state changed since the user's last
// request.
func (h *JobsHandler) HandleList(c *fiber.Ctx) error {
	user, err := userID(c)
	if err != nil {
		return respondError(c, err, "")
	}
	ctx := c.UserContext()
	criteria := parseCriteria(c)

	pageSize := c.QueryInt("pageSize", h.pageSize)
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = h.pageSize
	}

	jobs, err := h.jobs.FetchJobs(ctx, criteria)
	if err != nil {
		h.log.Error("failed to fetch jobs", logger.UserField(user), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch jobs",
		})
	}

	annotations, hasResume, err := h.matches.Annotate(ctx, user, jobs)
	if err != nil {
		h.log.Warn("failed to score jobs, serving unscored", logger.UserField(user), zap.Error(err))
		annotations, hasResume = models.Annotations{}, false
	}

	ranked := h.ranker.Rank(annotations.Join(jobs), criteria, hasResume)

	page, err := h.tracker.Resolve(ctx, user, criteria.Fingerprint(hasResume), c.QueryInt("page", 1))
	if err != nil {
		h.log.Warn("page cursor unavailable", logger.UserField(user), zap.Error(err))
	}

	p := ranking.Paginate(ranked, page, pageSize)
	return c.JSON(models.JobsResponse{
		Jobs:       p.Items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Total:      p.Total,
		HasResume:  hasResume,
	})
}
