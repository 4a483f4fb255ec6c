package chat

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/matching"
	"alfredoptarigan/job-matcher/internal/models"
)

const (
	TypeHelp = "help"
	TypeJobs = "jobs"

	maxJobs        = 6
	maxBestMatches = 5

	noResultsMessage = "I couldn't find any jobs matching your criteria. Try broadening your search or asking about different skills."
	genericMessage   = "Here are some job recommendations based on your query:"

	defaultResponderTimeout = 15 * time.Second
)

var bestMatchPhrases = []string{"best match", "highest score", "top match"}

// Response is what the assistant shows for one message.
type Response struct {
	Type    string                `json:"type"`
	Message string                `json:"message"`
	Jobs    []models.AnnotatedJob `json:"jobs"`
}

// Responder writes a free-form answer for messages the rules do not cover.
type Responder interface {
	Respond(ctx context.Context, message string, jobs []models.Job, resumeText string) (string, error)
}

type Assistant struct {
	scorer    matching.Scorer
	responder Responder
	batch     matching.Batch
	timeout   time.Duration
	log       *zap.Logger
	now       func() time.Time
}

// NewAssistant builds an assistant. responder may be nil, in which case only
// the keyword rules answer.
func NewAssistant(scorer matching.Scorer, responder Responder, batch matching.Batch, log *zap.Logger) *Assistant {
	if scorer == nil {
		scorer = matching.Heuristic{}
	}
	return &Assistant{
		scorer:    scorer,
		responder: responder,
		batch:     batch,
		timeout:   defaultResponderTimeout,
		log:       logger.OrNop(log),
		now:       time.Now,
	}
}

// ProcessChatQuery answers a product question, or narrows jobs by the
// keywords in message.
func (a *Assistant) ProcessChatQuery(ctx context.Context, message string, jobs []models.Job, resumeText string) Response {
	lower := strings.ToLower(message)

	if g, ok := matchFAQ(lower); ok {
		a.log.Debug("chat answered from faq", zap.String("group", g.name))
		return Response{Type: TypeHelp, Message: g.answer, Jobs: []models.AnnotatedJob{}}
	}

	filtered, narrowed := a.narrow(lower, jobs)
	annotated := models.Annotations{}.Join(filtered)

	bestMatch := containsAny(lower, bestMatchPhrases...)
	if bestMatch && resumeText != "" {
		annotated = a.batch.Annotate(ctx, a.scorer, resumeText, filtered)
		sort.SliceStable(annotated, func(i, j int) bool {
			return annotated[i].Score() > annotated[j].Score()
		})
		if len(annotated) > maxBestMatches {
			annotated = annotated[:maxBestMatches]
		}
	}

	if !narrowed && !bestMatch && a.responder != nil {
		if text, ok := a.respond(ctx, message, jobs, resumeText); ok {
			return Response{Type: TypeHelp, Message: text, Jobs: []models.AnnotatedJob{}}
		}
	}

	return compose(annotated, len(jobs))
}

// narrow applies the keyword rules in order. narrowed reports whether any
// rule fired.
func (a *Assistant) narrow(lower string, jobs []models.Job) (out []models.Job, narrowed bool) {
	out = append([]models.Job{}, jobs...)

	keep := func(pred func(models.Job) bool) {
		narrowed = true
		next := out[:0:0]
		for _, j := range out {
			if pred(j) {
				next = append(next, j)
			}
		}
		out = next
	}

	if strings.Contains(lower, "remote") {
		keep(func(j models.Job) bool { return j.WorkMode == models.WorkModeRemote })
	}

	for _, skill := range matching.FirstSkillPerCategory(lower) {
		keep(func(j models.Job) bool { return mentionsSkill(j, skill) })
	}

	if strings.Contains(lower, "senior") {
		keep(func(j models.Job) bool { return strings.Contains(strings.ToLower(j.Title), "senior") })
	}

	if containsAny(lower, "junior", "entry") {
		keep(func(j models.Job) bool { return containsAny(strings.ToLower(j.Title), "junior", "intern") })
	}

	if containsAny(lower, "this week", "recent") {
		weekAgo := a.now().Add(-7 * 24 * time.Hour)
		keep(func(j models.Job) bool { return j.PostedAt.After(weekAgo) })
	}

	return out, narrowed
}

func (a *Assistant) respond(ctx context.Context, message string, jobs []models.Job, resumeText string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.responder.Respond(ctx, message, jobs, resumeText)
	if err != nil {
		a.log.Warn("chat responder failed, using rules", zap.Error(err))
		return "", false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		a.log.Warn("chat responder returned empty text, using rules")
		return "", false
	}
	return text, true
}

func compose(jobs []models.AnnotatedJob, total int) Response {
	resp := Response{Type: TypeJobs, Jobs: jobs}

	switch {
	case len(jobs) == 0:
		resp.Message = noResultsMessage
		resp.Jobs = []models.AnnotatedJob{}
		return resp
	case len(jobs) == total:
		resp.Message = genericMessage
	default:
		noun := "jobs"
		if len(jobs) == 1 {
			noun = "job"
		}
		resp.Message = fmt.Sprintf("I found %d %s matching your criteria:", len(jobs), noun)
	}

	if len(resp.Jobs) > maxJobs {
		resp.Jobs = resp.Jobs[:maxJobs]
	}
	return resp
}

func mentionsSkill(j models.Job, skill string) bool {
	for _, s := range j.Skills {
		if strings.Contains(strings.ToLower(s), skill) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(j.Description), skill) ||
		strings.Contains(strings.ToLower(j.Title), skill)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
