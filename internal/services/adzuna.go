package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/ranking"
)

const (
	defaultAdzunaURL   = "https://api.adzuna.com/v1/api/jobs/in/search"
	adzunaPageSize     = "50"
	adzunaDefaultWhat  = "software engineer developer full stack frontend backend react python java"
	adzunaDefaultWhere = "Bangalore"
	adzunaDefaultDays  = "30"
)

// ErrProviderDisabled is returned by a provider without credentials.
var ErrProviderDisabled = errors.New("job provider not configured")

// JobProvider fetches listings from one source.
type JobProvider interface {
	Name() string
	FetchJobs(ctx context.Context, criteria ranking.Criteria) ([]models.Job, error)
}

// AdzunaProvider is the primary source of Indian listings.
type AdzunaProvider struct {
	appID      string
	appKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *HostLimiter
	log        *zap.Logger
	now        func() time.Time
}

func NewAdzunaProvider(appID, appKey string, limiter *HostLimiter, log *zap.Logger) *AdzunaProvider {
	return &AdzunaProvider{
		appID:      appID,
		appKey:     appKey,
		baseURL:    defaultAdzunaURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		limiter:    limiter,
		log:        logger.OrNop(log),
		now:        time.Now,
	}
}

// WithBaseURL points the provider at another search endpoint.
func (p *AdzunaProvider) WithBaseURL(u string) *AdzunaProvider {
	p.baseURL = strings.TrimRight(u, "/")
	return p
}

func (p *AdzunaProvider) Name() string { return "adzuna" }

type adzunaResponse struct {
	Results []adzunaJob `json:"results"`
}

type adzunaJob struct {
	ID           json.Number `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Created      string      `json:"created"`
	RedirectURL  string      `json:"redirect_url"`
	ContractTime string      `json:"contract_time"`
	SalaryMin    float64     `json:"salary_min"`
	SalaryMax    float64     `json:"salary_max"`
	Location     struct {
		DisplayName string   `json:"display_name"`
		Area        []string `json:"area"`
	} `json:"location"`
	Company struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
}

var adzunaContractTime = map[string]models.JobType{
	"full_time": models.JobTypeFullTime,
	"permanent": models.JobTypeFullTime,
	"part_time": models.JobTypePartTime,
	"contract":  models.JobTypeContract,
}

var adzunaJobTypeParam = map[string]string{
	"full-time":  "full_time",
	"part-time":  "part_time",
	"contract":   "contract",
	"internship": "contract",
}

// FetchJobs implements JobProvider.
func (p *AdzunaProvider) FetchJobs(ctx context.Context, c ranking.Criteria) ([]models.Job, error) {
	if p.appID == "" || p.appKey == "" {
		return nil, ErrProviderDisabled
	}

	endpoint := p.baseURL + "/1?" + p.query(c).Encode()
	if err := p.limiter.WaitURL(ctx, endpoint); err != nil {
		return nil, fmt.Errorf("adzuna rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create adzuna request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("adzuna API returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed adzunaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode adzuna response: %w", err)
	}

	now := p.now()
	jobs := make([]models.Job, 0, len(parsed.Results))
	for i, raw := range parsed.Results {
		jobs = append(jobs, transformAdzunaJob(raw, i, now))
	}

	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].PostedAt.After(jobs[j].PostedAt)
	})

	p.log.Info("fetched jobs from adzuna", zap.Int("count", len(jobs)))
	return jobs, nil
}

func (p *AdzunaProvider) query(c ranking.Criteria) url.Values {
	params := url.Values{}
	params.Set("app_id", p.appID)
	params.Set("app_key", p.appKey)
	params.Set("results_per_page", adzunaPageSize)
	params.Set("sort_by", "date")

	what := c.Query
	if what == "" {
		what = adzunaDefaultWhat
	}
	if len(c.Skills) > 0 {
		what += " " + strings.Join(c.Skills, " ")
	}
	if strings.EqualFold(c.WorkMode, string(models.WorkModeRemote)) {
		what += " remote"
	}
	params.Set("what", what)

	where := c.Location
	if where == "" {
		where = adzunaDefaultWhere
	}
	params.Set("where", where)

	maxDays := adzunaDefaultDays
	if d := c.DatePosted.MaxDays(); d > 0 {
		maxDays = fmt.Sprintf("%d", d)
	}
	params.Set("max_days_old", maxDays)

	if name, ok := adzunaJobTypeParam[strings.ToLower(c.JobType)]; ok {
		params.Set(name, "1")
	}

	return params
}

func transformAdzunaJob(raw adzunaJob, index int, now time.Time) models.Job {
	description := StripHTML(raw.Description)
	if description == "" {
		description = "No description available"
	}

	jobType, ok := adzunaContractTime[raw.ContractTime]
	if !ok {
		jobType = models.JobTypeFullTime
	}

	location := raw.Location.DisplayName
	if location == "" && len(raw.Location.Area) > 0 {
		location = strings.Join(raw.Location.Area, ", ")
	}
	if location == "" {
		location = "India"
	}

	company := raw.Company.DisplayName
	if company == "" {
		company = "Company"
	}

	posted := now
	if created, err := time.Parse(time.RFC3339, raw.Created); err == nil && !created.After(now) {
		posted = created
	}

	id := raw.ID.String()
	if id == "" {
		id = fmt.Sprintf("adzuna-%d-%d", now.UnixNano(), index)
	}

	applyURL := raw.RedirectURL
	if applyURL == "" {
		applyURL = "#"
	}

	return models.Job{
		ID:          id,
		Title:       StripHTML(raw.Title),
		Company:     company,
		Location:    location,
		WorkMode:    DetectWorkMode(description),
		JobType:     jobType,
		Description: description,
		Skills:      ExtractListingSkills(description),
		Salary:      INRSalaryRange(raw.SalaryMin, raw.SalaryMax),
		PostedAt:    posted,
		ApplyURL:    applyURL,
		CompanyLogo: companyLogo(company),
	}
}
