package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/ranking"
)

const (
	jsearchHost       = "jsearch.p.rapidapi.com"
	defaultJSearchURL = "https://" + jsearchHost + "/search"
)

// JSearchProvider is the secondary listing source, reached through RapidAPI.
type JSearchProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *HostLimiter
	log        *zap.Logger
}

func NewJSearchProvider(apiKey string, limiter *HostLimiter, log *zap.Logger) *JSearchProvider {
	return &JSearchProvider{
		apiKey:     apiKey,
		baseURL:    defaultJSearchURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		limiter:    limiter,
		log:        logger.OrNop(log),
	}
}

func (p *JSearchProvider) WithBaseURL(u string) *JSearchProvider {
	p.baseURL = u
	return p
}

func (p *JSearchProvider) Name() string { return "jsearch" }

type jsearchResponse struct {
	Data []jsearchJob `json:"data"`
}

type jsearchJob struct {
	ID             string   `json:"job_id"`
	Title          string   `json:"job_title"`
	EmployerName   string   `json:"employer_name"`
	EmployerLogo   string   `json:"employer_logo"`
	City           string   `json:"job_city"`
	State          string   `json:"job_state"`
	Country        string   `json:"job_country"`
	IsRemote       bool     `json:"job_is_remote"`
	EmploymentType string   `json:"job_employment_type"`
	Description    string   `json:"job_description"`
	MinSalary      *float64 `json:"job_min_salary"`
	MaxSalary      *float64 `json:"job_max_salary"`
	PostedAt       string   `json:"job_posted_at_datetime_utc"`
	ApplyLink      string   `json:"job_apply_link"`
}

var jsearchEmploymentType = map[string]models.JobType{
	"FULLTIME":   models.JobTypeFullTime,
	"PARTTIME":   models.JobTypePartTime,
	"CONTRACTOR": models.JobTypeContract,
	"INTERN":     models.JobTypeInternship,
}

var jsearchDatePosted = map[ranking.DateBucket]string{
	ranking.DateDay:   "today",
	ranking.DateWeek:  "week",
	ranking.DateMonth: "month",
}

// FetchJobs implements JobProvider.
func (p *JSearchProvider) FetchJobs(ctx context.Context, c ranking.Criteria) ([]models.Job, error) {
	if p.apiKey == "" {
		return nil, ErrProviderDisabled
	}

	params := url.Values{}
	query := c.Query
	if query == "" {
		query = "software developer"
	}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("num_pages", "1")

	datePosted, ok := jsearchDatePosted[c.DatePosted]
	if !ok {
		datePosted = "all"
	}
	params.Set("date_posted", datePosted)

	location := c.Location
	if location == "" {
		location = "India"
	}
	params.Set("location", location)

	if strings.EqualFold(c.WorkMode, string(models.WorkModeRemote)) {
		params.Set("remote_jobs_only", "true")
	}

	endpoint := p.baseURL + "?" + params.Encode()
	if err := p.limiter.WaitURL(ctx, endpoint); err != nil {
		return nil, fmt.Errorf("jsearch rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create jsearch request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", p.apiKey)
	req.Header.Set("X-RapidAPI-Host", jsearchHost)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsearch request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("jsearch API returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed jsearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode jsearch response: %w", err)
	}

	jobs := make([]models.Job, 0, len(parsed.Data))
	for _, raw := range parsed.Data {
		jobs = append(jobs, transformJSearchJob(raw))
	}

	p.log.Info("fetched jobs from jsearch", zap.Int("count", len(jobs)))
	return jobs, nil
}

func transformJSearchJob(raw jsearchJob) models.Job {
	location := raw.Country
	if raw.City != "" {
		location = raw.City + ", " + raw.State
	}

	workMode := models.WorkModeOnSite
	if raw.IsRemote {
		workMode = models.WorkModeRemote
	}

	jobType, ok := jsearchEmploymentType[strings.ToUpper(raw.EmploymentType)]
	if !ok {
		jobType = models.JobTypeFullTime
	}

	description := StripHTML(raw.Description)

	var posted time.Time
	if t, err := time.Parse(time.RFC3339, raw.PostedAt); err == nil {
		posted = t
	}

	logo := raw.EmployerLogo
	if logo == "" {
		logo = companyLogo(raw.EmployerName)
	}

	return models.Job{
		ID:          raw.ID,
		Title:       raw.Title,
		Company:     raw.EmployerName,
		Location:    location,
		WorkMode:    workMode,
		JobType:     jobType,
		Description: description,
		Skills:      ExtractListingSkills(description),
		Salary:      USDSalaryRange(raw.MinSalary, raw.MaxSalary),
		PostedAt:    posted,
		ApplyURL:    raw.ApplyLink,
		CompanyLogo: logo,
	}
}
