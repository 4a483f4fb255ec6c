package models

import "time"

type CreateApplicationRequest struct {
	JobID     string            `json:"jobId"`
	JobTitle  string            `json:"jobTitle"`
	Company   string            `json:"company"`
	ApplyURL  string            `json:"applyUrl"`
	AppliedAt *time.Time        `json:"appliedAt"`
	Status    ApplicationStatus `json:"status"`
}

type UpdateApplicationRequest struct {
	Status ApplicationStatus `json:"status"`
	Note   string            `json:"note"`
}

type ApplicationResponse struct {
	Application
	NextStatuses []ApplicationStatus `json:"nextStatuses"`
}

func NewApplicationResponse(app Application) ApplicationResponse {
	return ApplicationResponse{
		Application:  app,
		NextStatuses: SuggestedNextStatuses(app.Status),
	}
}

type ApplicationListResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	Stats        ApplicationStats      `json:"stats"`
}

type ResumeTextRequest struct {
	Text string `json:"text"`
}

type ResumeStatusResponse struct {
	HasResume   bool       `json:"hasResume"`
	Filename    string     `json:"filename,omitempty"`
	UploadedAt  *time.Time `json:"uploadedAt,omitempty"`
	TextPreview string     `json:"textPreview,omitempty"`
}

type JobsResponse struct {
	Jobs       []AnnotatedJob `json:"jobs"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
	Total      int            `json:"total"`
	HasResume  bool           `json:"hasResume"`
}

type ChatRequest struct {
	Message string `json:"message"`
}
