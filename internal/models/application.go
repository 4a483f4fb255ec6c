package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "applied"
	StatusInterview ApplicationStatus = "interview"
	StatusOffer     ApplicationStatus = "offer"
	StatusRejected  ApplicationStatus = "rejected"
)

// ValidStatuses lists the accepted statuses in display order.
var ValidStatuses = []ApplicationStatus{StatusApplied, StatusInterview, StatusOffer, StatusRejected}

func (s ApplicationStatus) Valid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// SuggestedNextStatuses returns the transitions offered to the user. Any valid
// status is accepted on update; this only drives suggestions.
func SuggestedNextStatuses(s ApplicationStatus) []ApplicationStatus {
	switch s {
	case StatusApplied:
		return []ApplicationStatus{StatusInterview, StatusRejected}
	case StatusInterview:
		return []ApplicationStatus{StatusOffer, StatusRejected}
	default:
		return []ApplicationStatus{}
	}
}

type TimelineEntry struct {
	Status ApplicationStatus `json:"status"`
	Date   time.Time         `json:"date"`
	Note   string            `json:"note"`
}

type Application struct {
	ID        uuid.UUID                         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    string                            `gorm:"type:text;not null;uniqueIndex:idx_applications_user_job" json:"-"`
	JobID     string                            `gorm:"type:text;not null;uniqueIndex:idx_applications_user_job" json:"jobId"`
	JobTitle  string                            `gorm:"type:text;not null" json:"jobTitle"`
	Company   string                            `gorm:"type:text;not null" json:"company"`
	ApplyURL  string                            `gorm:"type:text" json:"applyUrl"`
	Status    ApplicationStatus                 `gorm:"not null;default:'applied'" json:"status"`
	AppliedAt time.Time                         `gorm:"not null" json:"appliedAt"`
	UpdatedAt time.Time                         `json:"updatedAt"`
	Timeline  datatypes.JSONSlice[TimelineEntry] `gorm:"type:jsonb" json:"timeline"`
}

func (Application) TableName() string {
	return "applications"
}

type ApplicationStats struct {
	Total     int `json:"total"`
	Applied   int `json:"applied"`
	Interview int `json:"interview"`
	Offer     int `json:"offer"`
	Rejected  int `json:"rejected"`
}
