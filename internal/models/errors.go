package models

import "errors"

var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("already applied to this job")
	ErrFileTooLarge         = errors.New("file exceeds the maximum upload size")
	ErrInsufficientText     = errors.New("could not extract enough text from the file. Please ensure your resume has sufficient content")
	ErrInvalidStatus        = errors.New("invalid status. Must be one of: applied, interview, offer, rejected")
	ErrMissingFields        = errors.New("missing required fields: jobId, jobTitle, company")
	ErrMissingUserID        = errors.New("userId is required")
	ErrResumeNotFound       = errors.New("resume not found")
	ErrResumeTooShort       = errors.New("resume text must be at least 50 characters")
	ErrUnsupportedFileType  = errors.New("invalid file type. Please upload PDF or TXT file")
)
