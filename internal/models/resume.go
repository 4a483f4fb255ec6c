package models

import "time"

// MinResumeLength is the minimum trimmed length of usable resume text.
const MinResumeLength = 50

type Resume struct {
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mimetype"`
	Text       string    `json:"text"`
	StoredFile string    `json:"storedFile,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}
