package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"alfredoptarigan/job-matcher/internal/models"
)

// ResumeParser turns a stored resume file into plain text.
type ResumeParser interface {
	ExtractText(filePath, mimeType string) (string, error)
}

type resumeParser struct{}

func NewResumeParser() ResumeParser {
	return &resumeParser{}
}

// ExtractText implements ResumeParser.
func (p *resumeParser) ExtractText(filePath, mimeType string) (string, error) {
	switch mimeType {
	case MimePDF:
		return extractPDF(filePath)
	case MimeText:
		raw, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to read text resume: %w", err)
		}
		return CleanText(string(raw)), nil
	default:
		return "", models.ErrUnsupportedFileType
	}
}

func extractPDF(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		// Unreadable pages are skipped; the length check catches empty output.
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	text := CleanText(b.String())
	if text == "" {
		return "", fmt.Errorf("no text content found in PDF")
	}
	return text, nil
}

// CleanText trims every line, drops blank ones and collapses runs of spaces.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
