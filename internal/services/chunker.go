package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"alfredoptarigan/job-matcher/internal/models"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 100
)

// JobChunk is one indexed slice of a job listing.
type JobChunk struct {
	JobID   string
	Title   string
	Company string
	Index   int
	Text    string
}

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
	ChunkJob(job models.Job) []JobChunk
}

type textChunker struct {
	size    int
	overlap int
}

func NewTextChunker(size, overlap int) TextChunker {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 10
	}
	return &textChunker{size: size, overlap: overlap}
}

// ChunkJob prefixes every chunk with the title and company so each one
// stands alone in a retrieval result.
func (tc *textChunker) ChunkJob(job models.Job) []JobChunk {
	header := fmt.Sprintf("%s at %s (%s)", job.Title, job.Company, job.Location)
	body := job.Description
	if len(job.Skills) > 0 {
		body += "\n\nSkills: " + strings.Join(job.Skills, ", ")
	}

	parts := tc.ChunkText(body, tc.size-utf8.RuneCountInString(header)-2, tc.overlap)
	if len(parts) == 0 {
		parts = []string{""}
	}

	chunks := make([]JobChunk, len(parts))
	for i, part := range parts {
		chunks[i] = JobChunk{
			JobID:   job.ID,
			Title:   job.Title,
			Company: job.Company,
			Index:   i,
			Text:    strings.TrimSpace(header + "\n\n" + part),
		}
	}
	return chunks
}

// ChunkText splits on paragraphs, falling back to sentences for paragraphs
// longer than maxChunkSize. Consecutive chunks share overlap runes.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var (
		chunks  []string
		current strings.Builder
	)

	add := func(piece, sep string) {
		if current.Len() > 0 && utf8.RuneCountInString(current.String())+utf8.RuneCountInString(piece)+len(sep) > maxChunkSize {
			chunks = append(chunks, current.String())
			tail := lastRunes(current.String(), overlap)
			current.Reset()
			current.WriteString(tail)
		}
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(piece)
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			add(para, "\n\n")
			continue
		}
		for _, sentence := range splitIntoSentences(para) {
			add(sentence, " ")
		}
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func splitIntoSentences(text string) []string {
	var result []string
	for _, s := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}
	return result
}

func lastRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
