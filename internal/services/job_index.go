package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/matching"
	"alfredoptarigan/job-matcher/internal/models"
)

const (
	chatContextLimit = 5
	chatTemperature  = 0.7
)

type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// JobIndexer keeps the semantic job index in step with the feed.
type JobIndexer struct {
	index    JobIndex
	embedder Embedder
	chunker  TextChunker
	log      *zap.Logger
}

func NewJobIndexer(index JobIndex, embedder Embedder, chunker TextChunker, log *zap.Logger) *JobIndexer {
	if chunker == nil {
		chunker = NewTextChunker(defaultChunkSize, defaultChunkOverlap)
	}
	return &JobIndexer{index: index, embedder: embedder, chunker: chunker, log: logger.OrNop(log)}
}

// Index embeds and upserts every chunk of jobs. A job that fails is logged
// and skipped; the error is returned only when nothing was indexed.
func (x *JobIndexer) Index(ctx context.Context, jobs []models.Job) (int, error) {
	if err := x.index.InitCollection(ctx); err != nil {
		return 0, fmt.Errorf("failed to init job index: %w", err)
	}

	indexed := 0
	var lastErr error
	for _, job := range jobs {
		for _, chunk := range x.chunker.ChunkJob(job) {
			embedding, err := x.embedder.GenerateEmbedding(ctx, chunk.Text)
			if err != nil {
				lastErr = err
				x.log.Warn("failed to embed job chunk", logger.JobField(job.ID), zap.Int("chunk", chunk.Index), zap.Error(err))
				continue
			}
			if err := x.index.UpsertChunk(ctx, chunk, embedding); err != nil {
				lastErr = err
				x.log.Warn("failed to upsert job chunk", logger.JobField(job.ID), zap.Int("chunk", chunk.Index), zap.Error(err))
				continue
			}
			indexed++
		}
	}

	if indexed == 0 && lastErr != nil {
		return 0, fmt.Errorf("failed to index jobs: %w", lastErr)
	}
	x.log.Info("job index updated", zap.Int("jobs", len(jobs)), zap.Int("chunks", indexed))
	return indexed, nil
}

// Retrieve returns the chunks most similar to query.
func (x *JobIndexer) Retrieve(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	embedding, err := x.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}
	return x.index.SearchSimilar(ctx, embedding, limit)
}

// ChatResponder answers open-ended chat messages through a text generator,
// grounded on listings retrieved from the job index when one is configured.
// It implements chat.Responder.
type ChatResponder struct {
	gen     matching.TextGenerator
	indexer *JobIndexer
	prompts *PromptBuilder
	log     *zap.Logger
}

func NewChatResponder(gen matching.TextGenerator, indexer *JobIndexer, log *zap.Logger) *ChatResponder {
	return &ChatResponder{gen: gen, indexer: indexer, prompts: NewPromptBuilder(), log: logger.OrNop(log)}
}

func (r *ChatResponder) Respond(ctx context.Context, message string, jobs []models.Job, resumeText string) (string, error) {
	ragContext := FormatRAGContext(nil)
	if r.indexer != nil {
		query := r.prompts.BuildRetrievalQuery(message, resumeText)
		results, err := r.indexer.Retrieve(ctx, query, chatContextLimit)
		if err != nil {
			r.log.Warn("failed to retrieve chat context", zap.Error(err))
		} else {
			ragContext = FormatRAGContext(results)
		}
	}

	prompt := r.prompts.BuildChatPrompt(message, jobs, resumeText, ragContext)
	text, err := r.gen.GenerateText(ctx, prompt, chatTemperature)
	if err != nil {
		return "", fmt.Errorf("failed to generate chat answer: %w", err)
	}
	return text, nil
}
