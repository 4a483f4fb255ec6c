// Package bootstrap assembles the components shared by the API server and
// the jobctl CLI.
package bootstrap

import (
	"context"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/cache"
	"alfredoptarigan/job-matcher/internal/chat"
	"alfredoptarigan/job-matcher/internal/config"
	"alfredoptarigan/job-matcher/internal/matching"
	"alfredoptarigan/job-matcher/internal/services"
)

// AI groups the delegate-backed components. Every field except Scorer may be
// nil when its backend is not configured.
type AI struct {
	Gemini    services.GeminiService
	Scorer    matching.Scorer
	Responder chat.Responder
	Indexer   *services.JobIndexer
}

// NewJobService wires Adzuna, then JSearch, then the mock fixture behind the
// tiered cache.
func NewJobService(cfg *config.Config, store cache.Store, limiter *services.HostLimiter, log *zap.Logger) services.JobService {
	return services.NewJobService(
		store,
		cfg.Cache.JobsTTL,
		services.NewMockProvider(),
		log,
		services.NewAdzunaProvider(cfg.Providers.AdzunaAppID, cfg.Providers.AdzunaAppKey, limiter, log),
		services.NewJSearchProvider(cfg.Providers.RapidAPIKey, limiter, log),
	)
}

// MatchBatch bounds batch scoring by the configured concurrency and overall
// deadline.
func MatchBatch(cfg *config.Config) matching.Batch {
	return matching.Batch{Concurrency: cfg.Matching.Concurrency, Timeout: cfg.Matching.BatchTimeout}
}

// NewAI builds the match scorer chain and the chat responder. Missing keys
// or an unreachable index only narrow what is available; the heuristic
// scorer is always present.
func NewAI(ctx context.Context, cfg *config.Config, limiter *services.HostLimiter, log *zap.Logger) *AI {
	ai := &AI{}
	prompts := services.NewPromptBuilder()

	var attempts []matching.Attempt

	gemini, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel, log)
	if err != nil {
		log.Warn("gemini disabled", zap.Error(err))
	} else {
		ai.Gemini = gemini
		attempts = append(attempts, matching.DelegateAttempt("gemini", gemini, prompts.BuildMatchPrompt))
	}

	if cfg.Groq.APIKey != "" {
		groq := services.NewGroqClient(cfg.Groq.APIKey, cfg.Groq.Model, limiter, log)
		attempts = append(attempts, matching.DelegateAttempt("groq", groq, prompts.BuildMatchPrompt))
	}

	if !cfg.Matching.UseDelegate {
		attempts = nil
	}
	ai.Scorer = matching.NewChain(cfg.Matching.DelegateTimeout, log, attempts...)

	if ai.Gemini == nil {
		return ai
	}

	if cfg.Qdrant.URL != "" {
		index, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
		if err == nil {
			err = index.InitCollection(ctx)
		}
		if err != nil {
			log.Warn("job index disabled", zap.Error(err))
		} else {
			ai.Indexer = services.NewJobIndexer(index, ai.Gemini, services.NewTextChunker(0, 0), log)
		}
	}

	ai.Responder = services.NewChatResponder(ai.Gemini, ai.Indexer, log)
	return ai
}
