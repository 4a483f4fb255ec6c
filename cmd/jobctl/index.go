package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed the job feed into the vector index used for chat context",
	Run: func(_ *cobra.Command, _ []string) {
		index()
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func index() {
	ctx := context.Background()
	e := newEnv(ctx)

	if e.ai.Indexer == nil {
		e.log.Fatal("job index is not configured",
			zap.String("hint", "set GEMINI_API_KEY and QDRANT_URL"),
		)
	}

	jobs, err := e.jobs.Feed(ctx)
	if err != nil {
		e.log.Fatal("fetching jobs", zap.Error(err))
	}

	n, err := e.ai.Indexer.Index(ctx, jobs)
	if err != nil {
		e.log.Fatal("indexing jobs", zap.Error(err))
	}
	e.log.Info("indexed jobs", zap.Int("indexed", n), zap.Int("fetched", len(jobs)))
}
