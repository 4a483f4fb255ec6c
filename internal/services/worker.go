package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/logger"
)

const refreshQueueSize = 100

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueRefresh(userID string)
}

type worker struct {
	matches         MatchService
	jobs            JobService
	queue           chan string
	concurrency     int
	refreshInterval time.Duration
	log             *zap.Logger
	wg              sync.WaitGroup
	stopChan        chan struct{}
	stopOnce        sync.Once
}

// NewWorker re-scores users in the background and, when refreshInterval is
// positive, keeps the default job feed cache warm.
func NewWorker(
	matches MatchService,
	jobs JobService,
	concurrency int,
	refreshInterval time.Duration,
	log *zap.Logger,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &worker{
		matches:         matches,
		jobs:            jobs,
		queue:           make(chan string, refreshQueueSize),
		concurrency:     concurrency,
		refreshInterval: refreshInterval,
		log:             logger.OrNop(log),
		stopChan:        make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.log.Info("starting worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processRefreshes(ctx, i+1)
	}

	if w.refreshInterval > 0 && w.jobs != nil {
		w.wg.Add(1)
		go w.warmFeed(ctx)
	}
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.log.Info("stopping worker")
		close(w.stopChan)
	})
	w.wg.Wait()
	w.log.Info("worker stopped")
}

// EnqueueRefresh implements Worker. A full queue drops the request; the
// next feed request scores on demand.
func (w *worker) EnqueueRefresh(userID string) {
	select {
	case <-w.stopChan:
		w.log.Warn("worker stopped, refresh not enqueued", logger.UserField(userID))
		return
	default:
	}

	select {
	case w.queue <- userID:
		w.log.Debug("refresh enqueued", logger.UserField(userID))
	default:
		w.log.Warn("refresh queue full, dropping", logger.UserField(userID))
	}
}

func (w *worker) processRefreshes(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case userID := <-w.queue:
			log := w.log.With(zap.Int("worker", workerID), logger.UserField(userID))
			if err := w.matches.Refresh(ctx, userID); err != nil {
				log.Error("score refresh failed", zap.Error(err))
				continue
			}
			log.Debug("score refresh completed")
		}
	}
}

func (w *worker) warmFeed(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.jobs.Warm(ctx); err != nil {
				w.log.Warn("failed to warm job feed", zap.Error(err))
			}
		}
	}
}
