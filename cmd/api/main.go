package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/bootstrap"
	"alfredoptarigan/job-matcher/internal/cache"
	"alfredoptarigan/job-matcher/internal/chat"
	"alfredoptarigan/job-matcher/internal/config"
	"alfredoptarigan/job-matcher/internal/handlers"
	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/ranking"
	"alfredoptarigan/job-matcher/internal/repositories"
	"alfredoptarigan/job-matcher/internal/services"
)

func main() {
	cfg, envLoaded := config.Load()

	log, err := logger.New(cfg.Server.LogJSON, cfg.Server.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if !envLoaded {
		log.Info("no .env file found, using environment only")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := cache.New(ctx, cfg.Redis.URL, cfg.Cache.MaxEntries, log)
	defer store.Close()

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}

	appRepo := repositories.NewApplicationRepository(db)
	// Resumes and scores must not be served from a stale local copy.
	shared := store.Direct()
	resumeRepo := repositories.NewResumeRepository(shared)

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("failed to create upload directory", zap.Error(err))
	}

	limiter := services.NewHostLimiter(cfg.Providers.RequestsPerS, cfg.Providers.Burst)
	jobService := bootstrap.NewJobService(cfg, store, limiter, log)
	ai := bootstrap.NewAI(ctx, cfg, limiter, log)

	matchService := services.NewMatchService(
		resumeRepo,
		jobService,
		ai.Scorer,
		shared,
		cfg.Cache.ScoreTTL,
		bootstrap.MatchBatch(cfg),
		log,
	)

	worker := services.NewWorker(
		matchService,
		jobService,
		cfg.Worker.Concurrency,
		cfg.Worker.FeedRefreshInterval,
		log,
	)
	worker.Start(ctx)

	resumeService := services.NewResumeService(
		resumeRepo,
		storageService,
		services.NewResumeParser(),
		matchService,
		worker,
		cfg.Storage.MaxFileSize,
		log,
	)
	applicationService := services.NewApplicationService(appRepo, log)

	if ai.Indexer != nil {
		go func() {
			jobs, err := jobService.Feed(ctx)
			if err != nil {
				log.Warn("initial job index skipped", zap.Error(err))
				return
			}
			if n, err := ai.Indexer.Index(ctx, jobs); err != nil {
				log.Warn("initial job index failed", zap.Error(err))
			} else {
				log.Info("job index populated", zap.Int("jobs", n))
			}
		}()
	}

	assistant := chat.NewAssistant(ai.Scorer, ai.Responder, bootstrap.MatchBatch(cfg), log)

	app := fiber.New(fiber.Config{
		AppName:      "Job Matcher API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.RegisterRoutes(
		app.Group("/api/v1"),
		handlers.NewJobsHandler(jobService, matchService, ranking.NewRanker(log), ranking.NewPageTracker(store), cfg.Pagination.PageSize, log),
		handlers.NewChatHandler(jobService, resumeService, assistant, log),
		handlers.NewResumeHandler(resumeService, log),
		handlers.NewApplicationHandler(applicationService, log),
	)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Job Matcher API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/jobs",
				"POST /api/v1/chat",
				"POST /api/v1/resume/upload",
				"POST /api/v1/resume/text",
				"GET /api/v1/resume",
				"DELETE /api/v1/resume",
				"POST /api/v1/applications",
				"GET /api/v1/applications",
				"PATCH /api/v1/applications/:id",
				"DELETE /api/v1/applications/:id",
				"GET /api/v1/applications/check/:jobId",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		worker.Stop()
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Server.Env))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
