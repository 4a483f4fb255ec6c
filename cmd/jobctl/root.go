package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/bootstrap"
	"alfredoptarigan/job-matcher/internal/cache"
	"alfredoptarigan/job-matcher/internal/config"
	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/services"
)

const app = "jobctl"

// Actual version can be specified in build command.
var version = "unknown"

var rootCmd = &cobra.Command{
	Use:   app,
	Short: "jobctl scores, explores and indexes job listings from the command line",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s version: %s\n", app, version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	rootCmd.AddCommand(versionCmd)
}

// env holds what every subcommand needs: configuration, a logger, the job
// feed and the delegate stack. Jobs are cached in memory only.
type env struct {
	cfg  *config.Config
	log  *zap.Logger
	jobs services.JobService
	ai   *bootstrap.AI
}

func newEnv(ctx context.Context) *env {
	cfg, _ := config.Load()

	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating a logger: %s\n", err)
		os.Exit(1)
	}

	limiter := services.NewHostLimiter(cfg.Providers.RequestsPerS, cfg.Providers.Burst)
	store := cache.NewMemory(cfg.Cache.MaxEntries)

	return &env{
		cfg:  cfg,
		log:  log,
		jobs: bootstrap.NewJobService(cfg, store, limiter, log),
		ai:   bootstrap.NewAI(ctx, cfg, limiter, log),
	}
}

// readResume extracts the text of a PDF or plain-text resume.
func readResume(path string) (string, error) {
	mimeType, err := services.ResumeMimeType(path)
	if err != nil {
		return "", err
	}
	return services.NewResumeParser().ExtractText(path, mimeType)
}
