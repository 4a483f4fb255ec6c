package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Qdrant     QdrantConfig
	Gemini     GeminiConfig
	Groq       GroqConfig
	Providers  ProvidersConfig
	Matching   MatchingConfig
	Cache      CacheConfig
	Storage    StorageConfig
	Worker     WorkerConfig
	Pagination PaginationConfig
}

type ServerConfig struct {
	Port    string
	Env     string
	LogJSON bool
	Debug   bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	URL string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
}

type GroqConfig struct {
	APIKey string
	Model  string
}

type ProvidersConfig struct {
	AdzunaAppID  string
	AdzunaAppKey string
	RapidAPIKey  string
	RequestsPerS float64
	Burst        int
}

type MatchingConfig struct {
	DelegateTimeout time.Duration
	BatchTimeout    time.Duration
	Concurrency     int
	UseDelegate     bool
}

type CacheConfig struct {
	JobsTTL    time.Duration
	ScoreTTL   time.Duration
	MaxEntries int
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency         int
	FeedRefreshInterval time.Duration
}

type PaginationConfig struct {
	PageSize int
}

// Load reads .env when present, then the environment. The returned bool
// reports whether a .env file was loaded.
func Load() (*Config, bool) {
	loaded := godotenv.Load() == nil

	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "3000"),
			Env:     getEnv("ENV", "development"),
			LogJSON: getEnvAsBool("LOG_JSON", false),
			Debug:   getEnvAsBool("DEBUG", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "job_matcher"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "job_listings"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Groq: GroqConfig{
			APIKey: getEnv("GROQ_API_KEY", ""),
			Model:  getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		},
		Providers: ProvidersConfig{
			AdzunaAppID:  getEnv("ADZUNA_APP_ID", ""),
			AdzunaAppKey: getEnv("ADZUNA_APP_KEY", ""),
			RapidAPIKey:  getEnv("RAPIDAPI_KEY", ""),
			RequestsPerS: getEnvAsFloat("PROVIDER_RPS", 2),
			Burst:        getEnvAsInt("PROVIDER_BURST", 2),
		},
		Matching: MatchingConfig{
			DelegateTimeout: getEnvAsDuration("MATCH_DELEGATE_TIMEOUT", "15s"),
			BatchTimeout:    getEnvAsDuration("MATCH_BATCH_TIMEOUT", "45s"),
			Concurrency:     getEnvAsInt("MATCH_CONCURRENCY", 5),
			UseDelegate:     getEnvAsBool("MATCH_USE_DELEGATE", true),
		},
		Cache: CacheConfig{
			JobsTTL:    getEnvAsDuration("JOBS_CACHE_TTL", "1h"),
			ScoreTTL:   getEnvAsDuration("SCORE_CACHE_TTL", "6h"),
			MaxEntries: getEnvAsInt("CACHE_MAX_ENTRIES", 1000),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency:         getEnvAsInt("WORKER_CONCURRENCY", 3),
			FeedRefreshInterval: getEnvAsDuration("FEED_REFRESH_INTERVAL", "30m"),
		},
		Pagination: PaginationConfig{
			PageSize: getEnvAsInt("JOBS_PER_PAGE", 12),
		},
	}, loaded
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, err := strconv.ParseInt(getEnv(key, ""), 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if duration, err := time.ParseDuration(getEnv(key, defaultValue)); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
