// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	LLM         LLMConfig
	Scraper     ScraperConfig
	Analysis    AnalysisConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// LLMConfig holds text generation configuration
type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// ScraperConfig holds scraping configuration
type ScraperConfig struct {
	DataDir        string
	MaxVideos      int
	RequestTimeout time.Duration
}

// AnalysisConfig holds analysis pipeline configuration
type AnalysisConfig struct {
	BatchSize        int
	BatchDelay       time.Duration
	TrimChars        int
	CoreKeywords     int
	MinVideoFraction float64
	ViewMultiplier   int
	TopClips         int
	IdeaCount        int
	EventsTopic      string
	GeoTerms         []string
	StopWords        []string
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "trendlytics"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		LLM: LLMConfig{
			BaseURL: getEnv("LLM_BASE_URL", "https://api.deepseek.com/v1/chat/completions"),
			APIKey:  getEnv("LLM_API_KEY", ""),
			Model:   getEnv("LLM_MODEL", "deepseek-chat"),
			Timeout: getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Scraper: ScraperConfig{
			DataDir:        getEnv("SCRAPER_DATA_DIR", "data"),
			MaxVideos:      getEnvAsInt("SCRAPER_MAX_VIDEOS", 15),
			RequestTimeout: getEnvAsDuration("SCRAPER_REQUEST_TIMEOUT", 20*time.Second),
		},
		Analysis: AnalysisConfig{
			BatchSize:        getEnvAsInt("ANALYSIS_BATCH_SIZE", 6),
			BatchDelay:       getEnvAsDuration("ANALYSIS_BATCH_DELAY", 1500*time.Millisecond),
			TrimChars:        getEnvAsInt("ANALYSIS_TRIM_CHARS", 250),
			CoreKeywords:     getEnvAsInt("ANALYSIS_CORE_KEYWORDS", 5),
			MinVideoFraction: getEnvAsFloat("ANALYSIS_MIN_VIDEO_FRACTION", 0.15),
			ViewMultiplier:   getEnvAsInt("ANALYSIS_VIEW_MULTIPLIER", 15),
			TopClips:         getEnvAsInt("ANALYSIS_TOP_CLIPS", 3),
			IdeaCount:        getEnvAsInt("ANALYSIS_IDEA_COUNT", 8),
			EventsTopic:      getEnv("ANALYSIS_EVENTS_TOPIC", "trendlytics"),
			GeoTerms:         getEnvAsSlice("ANALYSIS_GEO_TERMS", nil),
			StopWords:        getEnvAsSlice("ANALYSIS_STOP_WORDS", nil),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.LLM.APIKey == "" && config.Environment != "development" {
		return fmt.Errorf("LLM API key must be set in non-development environments")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
