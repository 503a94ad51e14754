package utils

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all configuration for the application
type Config struct {
	App     AppConfig
	Scraper ScraperConfig
	Output  OutputConfig
	Server  ServerConfig
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name    string
	Version string
}

// ScraperConfig holds scraping configuration
type ScraperConfig struct {
	BaseURL              string // site root, used to absolutize item?id= links
	ListingURL           string // front page to scrape
	UserAgent            string
	TimeoutSeconds       int
	MaxRequestsPerMinute int
	CommentConcurrency   int // parallel thread fetches; 1 = fully sequential
}

// OutputConfig holds output file and database configuration
type OutputConfig struct {
	Path         string
	DatabasePath string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int
}

// LoadConfig loads configuration from a .env file and the environment.
// A missing .env file is not an error: every key has a usable default,
// so the tool works out of the box.
func LoadConfig(envPath string, log *logrus.Logger) (*Config, error) {
	if envPath == "" {
		envPath = ".env"
	}

	if err := godotenv.Load(envPath); err != nil {
		log.WithField("file", envPath).Debug("No .env file loaded, using defaults")
	}

	config := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "HN Scraper"),
			Version: getEnv("APP_VERSION", "1.0.0"),
		},
		Scraper: ScraperConfig{
			BaseURL:              getEnv("HN_BASE_URL", "https://news.ycombinator.com"),
			ListingURL:           getEnv("HN_LISTING_URL", "https://news.ycombinator.com/front"),
			UserAgent:            getEnv("HN_USER_AGENT", "hn-scraper/1.0"),
			TimeoutSeconds:       getEnvAsInt("HN_TIMEOUT_SECONDS", 30),
			MaxRequestsPerMinute: getEnvAsInt("HN_MAX_REQUESTS_PER_MINUTE", 30),
			CommentConcurrency:   getEnvAsInt("HN_COMMENT_CONCURRENCY", 1),
		},
		Output: OutputConfig{
			Path:         getEnv("OUTPUT_PATH", "output.json"),
			DatabasePath: getEnv("DATABASE_PATH", "./hn.db"),
		},
		Server: ServerConfig{
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
	}

	// validation
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	log.WithField("file", envPath).Info("Config loaded successfully")
	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if _, err := url.ParseRequestURI(config.Scraper.BaseURL); err != nil {
		return fmt.Errorf("HN_BASE_URL is not a valid URL: %w", err)
	}
	if _, err := url.ParseRequestURI(config.Scraper.ListingURL); err != nil {
		return fmt.Errorf("HN_LISTING_URL is not a valid URL: %w", err)
	}

	// the transport default is unbounded, so a zero/negative timeout
	// would mean a fetch could hang forever
	if config.Scraper.TimeoutSeconds < 1 {
		return fmt.Errorf("HN_TIMEOUT_SECONDS must be positive")
	}
	if config.Scraper.MaxRequestsPerMinute < 1 {
		return fmt.Errorf("HN_MAX_REQUESTS_PER_MINUTE must be positive")
	}
	if config.Scraper.CommentConcurrency < 1 {
		return fmt.Errorf("HN_COMMENT_CONCURRENCY must be positive")
	}

	if config.Output.Path == "" {
		return fmt.Errorf("OUTPUT_PATH must not be empty")
	}

	// if we are storing the db in a nested directory, create the directory
	dbDir := filepath.Dir(config.Output.DatabasePath)
	if dbDir != "." && dbDir != "" {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	return nil
}
