package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ReviewServiceConfig holds runtime configuration of the review microservice.
type ReviewServiceConfig struct {
	Addr                         string
	MongoURI                     string
	MongoUsername                string
	MongoPassword                string
	MongoDatabase                string
	ReviewCollection             string
	CounterCollection            string
	FailedNotificationCollection string
	Timeout                      time.Duration
	AllowedOrigins               []string
	AMQPURL                      string
	AMQPExchange                 string
	LogLevel                     string
}

// WebConfig holds runtime configuration of the web front-end.
type WebConfig struct {
	Addr                string
	DatabasePath        string
	DealersURL          string
	ReviewsURL          string
	SentimentURL        string
	SentimentAPIKey     string
	UpstreamTimeout     time.Duration
	SessionSecret       []byte
	SessionCookieSecure bool
	SessionTTL          time.Duration
	LogLevel            string
}

// SeedConfig combines what the seeder needs from both services.
type SeedConfig struct {
	Reviews      ReviewServiceConfig
	DatabasePath string
}

// ErrSessionSecretMissing is returned when the web front-end has no signing key for sessions.
var ErrSessionSecretMissing = errors.New("SESSION_SECRET must be configured")

// LoadReviewService reads environment variables (and .env when present) for the review microservice.
func LoadReviewService() ReviewServiceConfig {
	loadDotEnv()

	return ReviewServiceConfig{
		Addr:                         envOrDefault("HTTP_ADDR", ":5000"),
		MongoURI:                     envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoUsername:                strings.TrimSpace(os.Getenv("MONGO_USERNAME")),
		MongoPassword:                strings.TrimSpace(os.Getenv("MONGO_PASSWORD")),
		MongoDatabase:                envOrDefault("MONGO_DB", "dealership"),
		ReviewCollection:             envOrDefault("REVIEW_COLLECTION", "reviews"),
		CounterCollection:            envOrDefault("COUNTER_COLLECTION", "counters"),
		FailedNotificationCollection: envOrDefault("FAILED_NOTIFICATION_COLLECTION", "failed_notifications"),
		Timeout:                      parseDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		AllowedOrigins:               parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		AMQPURL:                      strings.TrimSpace(os.Getenv("AMQP_URL")),
		AMQPExchange:                 envOrDefault("AMQP_EXCHANGE", "reviews"),
		LogLevel:                     envOrDefault("LOG_LEVEL", "info"),
	}
}

// LoadWeb reads environment variables (and .env when present) for the web front-end.
func LoadWeb() (WebConfig, error) {
	loadDotEnv()

	secret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if secret == "" {
		return WebConfig{}, ErrSessionSecretMissing
	}

	return WebConfig{
		Addr:                envOrDefault("HTTP_ADDR", ":8000"),
		DatabasePath:        envOrDefault("DATABASE_PATH", "dealership.db"),
		DealersURL:          strings.TrimSpace(os.Getenv("DEALERS_URL")),
		ReviewsURL:          normaliseBaseURL(envOrDefault("REVIEWS_URL", "http://reviews:5000")),
		SentimentURL:        normaliseBaseURL(os.Getenv("SENTIMENT_URL")),
		SentimentAPIKey:     strings.TrimSpace(os.Getenv("SENTIMENT_API_KEY")),
		UpstreamTimeout:     parseDuration("UPSTREAM_TIMEOUT", 5*time.Second),
		SessionSecret:       []byte(secret),
		SessionCookieSecure: strings.EqualFold(strings.TrimSpace(os.Getenv("SESSION_COOKIE_SECURE")), "true"),
		SessionTTL:          parseDuration("SESSION_TTL", 24*time.Hour),
		LogLevel:            envOrDefault("LOG_LEVEL", "info"),
	}, nil
}

// LoadSeed reads the subset of configuration the seeder uses.
func LoadSeed() SeedConfig {
	reviews := LoadReviewService()
	return SeedConfig{
		Reviews:      reviews,
		DatabasePath: envOrDefault("DATABASE_PATH", "dealership.db"),
	}
}

func loadDotEnv() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}

func normaliseBaseURL(input string) string {
	trimmed := strings.TrimSpace(input)
	return strings.TrimRight(trimmed, "/")
}
