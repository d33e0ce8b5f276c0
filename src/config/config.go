package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Environment string

const (
	Live Environment = "live"
	Beta Environment = "beta"
	Dev  Environment = "dev"
)

type AcademyConfig struct {
	Env         Environment
	Addr        string
	PrivateAddr string // pprof and other internal-only endpoints
	BaseUrl     string
	LogLevel    zerolog.Level

	Postgres PostgresConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Slack    SlackConfig
}

type PostgresConfig struct {
	User     string
	Password string
	Hostname string
	Port     int
	DbName   string
	LogLevel tracelog.LogLevel
	MinConn  int32
	MaxConn  int32
}

func (info PostgresConfig) DSN() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%d dbname=%s", info.User, info.Password, info.Hostname, info.Port, info.DbName)
}

// Settings for our sessions and for the external identity provider.
// The provider hosts the actual login UI; we exchange its callback
// code for tokens and verify the resulting JWT locally.
type AuthConfig struct {
	CookieDomain string
	CookieSecure bool

	ProviderAuthorizeUrl string
	ProviderTokenUrl     string
	ProviderClientID     string
	ProviderClientSecret string
	ProviderIssuer       string
	// HS256 key for verifying provider-issued session tokens. The
	// provider we use signs with a shared secret per application.
	ProviderSigningKey string
}

// S3-compatible object storage for uploaded images.
type StorageConfig struct {
	Key      string
	Secret   string
	Region   string
	Endpoint string
	Bucket   string
	// Public base URL for serving uploaded objects, e.g. a CDN in
	// front of the bucket. Object keys are appended directly.
	PublicUrlBase string
}

type SlackConfig struct {
	WebhookUrl string // empty disables notifications
}

var Config AcademyConfig

func init() {
	// A .env file is optional; live deployments configure through real
	// environment variables.
	godotenv.Load()

	Config = AcademyConfig{
		Env:         Environment(envOr("VCA_ENV", string(Dev))),
		Addr:        envOr("VCA_ADDR", ":9001"),
		PrivateAddr: envOr("VCA_PRIVATE_ADDR", "localhost:9002"),
		BaseUrl:     envOr("VCA_BASE_URL", "http://localhost:9001"),
		LogLevel:    envLogLevel("VCA_LOG_LEVEL", zerolog.DebugLevel),

		Postgres: PostgresConfig{
			User:     envOr("VCA_DB_USER", "vcadmin"),
			Password: envOr("VCA_DB_PASSWORD", "password"),
			Hostname: envOr("VCA_DB_HOST", "localhost"),
			Port:     envOrInt("VCA_DB_PORT", 5432),
			DbName:   envOr("VCA_DB_NAME", "vca"),
			LogLevel: tracelog.LogLevelWarn,
			MinConn:  int32(envOrInt("VCA_DB_MIN_CONN", 2)),
			MaxConn:  int32(envOrInt("VCA_DB_MAX_CONN", 10)),
		},
		Auth: AuthConfig{
			CookieDomain: envOr("VCA_COOKIE_DOMAIN", "localhost"),
			CookieSecure: envOrBool("VCA_COOKIE_SECURE", false),

			ProviderAuthorizeUrl: os.Getenv("VCA_AUTH_AUTHORIZE_URL"),
			ProviderTokenUrl:     os.Getenv("VCA_AUTH_TOKEN_URL"),
			ProviderClientID:     os.Getenv("VCA_AUTH_CLIENT_ID"),
			ProviderClientSecret: os.Getenv("VCA_AUTH_CLIENT_SECRET"),
			ProviderIssuer:       os.Getenv("VCA_AUTH_ISSUER"),
			ProviderSigningKey:   os.Getenv("VCA_AUTH_SIGNING_KEY"),
		},
		Storage: StorageConfig{
			Key:           os.Getenv("VCA_STORAGE_KEY"),
			Secret:        os.Getenv("VCA_STORAGE_SECRET"),
			Region:        envOr("VCA_STORAGE_REGION", "us-east-1"),
			Endpoint:      os.Getenv("VCA_STORAGE_ENDPOINT"),
			Bucket:        envOr("VCA_STORAGE_BUCKET", "vca-images"),
			PublicUrlBase: os.Getenv("VCA_STORAGE_PUBLIC_URL_BASE"),
		},
		Slack: SlackConfig{
			WebhookUrl: os.Getenv("VCA_SLACK_WEBHOOK_URL"),
		},
	}
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envLogLevel(key string, fallback zerolog.Level) zerolog.Level {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	level, err := zerolog.ParseLevel(value)
	if err != nil {
		return fallback
	}
	return level
}
