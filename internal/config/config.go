package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values. Each field maps to an
// environment variable; required values are enforced by must() and
// abort startup when missing.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string
	DBPass string // optional
	DBHost string
	DBPort string
	DBName string

	AccessTokenSecret  string        // signs access tokens
	AccessTokenExpiry  time.Duration // e.g. "15m"
	RefreshTokenSecret string        // signs refresh tokens; must differ from access secret
	RefreshTokenExpiry time.Duration // e.g. "7d"
	PasswordHashCost   int           // bcrypt work factor

	S3 S3Config
}

// S3Config configures the object storage client used for avatar and
// cover uploads. Endpoint is set for S3-compatible stores like MinIO
// and left empty for AWS proper.
type S3Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string // base URL prepended to storage keys in returned media URLs
}

// Load reads configuration from the environment. Missing required
// variables or equal token secrets are fatal: a service that signs
// both token kinds with one secret silently loses the property that
// compromise of one cannot forge the other.
func Load() Config {
	cfg := Config{
		Env:  must("APP_ENV"),
		Port: must("APP_PORT"),

		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		AccessTokenSecret:  must("ACCESS_TOKEN_SECRET"),
		AccessTokenExpiry:  mustDuration("ACCESS_TOKEN_EXPIRY"),
		RefreshTokenSecret: must("REFRESH_TOKEN_SECRET"),
		RefreshTokenExpiry: mustDuration("REFRESH_TOKEN_EXPIRY"),
		PasswordHashCost:   mustInt("PASSWORD_HASH_COST"),

		S3: S3Config{
			Endpoint:      os.Getenv("S3_ENDPOINT"),
			Region:        must("S3_REGION"),
			Bucket:        must("S3_BUCKET"),
			AccessKey:     must("S3_ACCESS_KEY"),
			SecretKey:     must("S3_SECRET_KEY"),
			PublicBaseURL: must("S3_PUBLIC_BASE_URL"),
		},
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		log.Fatalf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	return cfg
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but parses the value as an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// mustDuration is like must() but parses the value as a duration.
func mustDuration(key string) time.Duration {
	s := must(key)
	d, err := ParseExpiry(s)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, s)
	}
	return d
}

// ParseExpiry parses a token lifetime. On top of time.ParseDuration
// syntax it accepts a "d" suffix for days ("7d"), which refresh token
// lifetimes are conventionally written in.
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(n)
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}
