package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	pkgconfig "github.com/Skotchmaster/restaurant_web/pkg/config"
)

type Config struct {
	ListenAddr string
	LogLevel   string

	APIBaseURL    string
	APIAuthScheme string
	APITimeout    time.Duration

	SessionSecret []byte
	SessionTTL    time.Duration
	CookieSecure  bool
	NoticeTTL     time.Duration

	DatabaseURL string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	RatingEditable bool
}

var ErrMissingSecret = errors.New("missing required env SESSION_SECRET")

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v. Using system environment variables", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr: pkgconfig.EnvDefault("LISTEN_ADDR", ":8080"),
		LogLevel:   pkgconfig.EnvDefault("LOG_LEVEL", "info"),

		APIBaseURL:    withSlash(pkgconfig.EnvDefault("API_BASE_URL", "http://127.0.0.1:8000/api/")),
		APIAuthScheme: pkgconfig.EnvDefault("API_AUTH_SCHEME", "Token"),
		APITimeout:    pkgconfig.EnvDurationDefault("API_TIMEOUT", 10*time.Second),

		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
		SessionTTL:    pkgconfig.EnvDurationDefault("SESSION_TTL", 7*24*time.Hour),
		CookieSecure:  pkgconfig.EnvBoolDefault("COOKIE_SECURE", false),
		NoticeTTL:     pkgconfig.EnvDurationDefault("NOTICE_TTL", 3*time.Second),

		DatabaseURL: pkgconfig.EnvDefault("DATABASE_URL", "file:cart.db"),

		KafkaBrokers: pkgconfig.CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    pkgconfig.EnvDefault("ES_INDEX", "dishes"),

		RatingEditable: pkgconfig.EnvBoolDefault("RATING_EDITABLE", true),
	}

	if len(cfg.SessionSecret) == 0 {
		return nil, ErrMissingSecret
	}
	return cfg, nil
}

func withSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
