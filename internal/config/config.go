package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                  string
	DBDriver              string
	DBSource              string
	CookieSecret          string
	TokenSecret           string
	TokenTTL              time.Duration
	ReplyDelay            time.Duration
	PasswordScheme        string
	BootstrapAdmin        bool
	CancelRepliesOnSwitch bool
	StaticDir             string
}

// Load reads .env when present, then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Error loading .env file: %v", err)
	}

	ttlHours := envInt("TOKEN_TTL_HOURS", 24)
	if ttlHours <= 0 {
		ttlHours = 24
	}
	delayMs := envInt("REPLY_DELAY_MS", 1000)
	if delayMs < 0 {
		delayMs = 1000
	}

	return Config{
		Addr:                  envOrDefault("ADDR", ":8080"),
		DBDriver:              envOrDefault("DB_DRIVER", "sqlite3"),
		DBSource:              envOrDefault("DB_SOURCE", "moneygram.db"),
		CookieSecret:          envOrDefault("COOKIE_SECRET", "moneygram-dev-cookie-secret"),
		TokenSecret:           envOrDefault("TOKEN_SECRET", "moneygram-dev-token-secret"),
		TokenTTL:              time.Duration(ttlHours) * time.Hour,
		ReplyDelay:            time.Duration(delayMs) * time.Millisecond,
		PasswordScheme:        envOrDefault("PASSWORD_SCHEME", "bcrypt"),
		BootstrapAdmin:        envBool("BOOTSTRAP_ADMIN", true),
		CancelRepliesOnSwitch: envBool("CANCEL_REPLIES_ON_SWITCH", false),
		StaticDir:             envOrDefault("STATIC_DIR", "static"),
	}
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(envOrDefault(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(envOrDefault(key, ""))
	if err != nil {
		return fallback
	}
	return b
}
