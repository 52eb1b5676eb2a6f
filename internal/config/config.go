// internal/config/config.go
//
// Runtime configuration from the environment.
//
// Load() reads a `.env` file when present (godotenv), then the process
// environment, then validates the result. Unset or empty variables fall
// back to defaults.
//
// Environment variables:
//   PORT=5175                 HTTP listen port
//   LOG_LEVEL=info            zerolog level
//   DB_PATH=./data/mastermind.db
//   ALPHABET_SIZE=6           symbols 1..C
//   CODE_LENGTH=4             L
//   FEEDBACK_RULE=simplified  simplified | canonical
//   SECRET_REPEATS=false      allow repeated symbols in random secrets
//   SOLVE_TIMEOUT=10s         bound on one self-play game
//   SESSION_TTL=30m           idle interactive games expire after this
//   MAX_SESSIONS=1000         live interactive games held at once
//   CLIENT_ORIGIN=http://localhost:5173
//   JWT_SECRET, JWT_EXPIRES_DAYS=14, COOKIE_NAME=mastermind_token, NODE_ENV

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const devJWTSecret = "dev_secret_change_me"

// Config is the validated runtime configuration.
type Config struct {
	Port          string        `validate:"required,numeric"`
	LogLevel      string        `validate:"required,oneof=trace debug info warn error fatal panic disabled"`
	DBPath        string        `validate:"required"`
	AlphabetSize  int           `validate:"min=1,max=9"`
	CodeLength    int           `validate:"min=1,max=8"`
	FeedbackRule  string        `validate:"oneof=simplified canonical"`
	SecretRepeats bool
	SolveTimeout  time.Duration `validate:"gt=0"`
	SessionTTL    time.Duration `validate:"gt=0"`
	MaxSessions   int           `validate:"min=1"`
	ClientOrigin  string        `validate:"required,url"`
	JWTSecret     string        `validate:"required"`
	JWTExpiryDays int           `validate:"min=1"`
	CookieName    string        `validate:"required"`
	Production    bool
}

var validate = validator.New()

// Load reads `.env` (if any) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment without touching `.env`.
func FromEnv() (Config, error) {
	c := Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "info")),
		DBPath:       getEnv("DB_PATH", "./data/mastermind.db"),
		FeedbackRule: strings.ToLower(getEnv("FEEDBACK_RULE", "simplified")),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		JWTSecret:    getEnv("JWT_SECRET", devJWTSecret),
		CookieName:   getEnv("COOKIE_NAME", "mastermind_token"),
		Production:   os.Getenv("NODE_ENV") == "production",
	}
	var err error
	if c.AlphabetSize, err = envInt("ALPHABET_SIZE", 6); err != nil {
		return c, err
	}
	if c.CodeLength, err = envInt("CODE_LENGTH", 4); err != nil {
		return c, err
	}
	if c.JWTExpiryDays, err = envInt("JWT_EXPIRES_DAYS", 14); err != nil {
		return c, err
	}
	if c.SecretRepeats, err = envBool("SECRET_REPEATS", false); err != nil {
		return c, err
	}
	if c.SolveTimeout, err = envDuration("SOLVE_TIMEOUT", 10*time.Second); err != nil {
		return c, err
	}
	if c.SessionTTL, err = envDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return c, err
	}
	if c.MaxSessions, err = envInt("MAX_SESSIONS", 1000); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// Validate checks field bounds, and that a game without repeated secret
// symbols has enough symbols to draw from.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !c.SecretRepeats && c.AlphabetSize < c.CodeLength {
		return fmt.Errorf("config: %d distinct secret symbols need ALPHABET_SIZE >= %d (or SECRET_REPEATS=true)", c.CodeLength, c.CodeLength)
	}
	return nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", k, v, err)
	}
	return n, nil
}

func envBool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s=%q: %w", k, v, err)
	}
	return b, nil
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", k, v, err)
	}
	return d, nil
}
