package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	Port           string
	ParamPrefix    string
	RecordsTable   string
	OpenAIBaseURL  string
	OpenAIModel    string
	OpenAIAPIKey   string
	OpenAITimeout  time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from the environment, after applying a .env file
// when one is present. PARAM_PREFIX is the only required key.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env file", "err", err)
	}

	cfg := Config{
		Env:            getEnv("ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		ParamPrefix:    strings.TrimRight(strings.TrimSpace(os.Getenv("PARAM_PREFIX")), "/"),
		RecordsTable:   strings.TrimSpace(os.Getenv("RECORDS_TABLE")),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:    strings.TrimSpace(os.Getenv("OPENAI_MODEL")),
		OpenAIAPIKey:   strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAITimeout:  envDuration("OPENAI_TIMEOUT", 10*time.Second),
		RateLimitRPS:   envFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 5),
	}

	if cfg.ParamPrefix == "" {
		return Config{}, errors.New("config: PARAM_PREFIX is required")
	}
	if cfg.Env == "production" && cfg.OpenAIAPIKey != "" {
		slog.Warn("OPENAI_API_KEY is set in production; prefer the parameter store token")
	}
	return cfg, nil
}

// ModelParameter is the parameter store name holding the model id.
func (c Config) ModelParameter() string {
	return c.ParamPrefix + "/config/openai_model"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
