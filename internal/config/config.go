package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresDSN       string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	KafkaBrokers      []string
	KafkaGroupID      string
	JWTSecret         string
	TokenTTL          time.Duration
	HTTPAddr          string
	OTLPEndpoint      string
	EntryCacheTTL     time.Duration
	MigrationsEnabled bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load .env file, using default values", "error", err)
	}
	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() *Config {
	cfg := &Config{
		PostgresDSN:       getString("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=finance sslmode=disable"),
		RedisAddr:         getString("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getInt("REDIS_DB", 0),
		KafkaBrokers:      getList("KAFKA_BROKER", []string{"localhost:9092"}),
		KafkaGroupID:      getString("KAFKA_GROUP_ID", "finance-service-import"),
		JWTSecret:         getString("JWT_SECRET", "supersecret"),
		TokenTTL:          getDuration("TOKEN_TTL", 24*time.Hour),
		HTTPAddr:          getString("HTTP_ADDR", ":8080"),
		OTLPEndpoint:      os.Getenv("OTLP_ENDPOINT"),
		EntryCacheTTL:     getDuration("ENTRY_CACHE_TTL", 5*time.Minute),
		MigrationsEnabled: getBool("MIGRATIONS_ENABLED", true),
	}

	slog.Info("config loaded",
		"redis_addr", cfg.RedisAddr,
		"kafka_brokers", cfg.KafkaBrokers,
		"http_addr", cfg.HTTPAddr,
		"entry_cache_ttl", cfg.EntryCacheTTL,
		"migrations_enabled", cfg.MigrationsEnabled,
	)
	return cfg
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("invalid duration, using default", "key", key, "value", raw, "error", err)
		return def
	}
	return d
}

// getList splits a comma separated value, dropping blanks.
func getList(key string, def []string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
