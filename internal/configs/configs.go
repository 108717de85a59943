package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

const (
	TokenStoreMemory = "memory"
	TokenStoreRedis  = "redis"
)

type Config struct {
	AppURL                 string
	DatabaseDSN            string
	RateLimit              int
	ShutdownTimeoutSeconds int

	TokenStore     string
	RedisAddr      string
	TokenKeyPrefix string

	SuperuserUsername string
	SuperuserEmail    string
	SuperuserPassword string

	TitleMinLength       int
	TitleMaxLength       int
	DescriptionMinLength int
	DescriptionMaxLength int
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDSN:            getEnv("DATABASE_DSN", "tickets.db"),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
		TokenStore:             getEnv("TOKEN_STORE", TokenStoreMemory),
		RedisAddr:              fmt.Sprintf("%s:%s", redisHost, redisPort),
		TokenKeyPrefix:         getEnv("TOKEN_KEY_PREFIX", "auth:"),
		SuperuserUsername:      getEnv("SUPERUSER_USERNAME", "admin"),
		SuperuserEmail:         getEnv("SUPERUSER_EMAIL", "admin@admin.com"),
		SuperuserPassword:      getEnv("SUPERUSER_PASSWORD", "admin"),
		TitleMinLength:         getEnvAsInt("TITLE_MIN_LENGTH", 3),
		TitleMaxLength:         getEnvAsInt("TITLE_MAX_LENGTH", 30),
		DescriptionMinLength:   getEnvAsInt("DESCRIPTION_MIN_LENGTH", 10),
		DescriptionMaxLength:   getEnvAsInt("DESCRIPTION_MAX_LENGTH", 500),
	}

	validate(cfg)
	return cfg
}

func validate(cfg Config) {
	if cfg.AppURL == "" {
		log.Fatal("APP_URL must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN must not be empty")
	}
	if cfg.RateLimit <= 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.TokenStore != TokenStoreMemory && cfg.TokenStore != TokenStoreRedis {
		log.Fatalf("TOKEN_STORE must be %q or %q", TokenStoreMemory, TokenStoreRedis)
	}
	if cfg.SuperuserUsername == "" || cfg.SuperuserPassword == "" {
		log.Fatal("SUPERUSER_USERNAME and SUPERUSER_PASSWORD must not be empty")
	}
	if cfg.TitleMinLength <= 0 {
		log.Fatal("TITLE_MIN_LENGTH must be greater than 0")
	}
	if cfg.DescriptionMinLength <= 0 {
		log.Fatal("DESCRIPTION_MIN_LENGTH must be greater than 0")
	}
	if cfg.TitleMaxLength < 0 || cfg.DescriptionMaxLength < 0 {
		log.Fatal("length maximums must not be negative (0 disables the bound)")
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}
