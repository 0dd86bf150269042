package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Redis
	RedisURL string

	// Question bank
	QuestionsPath         string
	QuestionSchemaVersion string

	// Offline cache
	CacheVersion  string
	AppOrigin     string
	CacheManifest []string

	// Frontend
	FrontendURL string
	StaticDir   string

	// Sessions
	SessionMaxIdleMin int
}

// defaultManifest mirrors the app shell: root document, markup, styles,
// script, question data, web manifest, icons, plus the external chart script.
var defaultManifest = []string{
	"/",
	"/index.html",
	"/css/styles.css",
	"/js/app.js",
	"/data/questions.json",
	"/manifest.json",
	"/assets/icon-192.png",
	"/assets/icon-512.png",
	"https://cdn.jsdelivr.net/npm/chart.js",
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                  getEnvOrDefault("PORT", "8080"),
		Env:                   getEnvOrDefault("ENV", "development"),
		RedisURL:              getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		QuestionsPath:         getEnvOrDefault("QUESTIONS_PATH", "./data/questions.json"),
		QuestionSchemaVersion: getEnvOrDefault("QUESTION_SCHEMA_VERSION", "V3"),
		CacheVersion:          getEnvOrDefault("CACHE_VERSION", "quiz-unisa-v1.0.0"),
		AppOrigin:             getEnvOrDefault("APP_ORIGIN", "http://localhost:8080"),
		CacheManifest:         getEnvAsListOrDefault("CACHE_MANIFEST", defaultManifest),
		FrontendURL:           getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		StaticDir:             getEnvOrDefault("STATIC_DIR", "./web"),
		SessionMaxIdleMin:     getEnvAsIntOrDefault("SESSION_MAX_IDLE_MINUTES", 120),
	}

	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
