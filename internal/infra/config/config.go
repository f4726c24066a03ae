package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contém as configurações da aplicação.
type Config struct {
	Port          string
	Database      DatabaseConfig
	QuestionsFile string
	Session       SessionConfig
	Redis         RedisConfig
	Log           LogConfig
	RateLimit     RateLimitConfig
	CORSOrigins   []string
}

type DatabaseConfig struct {
	Driver string
	DSN    string // Caminho do arquivo SQLite
}

type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	Backend      string // "memory" ou "redis"
	CookieSecure bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LogConfig struct {
	Level string
	File  string // vazio = somente stdout
}

type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

// Load carrega o .env (se existir) e depois as variáveis de ambiente, com padrões.
func Load() *Config {
	// Variáveis já definidas no ambiente têm prioridade sobre o .env
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "8080"),
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite3"), // ncruces usa "sqlite3"
			DSN:    getEnv("DB_DSN", "./quizapp.db"),
		},
		QuestionsFile: getEnv("QUESTIONS_FILE", "./data/quiz.json"),
		Session: SessionConfig{
			Secret:       getEnv("SESSION_SECRET", "segredo_padrao_para_desenvolvimento"),
			TTL:          time.Duration(getEnvInt("SESSION_TTL_MINUTES", 120)) * time.Minute,
			Backend:      strings.ToLower(getEnv("SESSION_BACKEND", "memory")),
			CookieSecure: getEnvBool("COOKIE_SECURE", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: getEnvInt("RATE_LIMIT_MAX", 20),
			Window:      time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		},
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvList lê uma lista separada por vírgulas.
func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
