package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort    string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass string
	UploadDir string

	// Bootstrap credential seeded when the admins table is empty.
	// Deployments should rotate it immediately with cmd/seed.
	DefaultAdminEmail    string
	DefaultAdminPassword string

	// Optional Discord webhook for review-decision announcements.
	DiscordWebhookID    string
	DiscordWebhookToken string
}

// Load builds Config from environment with sensible defaults. A .env file
// in the working directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		MySQLDSN:             getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/tournament?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		RedisPass:            os.Getenv("REDIS_PASSWORD"),
		UploadDir:            getEnv("UPLOAD_DIR", "uploads"),
		DefaultAdminEmail:    getEnv("DEFAULT_ADMIN_EMAIL", "admin@tournament.com"),
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", "admin123!"),
		DiscordWebhookID:     os.Getenv("DISCORD_WEBHOOK_ID"),
		DiscordWebhookToken:  os.Getenv("DISCORD_WEBHOOK_TOKEN"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
