package config

import (
	"os"
	"strconv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort     string
	MongoURI       string
	MongoDatabase  string
	JWTSecret      string
	BcryptCost     int
	SendgridAPIKey string
	MailFrom       string
	MailFromName   string
	SwaggerHost    string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "3000"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DB", "task-app"),
		JWTSecret:      getEnv("JWT_SECRET", "change-me"),
		BcryptCost:     getEnvInt("BCRYPT_COST", 10),
		SendgridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getEnv("MAIL_FROM", "noreply@task-app.local"),
		MailFromName:   getEnv("MAIL_FROM_NAME", "Task Manager"),
		SwaggerHost:    os.Getenv("SWAGGER_HOST"),
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
