package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

type Config struct {
	AppEnv  string
	APIPort string

	JWTKey []byte
	JWTExp time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitRPS    float64
	RateLimitBurst  int
	RateLimitWindow time.Duration
	RateLimitMax    int

	MaxFileUpload int64

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPassword  string
	FromName      string
	FromEmail     string
	NotifyTimeout time.Duration
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Load reads the environment, optionally seeded from a .env file in the
// working directory. A missing JWT_SECRET is the only fatal condition.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:  getEnv("APP_ENV", EnvDevelopment),
		APIPort: getEnv("PORT", "5000"),
		JWTKey:  []byte(getEnv("JWT_SECRET", "")),
		JWTExp:  getEnvAsDuration("JWT_EXPIRE", 30*24*time.Hour),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "counsel_hub"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		RateLimitRPS:    getEnvAsFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst:  getEnvAsInt("RATE_LIMIT_BURST", 10),
		RateLimitWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", 10*time.Minute),
		RateLimitMax:    getEnvAsInt("RATE_LIMIT_MAX", 100),

		MaxFileUpload: int64(getEnvAsInt("MAX_FILE_UPLOAD", 5*1024*1024)),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "blog_images"),

		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:      getEnv("SMTP_USER", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		FromName:      getEnv("FROM_NAME", "Counsel Hub"),
		FromEmail:     getEnv("FROM_EMAIL", "noreply@counselhub.local"),
		NotifyTimeout: getEnvAsDuration("NOTIFY_TIMEOUT", 15*time.Second),
	}

	if len(cfg.JWTKey) == 0 {
		return nil, errors.New("config: JWT_SECRET must be set")
	}

	if url := getEnv("DATABASE_URL", ""); url != "" {
		cfg.DBConnStr = url
	} else {
		cfg.DBConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSslMode)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("72h") and the shorthand "<n>d".
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	if strings.HasSuffix(raw, "d") {
		if days, err := strconv.Atoi(strings.TrimSuffix(raw, "d")); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
