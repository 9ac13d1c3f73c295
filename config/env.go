package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	Auth   AuthConfig
	Order  OrderConfig
	QR     QRConfig
}

type ServerConfig struct {
	Port       string
	CORSOrigin string
	RateLimit  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type OrderConfig struct {
	TaxRate  float64
	Currency string
}

// QRConfig controls the table token payload. MaxAge of zero disables the
// expiry check.
type QRConfig struct {
	BaseURL string
	MaxAge  time.Duration
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	tokenTTLHours, _ := strconv.Atoi(getEnv("JWT_TTL_HOURS", "24"))
	taxRate, _ := strconv.ParseFloat(getEnv("TAX_RATE", "0.18"), 64)
	qrMaxAgeHours, _ := strconv.Atoi(getEnv("QR_MAX_AGE_HOURS", "24"))

	return Config{
		Server: ServerConfig{
			Port:       getEnv("SERVER_PORT", "8080"),
			CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
			RateLimit:  getEnv("RATE_LIMIT", "100-M"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "akounamatata"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "152fe54a-ac31-4d3c-b94b-6135cc25c55a"),
			TokenTTL:  time.Duration(tokenTTLHours) * time.Hour,
		},
		Order: OrderConfig{
			TaxRate:  taxRate,
			Currency: getEnv("CURRENCY", "FCFA"),
		},
		QR: QRConfig{
			BaseURL: getEnv("QR_BASE_URL", getEnv("CORS_ORIGIN", "http://localhost:3000")),
			MaxAge:  time.Duration(qrMaxAgeHours) * time.Hour,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
