package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server Settings
	AppPort     string
	HOST        string
	AppEnv      string
	FrontendURL string
	LogRequests bool
	UploadDir   string

	// Database Settings
	DBDriver    string // postgres | sqlite
	DatabaseURL string
	ResetDB     bool
	SeedDB      bool

	// JWT Settings
	JWTSecret     string
	JWTExpiration time.Duration

	// Anonymous cart sessions
	SessionTTL    time.Duration
	SessionCookie string

	// Order events
	KafkaBrokers string
	KafkaTopic   string
	RelayEvery   time.Duration
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from the environment")
	}

	return &Config{
		AppPort:     getEnv("PORT", "3000"),
		HOST:        getEnv("HOST", "0.0.0.0"),
		AppEnv:      getEnv("APP_ENV", "production"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		LogRequests: getBool("LOG_REQUESTS", true),
		UploadDir:   getEnv("UPLOAD_DIR", "./uploads/products"),

		DBDriver:    getEnv("DB_DRIVER", "postgres"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ResetDB:     getBool("RESET_DB", false),
		SeedDB:      getBool("SEED_DB", false),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiration: getDuration("JWT_EXPIRES_IN", 7*24*time.Hour),

		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),
		SessionCookie: getEnv("SESSION_COOKIE", "sid"),

		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "storefront.orders"),
		RelayEvery:   getDuration("OUTBOX_RELAY_INTERVAL", 2*time.Second),
	}
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
		return errors.New("DB_DRIVER must be postgres or sqlite")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		log.Printf("Invalid boolean for %s=%q, using %v", key, value, fallback)
		return fallback
	}
	return b
}

// getDuration accepts Go durations ("36h") and the "7d" day shorthand.
func getDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	if strings.HasSuffix(value, "d") {
		if days, err := strconv.Atoi(strings.TrimSuffix(value, "d")); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Invalid duration for %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return d
}
