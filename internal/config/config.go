package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string

	// Database
	DBDriver       string
	DatabaseURL    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBRootUser     string
	DBRootPassword string
	DBAutoMigrate  bool

	// JWT
	JWTSecret string
	JWTExpiry time.Duration

	// Admin
	AdminEmails string

	// Server
	Port                   string
	CORSOrigins            string
	RateLimitPerMinute     int
	AuthRateLimitPerMinute int

	SentryDSN string

	SportsCatalogPath string
	LogRetentionDays  int

	// Password reset delivery
	ResetSender  string
	SMTPHost     string
	SMTPPort     string
	ResetFrom    string
	ResetBaseURL string
}

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Load reads the process environment, after merging an optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	driver := strings.ToLower(getEnv("DB_DRIVER", DriverPostgres))

	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),

		DBDriver:       driver,
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", defaultPort(driver)),
		DBUser:         getEnv("DB_USER", "sport_user"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "sport_matcher"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBRootUser:     getEnv("DB_ROOT_USER", defaultRootUser(driver)),
		DBRootPassword: getEnv("DB_ROOT_PASSWORD", ""),
		DBAutoMigrate:  parseBool(getEnv("DB_AUTO_MIGRATE", "true")),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "168h")),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),

		Port:                   getEnv("PORT", "4000"),
		CORSOrigins:            getEnv("CORS_ORIGINS", "http://localhost:5174"),
		RateLimitPerMinute:     parseInt(getEnv("RATE_LIMIT_PER_MINUTE", "120"), 120),
		AuthRateLimitPerMinute: parseInt(getEnv("AUTH_RATE_LIMIT_PER_MINUTE", "10"), 10),

		SentryDSN: getEnv("SENTRY_DSN", ""),

		SportsCatalogPath: getEnv("SPORTS_CATALOG_PATH", ""),
		LogRetentionDays:  parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),

		ResetSender:  getEnv("RESET_SENDER", "log"),
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "25"),
		ResetFrom:    getEnv("RESET_FROM", "no-reply@sportmatcher.local"),
		ResetBaseURL: getEnv("RESET_BASE_URL", "http://localhost:5174"),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DSN returns the application connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.dsnFor(c.DBUser, c.DBPassword, c.DBName)
}

// RootDSN connects with the administrative account to the server's
// maintenance database, which is where the setup step creates the app database.
func (c *Config) RootDSN() string {
	name := "postgres"
	if c.DBDriver == DriverMySQL {
		name = ""
	}
	return c.dsnFor(c.DBRootUser, c.DBRootPassword, name)
}

func (c *Config) dsnFor(user, password, dbname string) string {
	if c.DBDriver == DriverMySQL {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			user, password, c.DBHost, c.DBPort, dbname)
	}
	return "host=" + c.DBHost +
		" user=" + user +
		" password=" + password +
		" dbname=" + dbname +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func defaultPort(driver string) string {
	if driver == DriverMySQL {
		return "3306"
	}
	return "5432"
}

func defaultRootUser(driver string) string {
	if driver == DriverMySQL {
		return "root"
	}
	return "postgres"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 168 * time.Hour
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return true
	}
	return b
}
