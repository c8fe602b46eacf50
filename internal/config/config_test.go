package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PORT", "")
	t.Setenv("JWT_EXPIRY", "")
	t.Setenv("APP_ENV", "")

	cfg := Load()

	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "postgres", cfg.DBRootUser)
	assert.True(t, cfg.DBAutoMigrate)
	assert.False(t, cfg.IsProduction())
}

func TestLoadMySQLDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_ROOT_USER", "")

	cfg := Load()

	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, "root", cfg.DBRootUser)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBDriver:   DriverPostgres,
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "sport_user",
		DBPassword: "secret",
		DBName:     "sport_matcher",
		DBSSLMode:  "disable",
	}
	assert.Equal(t, "host=db user=sport_user password=secret dbname=sport_matcher port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())

	cfg.DBDriver = DriverMySQL
	cfg.DBPort = "3306"
	assert.Equal(t, "sport_user:secret@tcp(db:3306)/sport_matcher?charset=utf8mb4&parseTime=True&loc=UTC", cfg.DSN())

	cfg.DatabaseURL = "postgres://override"
	assert.Equal(t, "postgres://override", cfg.DSN())
}

func TestRootDSN(t *testing.T) {
	cfg := &Config{
		DBDriver:       DriverMySQL,
		DBHost:         "db",
		DBPort:         "3306",
		DBRootUser:     "root",
		DBRootPassword: "rootpassword",
	}
	assert.Equal(t, "root:rootpassword@tcp(db:3306)/?charset=utf8mb4&parseTime=True&loc=UTC", cfg.RootDSN())
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 168*time.Hour, parseDuration("nope"))
	assert.Equal(t, 15*time.Minute, parseDuration("15m"))
	assert.Equal(t, 7, parseInt("x", 7))
	assert.Equal(t, 7, parseInt("-3", 7))
	assert.Equal(t, 42, parseInt("42", 7))
	assert.False(t, parseBool("false"))
	assert.True(t, parseBool("garbage"))
}
