package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "")
	t.Setenv("AUTO_VERIFY_USERS", "")

	cfg := Load()
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 5*time.Second, cfg.DBQueryTimeout)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiresIn)
	assert.False(t, cfg.AutoVerifyUsers)
}

func TestLoadOverridesAndFallbacks(t *testing.T) {
	t.Setenv("AUTO_VERIFY_USERS", "true")
	t.Setenv("DB_QUERY_TIMEOUT", "250ms")
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("JWT_EXPIRES_IN", "forever")

	cfg := Load()
	assert.True(t, cfg.AutoVerifyUsers)
	assert.Equal(t, 250*time.Millisecond, cfg.DBQueryTimeout)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiresIn)
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " https://a.example , ,https://b.example"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5432", DBName: "app", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/app?sslmode=disable", cfg.PostgresDSN())
}
