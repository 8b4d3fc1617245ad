package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-query-service/config"
	pginfra "github.com/oksasatya/go-user-query-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-query-service/pkg/helpers"
	"github.com/oksasatya/go-user-query-service/pkg/sanitize"
)

// seed promotes (or creates) the configured administrator account. It is
// safe to run repeatedly; the password is reset on every run.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	if cfg.SeedAdminPassword == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is required")
	}
	email := sanitize.Email(cfg.SeedAdminEmail)
	if email == "" {
		log.Fatal("SEED_ADMIN_EMAIL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, time.Minute)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	hash, err := helpers.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id int64
	err = pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, is_verified)
		VALUES ($1, $2, $3, 'admin', true)
		ON CONFLICT (email) DO UPDATE
		SET role = 'admin', is_verified = true, password_hash = EXCLUDED.password_hash, updated_at = now()
		RETURNING id
	`, sanitize.Name(cfg.SeedAdminName), email, hash).Scan(&id)
	if err != nil {
		helpers.LogError(logger, "seed admin failed", err, logrus.Fields{"email": email})
		log.Fatal("seed aborted")
	}
	helpers.LogInfo(logger, "admin seeded", logrus.Fields{"id": id, "email": email})
}
