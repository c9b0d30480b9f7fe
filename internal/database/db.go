// internal/database/db.go
package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var DB *pgxpool.Pool

// ConnectDB opens the pgx pool from POSTGRES_USER / POSTGRES_PASSWORD /
// PG_HOST / PG_PORT / PG_DATABASE and pings it. The bot can run without a
// database (identity and roles fall back to memory), so failures are
// returned rather than fatal.
func ConnectDB() error {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("PG_HOST"),
		os.Getenv("PG_PORT"),
		os.Getenv("PG_DATABASE"),
	)

	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return fmt.Errorf("unable to parse pgx config: %w", err)
	}

	DB, err = pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return fmt.Errorf("unable to create pgx pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := DB.Ping(ctx); err != nil {
		return fmt.Errorf("db ping error: %w", err)
	}
	return nil
}

// EnsureSchema creates the tables the bot needs if they do not exist.
func EnsureSchema(ctx context.Context) error {
	q := `
	CREATE TABLE IF NOT EXISTS users (
		id           BIGINT PRIMARY KEY,
		display_name TEXT NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS chat_roles (
		chat_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		role    TEXT   NOT NULL,
		PRIMARY KEY (chat_id, user_id)
	);
	`
	if _, err := DB.Exec(ctx, q); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
