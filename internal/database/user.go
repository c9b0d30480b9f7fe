// internal/database/user.go
package database

import (
	"context"
	"fmt"

	"github.com/avelikov/guildbot/internal/models"
)

// GetUserByID looks up a chat platform user by id.
func GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	q := `SELECT id, display_name FROM users WHERE id=$1`
	if err := DB.QueryRow(ctx, q, id).Scan(&u.ID, &u.DisplayName); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertUser records or refreshes a user's display name. The bridge calls
// this as messages arrive so the identity resolver stays current.
func UpsertUser(ctx context.Context, u *models.User) error {
	q := `
	INSERT INTO users (id, display_name, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (id) DO UPDATE SET display_name = EXCLUDED.display_name, updated_at = now()
	`
	if _, err := DB.Exec(ctx, q, u.ID, u.DisplayName); err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", u.ID, err)
	}
	return nil
}
