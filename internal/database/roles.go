// internal/database/roles.go
package database

import (
	"context"
	"fmt"

	"github.com/avelikov/guildbot/internal/roles"
)

// RoleStore is the postgres-backed implementation of roles.Store.
type RoleStore struct{}

func (RoleStore) Staff(ctx context.Context, chatID int64) (roles.Staff, error) {
	var staff roles.Staff
	q := `SELECT user_id, role FROM chat_roles WHERE chat_id=$1 ORDER BY user_id`
	rows, err := DB.Query(ctx, q, chatID)
	if err != nil {
		return staff, fmt.Errorf("failed to query chat roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		var role string
		if err := rows.Scan(&userID, &role); err != nil {
			return staff, fmt.Errorf("failed to scan chat role: %w", err)
		}
		switch roles.Role(role) {
		case roles.RoleCreator:
			uid := userID
			staff.Creator = &uid
		case roles.RoleAdmin:
			staff.Admins = append(staff.Admins, userID)
		case roles.RoleModerator:
			staff.Moderators = append(staff.Moderators, userID)
		}
	}
	return staff, rows.Err()
}

func (RoleStore) SetRole(ctx context.Context, chatID, userID int64, role roles.Role) error {
	q := `
	INSERT INTO chat_roles (chat_id, user_id, role)
	VALUES ($1, $2, $3)
	ON CONFLICT (chat_id, user_id) DO UPDATE SET role = EXCLUDED.role
	`
	if _, err := DB.Exec(ctx, q, chatID, userID, string(role)); err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	return nil
}

func (RoleStore) ClearRole(ctx context.Context, chatID, userID int64) error {
	q := `DELETE FROM chat_roles WHERE chat_id=$1 AND user_id=$2`
	if _, err := DB.Exec(ctx, q, chatID, userID); err != nil {
		return fmt.Errorf("failed to clear role: %w", err)
	}
	return nil
}
