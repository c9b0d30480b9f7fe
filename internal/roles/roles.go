// internal/roles/roles.go
package roles

import (
	"context"
	"errors"
	"fmt"
)

// Role is a chat staff rank. Permission checks cascade: the creator
// passes admin checks, admins pass moderator checks.
type Role string

const (
	RoleNone      Role = ""
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
	RoleCreator   Role = "creator"
)

var (
	// ErrDuplicateCreator means the chat already has a creator.
	ErrDuplicateCreator = errors.New("chat already has a creator")
	// ErrAlreadyHasRole means the target cannot be promoted further.
	ErrAlreadyHasRole = errors.New("user already holds that role or higher")
	// ErrNotAuthorized means the actor lacks the rank for the action.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrNoRole means the target holds no rank to demote.
	ErrNoRole = errors.New("user holds no role")
	// ErrSelfTransfer means a creator tried to transfer power to themself.
	ErrSelfTransfer = errors.New("cannot transfer creator rights to yourself")
)

// Staff is the role assignment of one chat.
type Staff struct {
	Creator    *int64
	Admins     []int64
	Moderators []int64
}

func (s Staff) roleOf(userID int64) Role {
	if s.Creator != nil && *s.Creator == userID {
		return RoleCreator
	}
	for _, id := range s.Admins {
		if id == userID {
			return RoleAdmin
		}
	}
	for _, id := range s.Moderators {
		if id == userID {
			return RoleModerator
		}
	}
	return RoleNone
}

// Store persists staff assignments per chat.
type Store interface {
	Staff(ctx context.Context, chatID int64) (Staff, error)
	SetRole(ctx context.Context, chatID, userID int64, role Role) error
	ClearRole(ctx context.Context, chatID, userID int64) error
}

// Service implements the chat role ladder. It is also the moderation
// authority for forced game termination (IsModerator).
type Service struct {
	store Store
}

// NewService builds a role service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// SetCreator claims the creator seat. Fails with ErrDuplicateCreator if
// the seat is taken; any lower role the claimant held is dropped.
func (s *Service) SetCreator(ctx context.Context, chatID, userID int64) error {
	staff, err := s.store.Staff(ctx, chatID)
	if err != nil {
		return fmt.Errorf("load staff: %w", err)
	}
	if staff.Creator != nil {
		return ErrDuplicateCreator
	}
	return s.store.SetRole(ctx, chatID, userID, RoleCreator)
}

// TransferCreator hands the creator seat from one user to another. The
// previous creator becomes an admin.
func (s *Service) TransferCreator(ctx context.Context, chatID, from, to int64) error {
	staff, err := s.store.Staff(ctx, chatID)
	if err != nil {
		return fmt.Errorf("load staff: %w", err)
	}
	if staff.roleOf(from) != RoleCreator {
		return ErrNotAuthorized
	}
	if from == to {
		return ErrSelfTransfer
	}
	if err := s.store.SetRole(ctx, chatID, to, RoleCreator); err != nil {
		return err
	}
	return s.store.SetRole(ctx, chatID, from, RoleAdmin)
}

// Promote raises the target one step: user to moderator (moderator rank
// required) or moderator to admin (admin rank required). Returns the new
// role.
func (s *Service) Promote(ctx context.Context, chatID, actor, target int64) (Role, error) {
	staff, err := s.store.Staff(ctx, chatID)
	if err != nil {
		return RoleNone, fmt.Errorf("load staff: %w", err)
	}
	switch staff.roleOf(target) {
	case RoleCreator, RoleAdmin:
		return RoleNone, ErrAlreadyHasRole
	case RoleModerator:
		if !atLeast(staff.roleOf(actor), RoleAdmin) {
			return RoleNone, ErrNotAuthorized
		}
		return RoleAdmin, s.store.SetRole(ctx, chatID, target, RoleAdmin)
	default:
		if !atLeast(staff.roleOf(actor), RoleModerator) {
			return RoleNone, ErrNotAuthorized
		}
		return RoleModerator, s.store.SetRole(ctx, chatID, target, RoleModerator)
	}
}

// Demote lowers the target one step: admin to moderator (creator only) or
// moderator to none (admin rank required). Returns the new role.
func (s *Service) Demote(ctx context.Context, chatID, actor, target int64) (Role, error) {
	staff, err := s.store.Staff(ctx, chatID)
	if err != nil {
		return RoleNone, fmt.Errorf("load staff: %w", err)
	}
	switch staff.roleOf(target) {
	case RoleCreator:
		return RoleNone, ErrAlreadyHasRole
	case RoleAdmin:
		if staff.roleOf(actor) != RoleCreator {
			return RoleNone, ErrNotAuthorized
		}
		return RoleModerator, s.store.SetRole(ctx, chatID, target, RoleModerator)
	case RoleModerator:
		if !atLeast(staff.roleOf(actor), RoleAdmin) {
			return RoleNone, ErrNotAuthorized
		}
		return RoleNone, s.store.ClearRole(ctx, chatID, target)
	default:
		return RoleNone, ErrNoRole
	}
}

// Level returns the user's effective rank.
func (s *Service) Level(ctx context.Context, chatID, userID int64) (Role, error) {
	staff, err := s.store.Staff(ctx, chatID)
	if err != nil {
		return RoleNone, fmt.Errorf("load staff: %w", err)
	}
	return staff.roleOf(userID), nil
}

// IsCreator reports whether the user holds the creator seat.
func (s *Service) IsCreator(ctx context.Context, chatID, userID int64) (bool, error) {
	r, err := s.Level(ctx, chatID, userID)
	return r == RoleCreator, err
}

// IsAdmin reports admin rank or above.
func (s *Service) IsAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	r, err := s.Level(ctx, chatID, userID)
	return atLeast(r, RoleAdmin), err
}

// IsModerator reports moderator rank or above. This is the moderation
// authority consulted before a forced game stop.
func (s *Service) IsModerator(ctx context.Context, chatID, userID int64) (bool, error) {
	r, err := s.Level(ctx, chatID, userID)
	return atLeast(r, RoleModerator), err
}

// StaffList returns the chat's staff assignment.
func (s *Service) StaffList(ctx context.Context, chatID int64) (Staff, error) {
	return s.store.Staff(ctx, chatID)
}

func rank(r Role) int {
	switch r {
	case RoleCreator:
		return 3
	case RoleAdmin:
		return 2
	case RoleModerator:
		return 1
	default:
		return 0
	}
}

func atLeast(r, min Role) bool {
	return rank(r) >= rank(min)
}
