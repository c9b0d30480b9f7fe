// internal/roles/roles_test.go
package roles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(NewMemoryStore())
}

func TestClaimCreator(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	require.NoError(t, svc.SetCreator(ctx, 100, 1))

	ok, err := svc.IsCreator(ctx, 100, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	// The seat is taken, for the claimant included.
	assert.ErrorIs(t, svc.SetCreator(ctx, 100, 2), ErrDuplicateCreator)
	assert.ErrorIs(t, svc.SetCreator(ctx, 100, 1), ErrDuplicateCreator)

	// Creator seats are per chat.
	assert.NoError(t, svc.SetCreator(ctx, 200, 2))
}

func TestPromoteLadder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	require.NoError(t, svc.SetCreator(ctx, 100, 1))

	// Regular members cannot promote.
	_, err := svc.Promote(ctx, 100, 5, 6)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// Creator promotes user 2 to moderator, then to admin.
	role, err := svc.Promote(ctx, 100, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, RoleModerator, role)

	role, err = svc.Promote(ctx, 100, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	// Admins cannot be promoted further.
	_, err = svc.Promote(ctx, 100, 1, 2)
	assert.ErrorIs(t, err, ErrAlreadyHasRole)

	// The target's standing is checked before the actor's rank.
	_, err = svc.Promote(ctx, 100, 5, 2)
	assert.ErrorIs(t, err, ErrAlreadyHasRole)

	// A moderator may promote users to moderator, but not moderators to
	// admin.
	role, err = svc.Promote(ctx, 100, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, RoleModerator, role)

	_, err = svc.Promote(ctx, 100, 3, 4)
	require.NoError(t, err)
	_, err = svc.Promote(ctx, 100, 3, 4)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// An admin may raise a moderator to admin.
	role, err = svc.Promote(ctx, 100, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)
}

func TestDemoteLadder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	require.NoError(t, svc.SetCreator(ctx, 100, 1))

	_, err := svc.Promote(ctx, 100, 1, 2) // moderator
	require.NoError(t, err)
	_, err = svc.Promote(ctx, 100, 1, 2) // admin
	require.NoError(t, err)
	_, err = svc.Promote(ctx, 100, 1, 3) // moderator
	require.NoError(t, err)

	// Only the creator demotes admins.
	_, err = svc.Demote(ctx, 100, 3, 2)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	role, err := svc.Demote(ctx, 100, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, RoleModerator, role)

	// Admin rank suffices to strip a moderator.
	role, err = svc.Demote(ctx, 100, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, RoleNone, role)

	_, err = svc.Demote(ctx, 100, 1, 3)
	assert.ErrorIs(t, err, ErrNoRole)

	// The creator cannot be demoted.
	_, err = svc.Demote(ctx, 100, 1, 1)
	assert.ErrorIs(t, err, ErrAlreadyHasRole)
}

func TestTransferCreator(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	require.NoError(t, svc.SetCreator(ctx, 100, 1))

	assert.ErrorIs(t, svc.TransferCreator(ctx, 100, 2, 3), ErrNotAuthorized)
	assert.ErrorIs(t, svc.TransferCreator(ctx, 100, 1, 1), ErrSelfTransfer)

	require.NoError(t, svc.TransferCreator(ctx, 100, 1, 2))

	ok, err := svc.IsCreator(ctx, 100, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	// The former creator keeps admin rank.
	level, err := svc.Level(ctx, 100, 1)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, level)
}

func TestPermissionCascade(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	require.NoError(t, svc.SetCreator(ctx, 100, 1))

	ok, err := svc.IsAdmin(ctx, 100, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.IsModerator(ctx, 100, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Promote(ctx, 100, 1, 2) // moderator
	require.NoError(t, err)
	ok, err = svc.IsModerator(ctx, 100, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.IsAdmin(ctx, 100, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStaffList(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	require.NoError(t, svc.SetCreator(ctx, 100, 1))
	_, err := svc.Promote(ctx, 100, 1, 2) // moderator
	require.NoError(t, err)
	_, err = svc.Promote(ctx, 100, 1, 2) // admin
	require.NoError(t, err)
	_, err = svc.Promote(ctx, 100, 1, 3) // moderator
	require.NoError(t, err)

	staff, err := svc.StaffList(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, staff.Creator)
	assert.Equal(t, int64(1), *staff.Creator)
	assert.Equal(t, []int64{2}, staff.Admins)
	assert.Equal(t, []int64{3}, staff.Moderators)
}
