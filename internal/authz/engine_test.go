package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	roles map[int64]string
	err   error
}

func (s *stubResolver) RoleByUserID(ctx context.Context, userID int64) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	role, ok := s.roles[userID]
	if !ok {
		return "", ErrUserNotFound
	}
	return role, nil
}

func TestHasPermissionConjunctive(t *testing.T) {
	// All resource/action pairs in the requirement must be covered.
	require.True(t, HasPermission(RoleAdmin, GrantSet{
		ResourceCategory: {"create", "update"},
		ResourceProduct:  {"publish"},
	}))

	// admin lacks user:change_role, so the combined requirement fails even
	// though every other pair is granted.
	require.False(t, HasPermission(RoleAdmin, GrantSet{
		ResourceCategory: {"create"},
		ResourceUser:     {"change_role"},
	}))

	// Partial action coverage on a single resource is a denial.
	require.False(t, HasPermission(RoleCustomer, GrantSet{
		ResourceUser: {"read", "delete"},
	}))
}

func TestHasPermissionAbsentResource(t *testing.T) {
	// customer has no analytics entry at all; any non-empty requirement on
	// it must fail.
	require.False(t, HasPermission(RoleCustomer, GrantSet{
		ResourceAnalytics: {"view_sales"},
	}))

	// vendor has no support grants.
	require.False(t, HasPermission(RoleVendor, GrantSet{
		ResourceSupport: {"view_tickets"},
	}))
}

func TestHasPermissionEmptyRequirement(t *testing.T) {
	require.True(t, HasPermission(RoleCustomer, GrantSet{}))
	require.True(t, HasPermission(RoleCustomer, nil))
}

func TestHasPermissionUnknownRole(t *testing.T) {
	require.False(t, HasPermission("warehouseClerk", GrantSet{ResourceProduct: {"read"}}))
	// Even an empty requirement is vacuously true regardless of the role
	// name; the role table is never consulted.
	require.True(t, HasPermission("warehouseClerk", GrantSet{}))
}

func TestVendorCannotDeleteUsers(t *testing.T) {
	require.True(t, HasPermission(RoleVendor, GrantSet{
		ResourceProduct: {"create", "read", "update", "list", "publish", "unpublish", "manage_inventory"},
	}))
	require.False(t, HasPermission(RoleVendor, GrantSet{ResourceUser: {"delete"}}))
	require.True(t, HasPermission(RoleSuperAdmin, GrantSet{ResourceUser: {"delete"}}))
}

func TestUserHasPermission(t *testing.T) {
	engine := NewEngine(&stubResolver{roles: map[int64]string{
		7:  RoleVendor,
		11: RoleSuperAdmin,
	}}, nil)
	ctx := context.Background()

	granted, err := engine.UserHasPermission(ctx, 7, GrantSet{ResourceUser: {"delete"}})
	require.NoError(t, err)
	require.False(t, granted)

	granted, err = engine.UserHasPermission(ctx, 11, GrantSet{ResourceUser: {"delete"}})
	require.NoError(t, err)
	require.True(t, granted)
}

func TestUserHasPermissionUnknownUserDenies(t *testing.T) {
	engine := NewEngine(&stubResolver{roles: map[int64]string{}}, nil)

	granted, err := engine.UserHasPermission(context.Background(), 42, GrantSet{ResourceProduct: {"read"}})
	require.NoError(t, err)
	require.False(t, granted)
}

func TestUserHasPermissionResolverFailure(t *testing.T) {
	boom := errors.New("connection reset")
	engine := NewEngine(&stubResolver{err: boom}, nil)

	granted, err := engine.UserHasPermission(context.Background(), 42, GrantSet{ResourceProduct: {"read"}})
	require.ErrorIs(t, err, boom)
	require.False(t, granted)
}
