package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateShippedRoles(t *testing.T) {
	require.NoError(t, Validate())
}

func TestValidateRejectsUndeclaredGrant(t *testing.T) {
	roles["broken"] = GrantSet{Resource("warehouse"): {"pick"}}
	defer delete(roles, "broken")

	err := Validate()
	require.ErrorIs(t, err, ErrInvalidGrant)
	require.Contains(t, err.Error(), "warehouse")
}

func TestValidateRejectsUndeclaredAction(t *testing.T) {
	roles["broken"] = GrantSet{ResourceCategory: {"archive"}}
	defer delete(roles, "broken")

	err := Validate()
	require.ErrorIs(t, err, ErrInvalidGrant)
	require.Contains(t, err.Error(), "archive")
}

func TestGetRole(t *testing.T) {
	grants, err := GetRole(RoleVendor)
	require.NoError(t, err)
	require.Contains(t, grants[ResourceProduct], "manage_inventory")
	require.Empty(t, grants[ResourceSupport])

	_, err = GetRole("shiftSupervisor")
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestGetRoleReturnsCopy(t *testing.T) {
	grants, err := GetRole(RoleCustomer)
	require.NoError(t, err)
	grants[ResourceUser] = append(grants[ResourceUser], "delete")

	again, err := GetRole(RoleCustomer)
	require.NoError(t, err)
	require.NotContains(t, again[ResourceUser], "delete")
}

func TestDefaultRole(t *testing.T) {
	require.Equal(t, RoleCustomer, DefaultRole)
	require.True(t, IsRole(DefaultRole))
	require.Equal(t, RoleSuperAdmin, HighestRole)
}

func TestEveryRoleCoversEverySchemaResource(t *testing.T) {
	// Grant tables declare an explicit (possibly empty) entry per schema
	// resource except session, which only the admin tiers hold.
	for name, grants := range roles {
		for resource := range schema {
			if resource == ResourceSession {
				continue
			}
			_, ok := grants[resource]
			require.Truef(t, ok, "role %s missing entry for resource %s", name, resource)
		}
	}
}

func TestRoleNames(t *testing.T) {
	names := RoleNames()
	require.Len(t, names, 6)
	require.Contains(t, names, RoleSuperAdmin)
	require.Contains(t, names, RoleCustomer)
}
