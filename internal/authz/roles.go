package authz

import (
	"errors"
	"fmt"
	"sort"
)

// Role name constants. These are the canonical values stored in the
// users.role column and must remain stable.
const (
	RoleSuperAdmin    = "superAdmin"
	RoleAdmin         = "admin"
	RoleVendor        = "vendor"
	RoleSalesManager  = "salesManager"
	RoleContentEditor = "contentEditor"
	RoleCustomer      = "customer"
)

// DefaultRole is assigned to accounts created without an explicit role.
const DefaultRole = RoleCustomer

// HighestRole is the most privileged role. The self-elevation guard in the
// user module refuses to let a caller assign it to themselves.
const HighestRole = RoleSuperAdmin

// ErrRoleNotFound indicates a role name absent from the registry.
var ErrRoleNotFound = errors.New("authz: role not found")

// ErrInvalidGrant indicates a role grant referencing an undeclared resource
// or action. It is a startup error, never a per-request one.
var ErrInvalidGrant = errors.New("authz: role grant not declared in schema")

// roles binds each role name to its grant table. The tables are immutable
// after process start; an absent resource entry means no access to that
// resource at all.
var roles = map[string]GrantSet{
	RoleSuperAdmin: {
		ResourceUser:       {"create", "read", "update", "delete", "list", "ban", "unban", "change_role"},
		ResourceProduct:    {"create", "read", "update", "delete", "list", "publish", "unpublish", "manage_inventory"},
		ResourceOrder:      {"create", "read", "update", "delete", "list", "cancel", "fulfill", "refund", "track"},
		ResourceCategory:   {"create", "read", "update", "delete", "list", "reorder"},
		ResourceContent:    {"create", "read", "update", "delete", "list", "publish", "unpublish"},
		ResourceBlog:       {"create", "read", "update", "delete", "list", "publish", "unpublish"},
		ResourceDiscount:   {"create", "read", "update", "delete", "list", "activate", "deactivate"},
		ResourceAnalytics:  {"view_sales", "view_traffic", "view_customers", "view_products", "export_reports"},
		ResourceReview:     {"create", "read", "update", "delete", "moderate", "respond"},
		ResourceCoupon:     {"create", "read", "update", "delete", "list", "validate"},
		ResourceInventory:  {"view", "update", "track", "alert", "transfer"},
		ResourceSupport:    {"view_tickets", "respond", "escalate", "close", "assign"},
		ResourceSession:    {"delete", "list", "revoke"},
		ResourceSiteConfig: {"read", "update"},
	},
	RoleAdmin: {
		ResourceUser:       {"create", "read", "update", "delete", "list", "ban", "unban"},
		ResourceProduct:    {"create", "read", "update", "delete", "list", "publish", "unpublish", "manage_inventory"},
		ResourceOrder:      {"read", "update", "list", "cancel", "fulfill", "refund", "track"},
		ResourceCategory:   {"create", "read", "update", "delete", "list", "reorder"},
		ResourceContent:    {"create", "read", "update", "delete", "list", "publish", "unpublish"},
		ResourceBlog:       {"create", "read", "update", "delete", "list", "publish", "unpublish"},
		ResourceDiscount:   {"create", "read", "update", "delete", "list", "activate", "deactivate"},
		ResourceAnalytics:  {"view_sales", "view_traffic", "view_customers", "view_products", "export_reports"},
		ResourceReview:     {"read", "moderate", "respond"},
		ResourceCoupon:     {"create", "read", "update", "delete", "list", "validate"},
		ResourceInventory:  {"view", "update", "track", "alert", "transfer"},
		ResourceSupport:    {"view_tickets", "respond", "escalate", "close", "assign"},
		ResourceSession:    {"delete", "list", "revoke"},
		ResourceSiteConfig: {"read", "update"},
	},
	RoleVendor: {
		ResourceUser:       {"read"},
		ResourceProduct:    {"create", "read", "update", "list", "publish", "unpublish", "manage_inventory"},
		ResourceOrder:      {"read", "update", "list", "fulfill", "track"},
		ResourceCategory:   {"read", "list"},
		ResourceContent:    {},
		ResourceBlog:       {},
		ResourceDiscount:   {"create", "read", "update", "delete", "list"},
		ResourceAnalytics:  {"view_sales", "view_products"},
		ResourceReview:     {"read", "respond"},
		ResourceCoupon:     {"create", "read", "update", "delete", "list", "validate"},
		ResourceInventory:  {"view", "update", "track", "alert"},
		ResourceSupport:    {},
		ResourceSiteConfig: {"read"},
	},
	RoleSalesManager: {
		ResourceUser:       {"read", "list"},
		ResourceProduct:    {"read", "list"},
		ResourceOrder:      {"read", "update", "list", "cancel", "fulfill", "refund", "track"},
		ResourceCategory:   {"read", "list"},
		ResourceContent:    {},
		ResourceBlog:       {},
		ResourceDiscount:   {"create", "read", "update", "delete", "list", "activate", "deactivate"},
		ResourceAnalytics:  {"view_sales", "view_traffic", "view_customers", "view_products", "export_reports"},
		ResourceReview:     {"read", "moderate"},
		ResourceCoupon:     {"create", "read", "update", "delete", "list", "validate"},
		ResourceInventory:  {"view", "track"},
		ResourceSupport:    {"view_tickets", "respond", "close"},
		ResourceSiteConfig: {"read"},
	},
	RoleContentEditor: {
		ResourceUser:       {"read"},
		ResourceProduct:    {"read", "update", "list"},
		ResourceOrder:      {},
		ResourceCategory:   {"create", "read", "update", "list", "reorder"},
		ResourceContent:    {"create", "read", "update", "delete", "list", "publish", "unpublish"},
		ResourceBlog:       {"create", "read", "update", "delete", "list", "publish", "unpublish"},
		ResourceDiscount:   {},
		ResourceAnalytics:  {},
		ResourceReview:     {"read", "moderate", "respond"},
		ResourceCoupon:     {},
		ResourceInventory:  {},
		ResourceSupport:    {},
		ResourceSiteConfig: {"read"},
	},
	RoleCustomer: {
		ResourceUser:       {"read", "update"},
		ResourceProduct:    {"read", "list"},
		ResourceOrder:      {"create", "read", "list", "cancel"},
		ResourceCategory:   {"read", "list"},
		ResourceContent:    {"read"},
		ResourceBlog:       {"read"},
		ResourceDiscount:   {"read"},
		ResourceAnalytics:  {},
		ResourceReview:     {"create", "read", "update"},
		ResourceCoupon:     {"validate"},
		ResourceInventory:  {},
		ResourceSupport:    {},
		ResourceSiteConfig: {"read"},
	},
}

// GetRole returns the grant table for the named role.
func GetRole(name string) (GrantSet, error) {
	grants, ok := roles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoleNotFound, name)
	}
	return cloneGrantSet(grants), nil
}

// RoleNames lists every registered role name in sorted order.
func RoleNames() []string {
	names := make([]string, 0, len(roles))
	for name := range roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRole reports whether name is a registered role.
func IsRole(name string) bool {
	_, ok := roles[name]
	return ok
}

// Validate checks every role grant against the permission schema. A grant
// naming a resource or action the schema does not declare aborts startup.
func Validate() error {
	for name, grants := range roles {
		for resource, actions := range grants {
			declared, ok := schema[resource]
			if !ok {
				return fmt.Errorf("%w: role %s references resource %q", ErrInvalidGrant, name, resource)
			}
			for _, action := range actions {
				if !contains(declared, action) {
					return fmt.Errorf("%w: role %s references action %q on resource %q", ErrInvalidGrant, name, action, resource)
				}
			}
		}
	}
	return nil
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
