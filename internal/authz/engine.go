package authz

import (
	"context"
	"errors"
	"log/slog"
)

// ErrUserNotFound indicates the principal behind a permission check does not
// exist in the user store.
var ErrUserNotFound = errors.New("authz: user not found")

// RoleResolver looks up the role currently assigned to a user. The lookup
// hits the user store every time so a role change takes effect on the very
// next request.
type RoleResolver interface {
	RoleByUserID(ctx context.Context, userID int64) (string, error)
}

// Engine answers "does this principal hold these permissions". Decisions are
// recomputed per call; there is no caching layer on top of the resolver.
type Engine struct {
	resolver RoleResolver
	logger   *slog.Logger
}

// NewEngine constructs an Engine backed by the given resolver.
func NewEngine(resolver RoleResolver, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{resolver: resolver, logger: logger}
}

// HasPermission reports whether the named role satisfies the required grant
// set. The check is conjunctive: for every resource in required, the role's
// grant must be a superset of the required actions. A resource absent from
// the role's grants is an empty set, so any non-empty requirement on it
// fails. An empty required set is vacuously granted. Unknown role names
// always deny.
func HasPermission(roleName string, required GrantSet) bool {
	if len(required) == 0 {
		return true
	}
	grants, ok := roles[roleName]
	if !ok {
		return false
	}
	for resource, actions := range required {
		granted := grants[resource]
		for _, action := range actions {
			if !contains(granted, action) {
				return false
			}
		}
	}
	return true
}

// UserHasPermission resolves the user's current role and evaluates the
// required grant set against it. Resolution errors deny: without a definite
// role there is no definite grant.
func (e *Engine) UserHasPermission(ctx context.Context, userID int64, required GrantSet) (bool, error) {
	roleName, err := e.resolver.RoleByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		e.logger.Error("authz resolve role", slog.Int64("user_id", userID), slog.Any("error", err))
		return false, err
	}
	return HasPermission(roleName, required), nil
}
