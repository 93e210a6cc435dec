package users

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-shop/meridian-shop/internal/authz"
	"github.com/meridian-shop/meridian-shop/internal/shared"
)

// ErrSelfElevation is returned when a caller tries to assign the highest
// privilege role to their own account. Holding user:change_role does not
// bypass this guard.
var ErrSelfElevation = errors.New("cannot elevate your own role")

// ErrUnknownRole is returned for role names absent from the registry.
var ErrUnknownRole = errors.New("unknown role")

// Auditor records security-relevant events. Satisfied by shared.AuditLogger.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Mailer enqueues transactional email for newly created accounts.
type Mailer interface {
	EnqueueWelcomeEmail(ctx context.Context, email, name string) error
}

// Service handles user business logic.
type Service struct {
	repo   RepositoryPort
	audit  Auditor
	mailer Mailer
	logger *slog.Logger
}

// NewService builds a Service instance. audit and mailer may be nil in tests.
func NewService(repo RepositoryPort, audit Auditor, mailer Mailer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, audit: audit, mailer: mailer, logger: logger}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser fetches a single user by email.
func (s *Service) GetUser(ctx context.Context, email string) (User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// CreateInput carries the fields accepted when registering an account.
type CreateInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

// CreateUser registers an account. An empty role gets the registry default;
// a non-empty role must exist in the registry.
func (s *Service) CreateUser(ctx context.Context, input CreateInput) (User, error) {
	role := input.Role
	if role == "" {
		role = authz.DefaultRole
	} else if !authz.IsRole(role) {
		return User{}, ErrUnknownRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user, err := s.repo.Create(ctx, CreateParams{
		Email:        input.Email,
		Name:         input.Name,
		Role:         role,
		PasswordHash: string(hash),
	})
	if err != nil {
		return User{}, err
	}

	if s.mailer != nil {
		if err := s.mailer.EnqueueWelcomeEmail(ctx, user.Email, user.Name); err != nil {
			s.logger.Warn("enqueue welcome email", slog.String("email", user.Email), slog.Any("error", err))
		}
	}
	return user, nil
}

// ChangeRole assigns newRole to the user identified by email. The operation
// is idempotent: a target already holding the role is returned unchanged
// without a write. A caller assigning the highest role to themselves is
// denied regardless of their grants.
func (s *Service) ChangeRole(ctx context.Context, actorID int64, email, newRole string) (User, error) {
	if !authz.IsRole(newRole) {
		return User{}, ErrUnknownRole
	}

	target, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}

	if target.Role == newRole {
		return target, nil
	}

	if target.ID == actorID && newRole == authz.HighestRole {
		s.logger.Warn("self elevation denied",
			slog.Int64("actor_id", actorID),
			slog.String("requested_role", newRole))
		s.recordAudit(ctx, actorID, "user.role_change_denied", target, map[string]any{
			"requested_role": newRole,
			"reason":         "self_elevation",
		})
		return User{}, ErrSelfElevation
	}

	updated, err := s.repo.UpdateRoleByEmail(ctx, email, newRole)
	if err != nil {
		return User{}, err
	}

	s.recordAudit(ctx, actorID, "user.role_changed", updated, map[string]any{
		"old_role": target.Role,
		"new_role": newRole,
	})
	return updated, nil
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, target User, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "user",
		EntityID: strconv.FormatInt(target.ID, 10),
		Meta:     meta,
	})
	if err != nil {
		s.logger.Warn("audit record", slog.String("action", action), slog.Any("error", err))
	}
}
