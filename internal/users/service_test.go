package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-shop/meridian-shop/internal/authz"
	"github.com/meridian-shop/meridian-shop/internal/shared"
)

type memoryRepo struct {
	byEmail     map[string]User
	nextID      int64
	writes      int
	createdWith CreateParams
}

func newMemoryRepo(seed ...User) *memoryRepo {
	repo := &memoryRepo{byEmail: make(map[string]User)}
	for _, u := range seed {
		repo.byEmail[u.Email] = u
		if u.ID > repo.nextID {
			repo.nextID = u.ID
		}
	}
	return repo
}

func (r *memoryRepo) ListUsers(ctx context.Context) ([]User, error) {
	users := make([]User, 0, len(r.byEmail))
	for _, u := range r.byEmail {
		users = append(users, u)
	}
	return users, nil
}

func (r *memoryRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	return u, nil
}

func (r *memoryRepo) Create(ctx context.Context, params CreateParams) (User, error) {
	r.nextID++
	r.createdWith = params
	u := User{ID: r.nextID, Email: params.Email, Name: params.Name, Role: params.Role, IsActive: true}
	r.byEmail[u.Email] = u
	return u, nil
}

func (r *memoryRepo) UpdateRoleByEmail(ctx context.Context, email, role string) (User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	u.Role = role
	r.byEmail[email] = u
	r.writes++
	return u, nil
}

func (r *memoryRepo) RoleByUserID(ctx context.Context, userID int64) (string, error) {
	for _, u := range r.byEmail {
		if u.ID == userID {
			return u.Role, nil
		}
	}
	return "", authz.ErrUserNotFound
}

type recordingAuditor struct {
	logs []shared.AuditLog
}

func (a *recordingAuditor) Record(ctx context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func TestCreateUserAssignsDefaultRole(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil, nil)

	user, err := svc.CreateUser(context.Background(), CreateInput{
		Email:    "shopper@test.local",
		Name:     "Shopper",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.Equal(t, authz.DefaultRole, user.Role)
	require.NotEmpty(t, repo.createdWith.PasswordHash)
	require.NotEqual(t, "hunter2hunter2", repo.createdWith.PasswordHash)
}

func TestCreateUserExplicitRole(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil, nil)

	user, err := svc.CreateUser(context.Background(), CreateInput{
		Email:    "seller@test.local",
		Name:     "Seller",
		Password: "hunter2hunter2",
		Role:     authz.RoleVendor,
	})
	require.NoError(t, err)
	require.Equal(t, authz.RoleVendor, user.Role)

	_, err = svc.CreateUser(context.Background(), CreateInput{
		Email:    "ghost@test.local",
		Name:     "Ghost",
		Password: "hunter2hunter2",
		Role:     "nightManager",
	})
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestChangeRole(t *testing.T) {
	repo := newMemoryRepo(
		User{ID: 1, Email: "boss@test.local", Role: authz.RoleSuperAdmin},
		User{ID: 2, Email: "shopper@test.local", Role: authz.RoleCustomer},
	)
	auditor := &recordingAuditor{}
	svc := NewService(repo, auditor, nil, nil)

	updated, err := svc.ChangeRole(context.Background(), 1, "shopper@test.local", authz.RoleVendor)
	require.NoError(t, err)
	require.Equal(t, authz.RoleVendor, updated.Role)
	require.Equal(t, 1, repo.writes)
	require.Len(t, auditor.logs, 1)
	require.Equal(t, "user.role_changed", auditor.logs[0].Action)
}

func TestChangeRoleIdempotent(t *testing.T) {
	repo := newMemoryRepo(
		User{ID: 1, Email: "boss@test.local", Role: authz.RoleSuperAdmin},
		User{ID: 2, Email: "shopper@test.local", Role: authz.RoleCustomer},
	)
	svc := NewService(repo, nil, nil, nil)

	updated, err := svc.ChangeRole(context.Background(), 1, "shopper@test.local", authz.RoleCustomer)
	require.NoError(t, err)
	require.Equal(t, authz.RoleCustomer, updated.Role)
	require.Zero(t, repo.writes, "no write expected when role unchanged")
}

func TestChangeRoleSelfElevationDenied(t *testing.T) {
	repo := newMemoryRepo(
		User{ID: 1, Email: "admin@test.local", Role: authz.RoleAdmin},
	)
	auditor := &recordingAuditor{}
	svc := NewService(repo, auditor, nil, nil)

	// Actor 1 holds user:change_role through some grant, but targeting their
	// own account with the highest role is denied anyway.
	_, err := svc.ChangeRole(context.Background(), 1, "admin@test.local", authz.RoleSuperAdmin)
	require.ErrorIs(t, err, ErrSelfElevation)
	require.Equal(t, authz.RoleAdmin, repo.byEmail["admin@test.local"].Role)
	require.Len(t, auditor.logs, 1)
	require.Equal(t, "user.role_change_denied", auditor.logs[0].Action)
}

func TestChangeRoleElevatingAnotherUser(t *testing.T) {
	repo := newMemoryRepo(
		User{ID: 1, Email: "boss@test.local", Role: authz.RoleSuperAdmin},
		User{ID: 2, Email: "deputy@test.local", Role: authz.RoleAdmin},
	)
	svc := NewService(repo, nil, nil, nil)

	// Same target role as the self-elevation case, different target user.
	updated, err := svc.ChangeRole(context.Background(), 1, "deputy@test.local", authz.RoleSuperAdmin)
	require.NoError(t, err)
	require.Equal(t, authz.RoleSuperAdmin, updated.Role)
}

func TestChangeRoleSelfDemotionAllowed(t *testing.T) {
	repo := newMemoryRepo(
		User{ID: 1, Email: "boss@test.local", Role: authz.RoleSuperAdmin},
	)
	svc := NewService(repo, nil, nil, nil)

	// The guard only blocks elevation to the highest role, not stepping down.
	updated, err := svc.ChangeRole(context.Background(), 1, "boss@test.local", authz.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, authz.RoleAdmin, updated.Role)
}

func TestChangeRoleUnknownRole(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil, nil)

	_, err := svc.ChangeRole(context.Background(), 1, "anyone@test.local", "nightManager")
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestChangeRoleTargetMissing(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil, nil)

	_, err := svc.ChangeRole(context.Background(), 1, "anyone@test.local", authz.RoleVendor)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
