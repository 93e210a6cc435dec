package users_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/meridian-shop/meridian-shop/internal/authz"
	"github.com/meridian-shop/meridian-shop/internal/shared"
	"github.com/meridian-shop/meridian-shop/internal/users"
	_ "github.com/meridian-shop/meridian-shop/testing"
)

type fakeStore struct {
	byEmail map[string]users.User
}

func (f *fakeStore) ListUsers(ctx context.Context) ([]users.User, error) {
	all := make([]users.User, 0, len(f.byEmail))
	for _, u := range f.byEmail {
		all = append(all, u)
	}
	return all, nil
}

func (f *fakeStore) FindByEmail(ctx context.Context, email string) (users.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return users.User{}, shared.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) Create(ctx context.Context, params users.CreateParams) (users.User, error) {
	u := users.User{ID: int64(len(f.byEmail) + 1), Email: params.Email, Name: params.Name, Role: params.Role, IsActive: true}
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeStore) UpdateRoleByEmail(ctx context.Context, email, role string) (users.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return users.User{}, shared.ErrNotFound
	}
	u.Role = role
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeStore) RoleByUserID(ctx context.Context, userID int64) (string, error) {
	for _, u := range f.byEmail {
		if u.ID == userID {
			return u.Role, nil
		}
	}
	return "", authz.ErrUserNotFound
}

func newUsersRouter(t *testing.T, store *fakeStore) (http.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)

	mw := authz.Middleware{Engine: authz.NewEngine(store, nil)}
	handler := users.NewHandler(nil, users.NewService(store, nil, nil, nil), mw)

	router := chi.NewRouter()
	router.Route("/users", handler.MountRoutes)
	return router, sessions
}

func do(t *testing.T, router http.Handler, sessions *shared.SessionManager, method, path string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	sess, err := sessions.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if userID != 0 {
		sess.SetUser(strconv.FormatInt(userID, 10))
	}
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func seededStore() *fakeStore {
	return &fakeStore{byEmail: map[string]users.User{
		"boss@test.local":    {ID: 1, Email: "boss@test.local", Role: authz.RoleSuperAdmin},
		"seller@test.local":  {ID: 2, Email: "seller@test.local", Role: authz.RoleVendor},
		"shopper@test.local": {ID: 3, Email: "shopper@test.local", Role: authz.RoleCustomer},
	}}
}

func TestChangeRoleRouteUnauthenticated(t *testing.T) {
	router, sessions := newUsersRouter(t, seededStore())

	res := do(t, router, sessions, http.MethodPost, "/users/shopper@test.local/change-role/vendor", 0)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestChangeRoleRouteForbiddenForVendor(t *testing.T) {
	router, sessions := newUsersRouter(t, seededStore())

	// Vendor holds no user:change_role grant; the middleware denies before
	// the handler runs.
	res := do(t, router, sessions, http.MethodPost, "/users/shopper@test.local/change-role/vendor", 2)
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "You don't have permission to perform this action") {
		t.Fatalf("unexpected forbidden body: %s", res.Body.String())
	}
}

func TestChangeRoleRouteSuperAdmin(t *testing.T) {
	store := seededStore()
	router, sessions := newUsersRouter(t, store)

	res := do(t, router, sessions, http.MethodPost, "/users/shopper@test.local/change-role/vendor", 1)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if store.byEmail["shopper@test.local"].Role != authz.RoleVendor {
		t.Fatalf("role not persisted")
	}
}

func TestRoleChangeTakesEffectNextRequest(t *testing.T) {
	store := seededStore()
	router, sessions := newUsersRouter(t, store)

	// Boss demotes themselves to admin. Allowed: the guard only blocks
	// elevation to the highest role.
	res := do(t, router, sessions, http.MethodPost, "/users/boss@test.local/change-role/admin", 1)
	if res.Code != http.StatusOK {
		t.Fatalf("self demotion: expected 200, got %d: %s", res.Code, res.Body.String())
	}

	// The very next request re-resolves the role: admin lacks
	// user:change_role, so crowning themselves back fails at the middleware.
	res = do(t, router, sessions, http.MethodPost, "/users/boss@test.local/change-role/superAdmin", 1)
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403 after demotion, got %d", res.Code)
	}
}

func TestListUsersRouteRequiresPermission(t *testing.T) {
	router, sessions := newUsersRouter(t, seededStore())

	if res := do(t, router, sessions, http.MethodGet, "/users/", 3); res.Code != http.StatusForbidden {
		t.Fatalf("customer listing users: expected 403, got %d", res.Code)
	}
	if res := do(t, router, sessions, http.MethodGet, "/users/", 1); res.Code != http.StatusOK {
		t.Fatalf("superAdmin listing users: expected 200, got %d", res.Code)
	}
}
