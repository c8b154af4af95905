package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/odyssey-erp/odyssey-users/internal/auth"
	"github.com/odyssey-erp/odyssey-users/internal/authz"
	"github.com/odyssey-erp/odyssey-users/internal/observability"
	"github.com/odyssey-erp/odyssey-users/internal/roles"
	"github.com/odyssey-erp/odyssey-users/internal/users"
	_ "github.com/odyssey-erp/odyssey-users/testing"
)

type apiFixture struct {
	handler http.Handler
	tokens  *auth.TokenStore
	roles   *memoryRoles
	users   *memoryUsers
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &Config{AppEnv: "test", TokenTTL: time.Hour, RateLimitPerMinute: 1000, AppRequestTimeout: 5 * time.Second}
	hash, err := bcrypt.GenerateFromPassword([]byte("provision-me"), bcrypt.MinCost)
	require.NoError(t, err)

	roleRepo := newMemoryRoles(
		roles.Role{ID: 1, Name: "Super_Admin", Active: true},
		roles.Role{ID: 2, Name: "admin", Active: true},
		roles.Role{ID: 3, Name: "editor", Active: true},
		roles.Role{ID: 4, Name: "admin", Active: false},
	)
	userRepo := newMemoryUsers(
		users.User{ID: 10, Email: "root@odyssey.local", Name: "Root", Role: "admin", RoleID: 2, IsActive: true},
		users.User{ID: 11, Email: "ed@odyssey.local", Name: "Ed", Role: "editor", RoleID: 3, IsActive: true, PasswordHash: string(hash)},
		users.User{ID: 12, Email: "old@odyssey.local", Name: "Old", Role: "admin", RoleID: 4, IsActive: true},
	)

	tokens := auth.NewTokenStore(client, "test:token", cfg.TokenTTL)
	metrics := observability.NewMetrics()
	names := roles.NewNameLookup(roleRepo, nil)
	authorizer := authz.NewAuthorizer(nil, metrics,
		authz.NewUserValidator(tokens, names, authz.MultiRoleUnion, nil),
		authz.NewRoleValidator(tokens, names, authz.MultiRoleUnion, nil),
	)
	authService := auth.NewService(auth.ServiceCredentials{ClientID: "provisioner", SecretHash: string(hash)}, tokens, userRepo, nil)

	handler := NewRouter(RouterParams{
		Config:       cfg,
		AuthHandler:  auth.NewHandler(nil, authService),
		RolesHandler: roles.NewHandler(nil, roles.NewService(roleRepo, userRepo, authorizer, nil)),
		UsersHandler: users.NewHandler(nil, users.NewService(userRepo, authorizer, nil)),
		Metrics:      metrics,
	})
	return &apiFixture{handler: handler, tokens: tokens, roles: roleRepo, users: userRepo}
}

func (f *apiFixture) tokenFor(t *testing.T, userID int64) string {
	t.Helper()
	u, err := f.users.Get(context.Background(), userID)
	require.NoError(t, err)
	token, err := f.tokens.Issue(context.Background(), auth.PrincipalForUser(*u))
	require.NoError(t, err)
	return token
}

func (f *apiFixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res := httptest.NewRecorder()
	f.handler.ServeHTTP(res, req)
	return res
}

func TestHealthzAndSecureHeaders(t *testing.T) {
	f := newAPIFixture(t)

	res := f.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"status":"ok"}`, res.Body.String())
	assert.Equal(t, "DENY", res.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", res.Header().Get("X-Content-Type-Options"))
}

func TestRoleCreationByCaller(t *testing.T) {
	f := newAPIFixture(t)
	body := `{"name":"auditor","active":true}`

	cases := []struct {
		name   string
		token  string
		status int
	}{
		{"administrator", f.tokenFor(t, 10), http.StatusCreated},
		{"editor", f.tokenFor(t, 11), http.StatusForbidden},
		{"inactive admin role", f.tokenFor(t, 12), http.StatusForbidden},
		{"anonymous", "", http.StatusForbidden},
		{"unknown token", "not-a-token", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := f.do(t, http.MethodPost, "/roles", tc.token, body)
			assert.Equal(t, tc.status, res.Code, res.Body.String())
		})
	}
}

func TestServiceTokenCreatesButCannotDeleteRoles(t *testing.T) {
	f := newAPIFixture(t)

	res := f.do(t, http.MethodPost, "/auth/token", "", `{"client_id":"provisioner","client_secret":"provision-me"}`)
	require.Equal(t, http.StatusOK, res.Code)
	var issued struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&issued))

	res = f.do(t, http.MethodPost, "/roles", issued.Token, `{"name":"integration","active":true}`)
	require.Equal(t, http.StatusCreated, res.Code)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	assert.Equal(t, int64(5), created.ID)

	res = f.do(t, http.MethodDelete, "/roles/5", issued.Token, "")
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = f.do(t, http.MethodDelete, "/roles/5", f.tokenFor(t, 10), "")
	require.Equal(t, http.StatusOK, res.Code)
	res = f.do(t, http.MethodDelete, "/roles/5", f.tokenFor(t, 10), "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestUserUpdateOwnData(t *testing.T) {
	f := newAPIFixture(t)
	editor := f.tokenFor(t, 11)

	res := f.do(t, http.MethodPut, "/users/11", editor, `{"name":"Edwin"}`)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	u, err := f.users.Get(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "Edwin", u.Name)

	res = f.do(t, http.MethodPut, "/users/10", editor, `{"name":"Hijacked"}`)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = f.do(t, http.MethodPut, "/users/11", f.tokenFor(t, 10), `{"name":"Ed"}`)
	assert.Equal(t, http.StatusOK, res.Code)

	res = f.do(t, http.MethodDelete, "/users/11", editor, "")
	assert.Equal(t, http.StatusForbidden, res.Code)
	res = f.do(t, http.MethodDelete, "/users/11", f.tokenFor(t, 10), "")
	assert.Equal(t, http.StatusNoContent, res.Code)
}

func TestRoleUserQueries(t *testing.T) {
	f := newAPIFixture(t)

	res := f.do(t, http.MethodGet, "/roles/count?role=admin", "", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"role":"admin","count":2}`, res.Body.String())

	res = f.do(t, http.MethodGet, "/roles/3/users", "", "")
	require.Equal(t, http.StatusOK, res.Code)
	var list []users.User
	require.NoError(t, json.NewDecoder(res.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, int64(11), list[0].ID)

	res = f.do(t, http.MethodGet, "/roles/99", "", "")
	assert.Equal(t, http.StatusNotFound, res.Code)
	res = f.do(t, http.MethodGet, "/roles/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestMetricsExposeDecisions(t *testing.T) {
	f := newAPIFixture(t)

	f.do(t, http.MethodPost, "/roles", f.tokenFor(t, 11), `{"name":"x","active":true}`)

	res := f.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `odyssey_authz_decisions_total{attribute="ROLE_CAN_CREATE",result="deny"} 1`)
	assert.Contains(t, res.Body.String(), "odyssey_http_requests_total")
}

func TestRoleRewriteRequiresAdministrator(t *testing.T) {
	f := newAPIFixture(t)
	editor := f.tokenFor(t, 11)
	root := f.tokenFor(t, 10)

	res := f.do(t, http.MethodPut, "/roles/3", "", `{"name":"admin","active":true}`)
	assert.Equal(t, http.StatusForbidden, res.Code)
	res = f.do(t, http.MethodPut, "/roles/3", editor, `{"name":"admin","active":true}`)
	assert.Equal(t, http.StatusForbidden, res.Code)
	res = f.do(t, http.MethodPut, "/roles/2", "", `{"name":"admin","active":false}`)
	assert.Equal(t, http.StatusForbidden, res.Code)

	role, err := f.roles.Find(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "editor", role.Name)

	res = f.do(t, http.MethodDelete, "/users/10", editor, "")
	assert.Equal(t, http.StatusForbidden, res.Code)
	res = f.do(t, http.MethodPost, "/roles", root, `{"name":"auditor","active":true}`)
	assert.Equal(t, http.StatusCreated, res.Code)

	res = f.do(t, http.MethodPut, "/roles/3", root, `{"name":"senior-editor","active":true}`)
	require.Equal(t, http.StatusOK, res.Code)
	role, err = f.roles.Find(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "senior-editor", role.Name)
}

func TestLoginTokenDrivesUserPermissions(t *testing.T) {
	f := newAPIFixture(t)

	res := f.do(t, http.MethodPost, "/auth/login", "", `{"email":"ed@odyssey.local","password":"wrong-password"}`)
	require.Equal(t, http.StatusUnauthorized, res.Code)

	res = f.do(t, http.MethodPost, "/auth/login", "", `{"email":"ed@odyssey.local","password":"provision-me"}`)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	var issued struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&issued))

	res = f.do(t, http.MethodPut, "/users/11", issued.Token, `{"name":"Edwin"}`)
	assert.Equal(t, http.StatusOK, res.Code)
	res = f.do(t, http.MethodDelete, "/users/10", issued.Token, "")
	assert.Equal(t, http.StatusForbidden, res.Code)
}
