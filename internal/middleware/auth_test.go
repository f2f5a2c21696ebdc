package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gincana/placar/internal/domain"
	"github.com/gincana/placar/internal/service"
)

type fakeAuthorizer struct {
	users map[string]*domain.User
}

func (f fakeAuthorizer) Authorize(_ context.Context, token string, roles ...domain.Role) service.Authorization {
	user, ok := f.users[token]
	if !ok {
		return service.Authorization{Status: service.Unauthenticated}
	}
	if len(roles) > 0 && !user.Role.In(roles) {
		return service.Authorization{Status: service.Forbidden, User: user}
	}
	return service.Authorization{Status: service.Authorized, User: user}
}

func TestRequireRoles(t *testing.T) {
	auth := fakeAuthorizer{users: map[string]*domain.User{
		"admin-token":  {Username: "admin", Role: domain.RoleAdministrator},
		"member-token": {Username: "membro", Role: domain.RoleMember},
	}}

	var seen *domain.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		token    string
		roles    []domain.Role
		wantCode int
		wantLoc  string
		wantUser string
	}{
		{name: "no cookie", wantCode: http.StatusFound, wantLoc: LoginPath},
		{name: "unknown token", token: "nope", roles: domain.ManagerRoles, wantCode: http.StatusFound, wantLoc: LoginPath},
		{name: "member on manager page", token: "member-token", roles: domain.ManagerRoles, wantCode: http.StatusFound, wantLoc: DashboardPath},
		{name: "member on dashboard", token: "member-token", wantCode: http.StatusOK, wantUser: "membro"},
		{name: "admin on manager page", token: "admin-token", roles: domain.ManagerRoles, wantCode: http.StatusOK, wantUser: "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/eventos", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.token})
			}
			rec := httptest.NewRecorder()

			RequireRoles(auth, tt.roles...)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
			if tt.wantUser == "" {
				assert.Nil(t, seen)
			} else {
				require.NotNil(t, seen)
				assert.Equal(t, tt.wantUser, seen.Username)
			}
		})
	}
}

func TestSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSession(rec, "tok", time.Now().Add(time.Hour), false)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	token, ok := ReadSession(req)
	assert.True(t, ok)
	assert.Equal(t, "tok", token)

	rec = httptest.NewRecorder()
	ClearSession(rec, false)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)

	_, ok = ReadSession(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}
