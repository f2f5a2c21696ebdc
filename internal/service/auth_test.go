package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gincana/placar/internal/domain"
	"github.com/gincana/placar/internal/session"
)

type authFixture struct {
	svc      *AuthService
	repo     *userRepoMock
	sessions *session.MemoryStore
	now      time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("segredo"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &userRepoMock{}
	repo.On("GetByUsername", mock.Anything, "admin").Return(&domain.User{Username: "admin", Password: string(hash), Role: domain.RoleAdministrator}, nil).Maybe()
	repo.On("GetByUsername", mock.Anything, "membro").Return(&domain.User{Username: "membro", Password: string(hash), Role: domain.RoleMember}, nil).Maybe()

	f := &authFixture{
		repo:     repo,
		sessions: session.NewMemoryStore(),
		now:      time.Now(),
	}
	users := newTestUserService(repo)
	f.svc = NewAuthService(users, repo, f.sessions, "test-secret", time.Hour, nil, zap.NewNop())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *authFixture) login(t *testing.T, username string) string {
	t.Helper()
	token, _, err := f.svc.Login(context.Background(), username, "segredo")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return token
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.On("GetByUsername", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)

	token, expires, err := f.svc.Login(context.Background(), "admin", "segredo")
	require.NoError(t, err)
	assert.Equal(t, f.now.Add(time.Hour), expires)

	claims, err := f.svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, 1, f.sessions.Len())

	_, _, err = f.svc.Login(context.Background(), "admin", "errado")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = f.svc.Login(context.Background(), "ghost", "segredo")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Authorize(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	adminToken := f.login(t, "admin")
	memberToken := f.login(t, "membro")

	t.Run("no session", func(t *testing.T) {
		assert.Equal(t, Unauthenticated, f.svc.Authorize(ctx, "").Status)
		assert.Equal(t, Unauthenticated, f.svc.Authorize(ctx, "garbage", domain.ManagerRoles...).Status)
	})

	t.Run("any session", func(t *testing.T) {
		res := f.svc.Authorize(ctx, memberToken)
		assert.Equal(t, Authorized, res.Status)
		assert.Equal(t, "membro", res.User.Username)
	})

	t.Run("member is forbidden from manager pages", func(t *testing.T) {
		res := f.svc.Authorize(ctx, memberToken, domain.ManagerRoles...)
		assert.Equal(t, Forbidden, res.Status)
	})

	t.Run("admin is authorized", func(t *testing.T) {
		res := f.svc.Authorize(ctx, adminToken, domain.ManagerRoles...)
		require.Equal(t, Authorized, res.Status)
		assert.Equal(t, domain.RoleAdministrator, res.User.Role)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{ID: "x", Subject: "admin", ExpiresAt: jwt.NewNumericDate(f.now.Add(time.Hour))}}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other"))
		require.NoError(t, err)
		assert.Equal(t, Unauthenticated, f.svc.Authorize(ctx, forged).Status)
	})
}

func TestAuthService_AuthorizeDeletedUser(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("segredo"), bcrypt.MinCost)
	require.NoError(t, err)
	f.repo.On("GetByUsername", mock.Anything, "temp").Return(&domain.User{Username: "temp", Password: string(hash), Role: domain.RoleLeader}, nil).Once()
	f.repo.On("GetByUsername", mock.Anything, "temp").Return(nil, domain.ErrUserNotFound)

	token := f.login(t, "temp")
	assert.Equal(t, Unauthenticated, f.svc.Authorize(ctx, token).Status)
}

func TestAuthService_LogoutAndExpiry(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	token := f.login(t, "admin")
	require.NoError(t, f.svc.Logout(ctx, token))
	assert.Equal(t, Unauthenticated, f.svc.Authorize(ctx, token).Status)
	assert.NoError(t, f.svc.Logout(ctx, "not-a-token"))

	token = f.login(t, "admin")
	f.now = f.now.Add(2 * time.Hour)
	assert.Equal(t, Unauthenticated, f.svc.Authorize(ctx, token).Status)
}
