package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gincana/placar/internal/domain"
	"github.com/gincana/placar/internal/metrics"
	"github.com/gincana/placar/internal/repository"
	"github.com/gincana/placar/internal/session"
)

// Claims is the payload of a session token. The session id travels in ID
// and the username in Subject.
type Claims struct {
	jwt.RegisteredClaims
}

// AuthStatus is the outcome of an authorization check
type AuthStatus int

// Authorization outcomes
const (
	Unauthenticated AuthStatus = iota
	Forbidden
	Authorized
)

func (s AuthStatus) String() string {
	switch s {
	case Authorized:
		return "authorized"
	case Forbidden:
		return "forbidden"
	default:
		return "unauthenticated"
	}
}

// Authorization is the typed result consumed by the auth guard
type Authorization struct {
	Status AuthStatus
	User   *domain.User
}

// AuthService handles login, logout and role checks
type AuthService struct {
	users    *UserService
	userRepo repository.UserRepository
	sessions session.Store
	secret   []byte
	ttl      time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users *UserService,
	userRepo repository.UserRepository,
	sessions session.Store,
	secret string,
	ttl time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		userRepo: userRepo,
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
		metrics:  m,
		logger:   logger.Named("auth"),
		now:      time.Now,
	}
}

// Login checks the credentials, opens a session and returns its signed token
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	ok, err := s.users.VerifyCredentials(ctx, username, password)
	if err != nil {
		return "", time.Time{}, err
	}
	if !ok {
		s.metrics.Login("failure")
		s.logger.Info("login rejected", zap.String("username", username))
		return "", time.Time{}, domain.ErrInvalidCredentials
	}

	now := s.now()
	sess := &session.Session{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return "", time.Time{}, fmt.Errorf("store session: %w", err)
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	s.metrics.Login("success")
	s.logger.Info("login", zap.String("username", username))
	return token, sess.ExpiresAt, nil
}

// Logout destroys the session behind token; invalid tokens are ignored
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, claims.ID)
}

// ValidateToken verifies the signature and expiry of a session token
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// Authorize resolves token to a user and checks it against requiredRoles.
// An empty requiredRoles accepts any logged in user.
func (s *AuthService) Authorize(ctx context.Context, token string, requiredRoles ...domain.Role) Authorization {
	if token == "" {
		return Authorization{Status: Unauthenticated}
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		return Authorization{Status: Unauthenticated}
	}

	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil || sess.Username != claims.Subject {
		return Authorization{Status: Unauthenticated}
	}

	user, err := s.userRepo.GetByUsername(ctx, sess.Username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error("resolve session user", zap.String("username", sess.Username), zap.Error(err))
		}
		return Authorization{Status: Unauthenticated}
	}

	if len(requiredRoles) > 0 && !user.Role.In(requiredRoles) {
		return Authorization{Status: Forbidden, User: user}
	}
	return Authorization{Status: Authorized, User: user}
}
