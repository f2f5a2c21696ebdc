package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gincana/placar/internal/domain"
	"github.com/gincana/placar/internal/middleware"
)

// Authenticator opens and closes sessions
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler serves the login form and logout
type AuthHandler struct {
	auth         Authenticator
	renderer     *Renderer
	secureCookie bool
	logger       *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth Authenticator, renderer *Renderer, secureCookie bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		renderer:     renderer,
		secureCookie: secureCookie,
		logger:       logger.Named("auth"),
	}
}

// LoginForm handles GET /
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, pageLogin, &view{Title: "Entrar"})
}

// Login handles POST /
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form, err := parseLoginForm(r)
	if err != nil {
		h.renderer.Render(w, http.StatusBadRequest, pageLogin, &view{Title: "Entrar", Error: "Informe usuário e senha"})
		return
	}

	token, expires, err := h.auth.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			h.logger.Error("login", zap.String("username", form.Username), zap.Error(err))
		}
		h.renderer.Render(w, statusFor(err), pageLogin, &view{Title: "Entrar", Error: messageFor(err)})
		return
	}

	middleware.WriteSession(w, token, expires, h.secureCookie)
	redirect(w, r, middleware.DashboardPath)
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := middleware.ReadSession(r); ok {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			h.logger.Warn("logout", zap.Error(err))
		}
	}
	middleware.ClearSession(w, h.secureCookie)
	http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
}
