package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/gincana/placar/internal/domain"
	"github.com/gincana/placar/internal/middleware"
	"github.com/gincana/placar/internal/service"
)

// UserHandler serves the account management page
type UserHandler struct {
	users    *service.UserService
	renderer *Renderer
	logger   *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *service.UserService, renderer *Renderer, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:    users,
		renderer: renderer,
		logger:   logger.Named("users"),
	}
}

// Users handles GET /usuarios
func (h *UserHandler) Users(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, nil)
}

// CreateUser handles POST /usuarios
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	form, err := parseUserForm(r)
	if err == nil {
		_, err = h.users.CreateOrReplaceUser(r.Context(), form.Username, form.Password, domain.Role(form.Role))
	}
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("create user", zap.Error(err))
		}
		h.render(w, r, status, err)
		return
	}
	redirect(w, r, "/usuarios")
}

func (h *UserHandler) render(w http.ResponseWriter, r *http.Request, status int, cause error) {
	v := &view{
		Title: "Usuários",
		User:  middleware.UserFromContext(r.Context()),
		Roles: domain.Roles,
	}

	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users", zap.Error(err))
		if cause == nil {
			cause, status = err, statusFor(err)
		}
	}
	v.Users = users

	if cause != nil {
		v.Error = messageFor(cause)
	}
	h.renderer.Render(w, status, pageUsers, v)
}
