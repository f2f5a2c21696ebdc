package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/gincana/placar/internal/domain"
)

// ErrorResponse is the JSON body of a failed API call
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine code and a readable message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithError writes a JSON error body
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// HandleError converts domain errors into JSON responses
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	RespondWithError(w, r, statusFor(err), string(domain.MapErrorToCode(err)), messageFor(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// messageFor is the text shown to the user; internal details never leak
func messageFor(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return "Campo " + verr.Field + ": " + verr.Reason
	case errors.Is(err, domain.ErrTeamNotFound):
		return "Equipe não encontrada"
	case errors.Is(err, domain.ErrNotFound):
		return "Registro não encontrado"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return "Armazenamento indisponível, tente novamente"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Usuário ou senha inválidos"
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidToken):
		return "Sessão inválida"
	case errors.Is(err, domain.ErrForbidden):
		return "Acesso negado"
	default:
		return "Erro interno"
	}
}
