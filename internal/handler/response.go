package handler

import (
	"net/http"

	"github.com/go-chi/render"
)

// RespondWithJSON writes data as JSON with statusCode
func RespondWithJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	render.Status(r, statusCode)
	render.JSON(w, r, data)
}

// redirect answers a successful form post (post/redirect/get)
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
