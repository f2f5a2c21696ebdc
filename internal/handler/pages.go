package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gincana/placar/internal/domain"
	"github.com/gincana/placar/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page templates
const (
	pageLogin     = "login.html"
	pageDashboard = "dashboard.html"
	pageEvents    = "eventos.html"
	pagePoints    = "pontos.html"
	pageFinance   = "financeiro.html"
	pageUsers     = "usuarios.html"
	pageScreen    = "telao.html"
)

var roleLabels = map[domain.Role]string{
	domain.RoleAdministrator: "Administrador",
	domain.RoleLeader:        "Líder",
	domain.RoleMember:        "Membro",
}

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"percent": func(d decimal.Decimal) string {
		return d.StringFixed(1)
	},
	"date": func(t time.Time) string { return t.Format("02/01/2006") },
	"roleLabel": func(r domain.Role) string {
		if label, ok := roleLabels[r]; ok {
			return label
		}
		return string(r)
	},
	"canManage": func(u *domain.User) bool { return u != nil && u.CanManage() },
}

// view is the data every page template receives
type view struct {
	Title         string
	User          *domain.User
	Error         string
	Teams         []string
	Board         *service.Scoreboard
	Leader        *service.TeamStanding
	Events        []*domain.Event
	Contributions []*domain.Contribution
	Users         []*domain.User
	Roles         []domain.Role
	Today         string
	Refresh       int
}

// Renderer executes the embedded page templates
type Renderer struct {
	pages  map[string]*template.Template
	logger *zap.Logger
}

// NewRenderer parses every page together with the shared layout
func NewRenderer(logger *zap.Logger) (*Renderer, error) {
	pages := []string{pageLogin, pageDashboard, pageEvents, pagePoints, pageFinance, pageUsers, pageScreen}

	r := &Renderer{
		pages:  make(map[string]*template.Template, len(pages)),
		logger: logger.Named("render"),
	}
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Render writes page with status; a template failure becomes a plain 500
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data *view) {
	tmpl, ok := r.pages[page]
	if !ok {
		r.logger.Error("unknown page", zap.String("page", page))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logger.Error("render page", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Debug("write page", zap.String("page", page), zap.Error(err))
	}
}
