package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gincana/placar/internal/domain"
	"github.com/gincana/placar/internal/middleware"
	"github.com/gincana/placar/internal/service"
)

// LedgerHandler serves the event, points and finance pages
type LedgerHandler struct {
	ledger     *service.LedgerService
	scoreboard ScoreboardReader
	renderer   *Renderer
	logger     *zap.Logger
	now        func() time.Time
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledger *service.LedgerService, scoreboard ScoreboardReader, renderer *Renderer, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledger:     ledger,
		scoreboard: scoreboard,
		renderer:   renderer,
		logger:     logger.Named("ledger"),
		now:        time.Now,
	}
}

// Events handles GET /eventos
func (h *LedgerHandler) Events(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageEvents, nil)
}

// CreateEvent handles POST /eventos
func (h *LedgerHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	name, points, team, err := parseEventForm(r)
	if err == nil {
		_, err = h.ledger.RecordEvent(r.Context(), middleware.UserFromContext(r.Context()), name, points, team)
	}
	if err != nil {
		h.fail(w, r, pageEvents, err)
		return
	}
	redirect(w, r, "/eventos")
}

// Points handles GET /pontos
func (h *LedgerHandler) Points(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pagePoints, nil)
}

// AddPoints handles POST /pontos
func (h *LedgerHandler) AddPoints(w http.ResponseWriter, r *http.Request) {
	team, points, err := parsePointsForm(r)
	if err == nil {
		_, err = h.ledger.AddPoints(r.Context(), middleware.UserFromContext(r.Context()), team, points)
	}
	if err != nil {
		h.fail(w, r, pagePoints, err)
		return
	}
	redirect(w, r, "/pontos")
}

// Finance handles GET /financeiro
func (h *LedgerHandler) Finance(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageFinance, nil)
}

// CreateContribution handles POST /financeiro
func (h *LedgerHandler) CreateContribution(w http.ResponseWriter, r *http.Request) {
	c, err := parseContributionForm(r)
	if err == nil {
		_, err = h.ledger.RecordContribution(r.Context(), middleware.UserFromContext(r.Context()), c.date, c.name, c.value, c.team)
	}
	if err != nil {
		h.fail(w, r, pageFinance, err)
		return
	}
	redirect(w, r, "/financeiro")
}

func (h *LedgerHandler) fail(w http.ResponseWriter, r *http.Request, page string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("mutation failed", zap.String("page", page), zap.Error(err))
	}
	h.render(w, r, status, page, err)
}

// render loads what page lists and shows it, with cause as the visible error
func (h *LedgerHandler) render(w http.ResponseWriter, r *http.Request, status int, page string, cause error) {
	ctx := r.Context()
	v := &view{
		User:  middleware.UserFromContext(ctx),
		Today: domain.Today(h.now()).Format(domain.DateLayout),
	}

	board, err := h.scoreboard.Scoreboard(ctx)
	if err == nil {
		v.Board = board
		v.Teams = teamNames(board)
		switch page {
		case pageEvents:
			v.Title = "Eventos"
			v.Events, err = h.ledger.Events(ctx)
		case pageFinance:
			v.Title = "Financeiro"
			v.Contributions, err = h.ledger.Contributions(ctx)
		default:
			v.Title = "Pontos"
		}
	}
	if err != nil {
		h.logger.Error("load page", zap.String("page", page), zap.Error(err))
		if cause == nil {
			cause, status = err, statusFor(err)
		}
		if v.Board == nil {
			v.Board = &service.Scoreboard{}
		}
	}

	if cause != nil {
		v.Error = messageFor(cause)
	}
	h.renderer.Render(w, status, page, v)
}

func teamNames(board *service.Scoreboard) []string {
	names := make([]string, 0, len(board.Teams))
	for _, t := range board.Teams {
		names = append(names, t.Name)
	}
	return names
}
