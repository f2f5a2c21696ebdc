package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/gincana/placar/internal/middleware"
	"github.com/gincana/placar/internal/service"
)

// ScreenRefreshSeconds is how often the big screen reloads itself
const ScreenRefreshSeconds = 10

// ScoreboardReader is the read side used by the display pages
type ScoreboardReader interface {
	Scoreboard(ctx context.Context) (*service.Scoreboard, error)
}

// BoardHandler serves the dashboard, the big screen and the JSON scoreboard
type BoardHandler struct {
	scoreboard ScoreboardReader
	renderer   *Renderer
	logger     *zap.Logger
}

// NewBoardHandler creates a new BoardHandler
func NewBoardHandler(scoreboard ScoreboardReader, renderer *Renderer, logger *zap.Logger) *BoardHandler {
	return &BoardHandler{
		scoreboard: scoreboard,
		renderer:   renderer,
		logger:     logger.Named("board"),
	}
}

// Dashboard handles GET /dashboard
func (h *BoardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	v := &view{Title: "Placar", User: middleware.UserFromContext(r.Context())}
	h.renderBoard(w, r, pageDashboard, v)
}

// Screen handles GET /telao
func (h *BoardHandler) Screen(w http.ResponseWriter, r *http.Request) {
	v := &view{Title: "Telão", Refresh: ScreenRefreshSeconds}
	h.renderBoard(w, r, pageScreen, v)
}

func (h *BoardHandler) renderBoard(w http.ResponseWriter, r *http.Request, page string, v *view) {
	board, err := h.scoreboard.Scoreboard(r.Context())
	if err != nil {
		h.logger.Error("load scoreboard", zap.Error(err))
		v.Error = messageFor(err)
		v.Board = &service.Scoreboard{}
		h.renderer.Render(w, statusFor(err), page, v)
		return
	}
	v.Board = board
	v.Leader = board.Leader()
	h.renderer.Render(w, http.StatusOK, page, v)
}

// Placar handles GET /api/placar
func (h *BoardHandler) Placar(w http.ResponseWriter, r *http.Request) {
	board, err := h.scoreboard.Scoreboard(r.Context())
	if err != nil {
		h.logger.Error("load scoreboard", zap.Error(err))
		HandleError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, board)
}
