package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/gincana/placar/internal/domain"
	"github.com/gincana/placar/internal/repository"
)

// TeamStanding is a team's totals together with its progress toward the goal
type TeamStanding struct {
	Name     string          `json:"name"`
	Points   int64           `json:"points"`
	Value    decimal.Decimal `json:"value"`
	Progress decimal.Decimal `json:"progress"`
}

// Scoreboard is the read model shown on the dashboard and the big screen
type Scoreboard struct {
	Goal  decimal.Decimal `json:"goal"`
	Teams []TeamStanding  `json:"teams"`
}

// Leader returns the team with the most points, or nil on a tie or empty board
func (b *Scoreboard) Leader() *TeamStanding {
	var leader *TeamStanding
	tie := false
	for i := range b.Teams {
		t := &b.Teams[i]
		switch {
		case leader == nil || t.Points > leader.Points:
			leader, tie = t, false
		case t.Points == leader.Points:
			tie = true
		}
	}
	if tie {
		return nil
	}
	return leader
}

// ScoreboardService builds the scoreboard read model
type ScoreboardService struct {
	teamRepo repository.TeamRepository
	goal     decimal.Decimal
}

// NewScoreboardService creates a new ScoreboardService
func NewScoreboardService(teamRepo repository.TeamRepository, goal decimal.Decimal) *ScoreboardService {
	return &ScoreboardService{
		teamRepo: teamRepo,
		goal:     goal,
	}
}

// Teams returns the raw ledger
func (s *ScoreboardService) Teams(ctx context.Context) ([]*domain.Team, error) {
	return s.teamRepo.GetAll(ctx)
}

// Scoreboard returns every team with its progress toward the goal
func (s *ScoreboardService) Scoreboard(ctx context.Context) (*Scoreboard, error) {
	teams, err := s.teamRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	board := &Scoreboard{
		Goal:  s.goal,
		Teams: make([]TeamStanding, 0, len(teams)),
	}
	for _, t := range teams {
		board.Teams = append(board.Teams, TeamStanding{
			Name:     t.Name,
			Points:   t.Points,
			Value:    t.Value,
			Progress: domain.ProgressPercent(t.Value, s.goal),
		})
	}
	return board, nil
}
