package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gincana/placar/internal/domain"
	"github.com/gincana/placar/internal/metrics"
	"github.com/gincana/placar/internal/repository"
)

// LedgerService records events and contributions against the team ledger
type LedgerService struct {
	teamRepo   repository.TeamRepository
	ledgerRepo repository.LedgerRepository
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	teamRepo repository.TeamRepository,
	ledgerRepo repository.LedgerRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		teamRepo:   teamRepo,
		ledgerRepo: ledgerRepo,
		metrics:    m,
		logger:     logger.Named("ledger"),
		now:        time.Now,
	}
}

// RecordEvent logs a points-awarding event dated today and adds its points to the team
func (s *LedgerService) RecordEvent(ctx context.Context, actor *domain.User, name string, points int64, teamName string) (*domain.Event, error) {
	if err := checkManager(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	if err := checkPoints(points); err != nil {
		return nil, err
	}

	event := &domain.Event{
		ID:     uuid.NewString(),
		Name:   name,
		Points: points,
		Team:   teamName,
		Date:   domain.Today(s.now()),
	}

	team, err := s.ledgerRepo.RecordEvent(ctx, event)
	if err != nil {
		return nil, err
	}

	s.metrics.EventRecorded(team.Name, points)
	s.logger.Info("event recorded",
		zap.String("by", actor.Username),
		zap.String("event", name),
		zap.String("team", team.Name),
		zap.Int64("points", points),
		zap.Int64("team_points", team.Points),
	)
	return event, nil
}

// RecordContribution logs a contribution and adds its value to the team
func (s *LedgerService) RecordContribution(
	ctx context.Context,
	actor *domain.User,
	date time.Time,
	name string,
	value decimal.Decimal,
	teamName string,
) (*domain.Contribution, error) {
	if err := checkManager(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	if value.IsNegative() {
		return nil, domain.NewValidationError("value", "must not be negative")
	}
	if date.IsZero() {
		return nil, domain.NewValidationError("date", "is required")
	}

	c := &domain.Contribution{
		ID:    uuid.NewString(),
		Date:  domain.Today(date),
		Name:  name,
		Value: value,
		Team:  teamName,
	}

	team, err := s.ledgerRepo.RecordContribution(ctx, c)
	if err != nil {
		return nil, err
	}

	s.metrics.ContributionRecorded(team.Name, value.InexactFloat64())
	s.logger.Info("contribution recorded",
		zap.String("by", actor.Username),
		zap.String("name", name),
		zap.String("team", team.Name),
		zap.String("value", value.String()),
		zap.String("team_value", team.Value.String()),
	)
	return c, nil
}

// AddPoints increments a team's points without logging an event
func (s *LedgerService) AddPoints(ctx context.Context, actor *domain.User, teamName string, points int64) (*domain.Team, error) {
	if err := checkManager(actor); err != nil {
		return nil, err
	}
	if err := checkPoints(points); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.Increment(ctx, teamName, points, decimal.Zero)
	if err != nil {
		return nil, err
	}

	s.metrics.PointsAdded(team.Name, points)
	s.logger.Info("points added",
		zap.String("by", actor.Username),
		zap.String("team", team.Name),
		zap.Int64("points", points),
		zap.Int64("team_points", team.Points),
	)
	return team, nil
}

// Events returns every recorded event
func (s *LedgerService) Events(ctx context.Context) ([]*domain.Event, error) {
	return s.ledgerRepo.ListEvents(ctx)
}

// Contributions returns every recorded contribution
func (s *LedgerService) Contributions(ctx context.Context) ([]*domain.Contribution, error) {
	return s.ledgerRepo.ListContributions(ctx)
}

func checkPoints(points int64) error {
	if points < 0 {
		return domain.NewValidationError("points", "must not be negative")
	}
	if points > domain.MaxPointsPerEntry {
		return domain.NewValidationError("points", fmt.Sprintf("must not exceed %d", domain.MaxPointsPerEntry))
	}
	return nil
}

func checkManager(actor *domain.User) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if !actor.CanManage() {
		return domain.ErrForbidden
	}
	return nil
}
