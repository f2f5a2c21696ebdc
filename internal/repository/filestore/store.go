// Package filestore keeps the whole scoreboard in a single JSON document.
//
// Every write is applied in memory under one mutex and then the file is
// replaced atomically, so increments from concurrent requests are
// serialized and the file is never left half written.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gincana/placar/internal/domain"
)

// Store implements repository.Store on top of a JSON file
type Store struct {
	mu     sync.RWMutex
	path   string
	doc    *document
	logger *zap.Logger
}

// Open loads the document at path, creating an empty one when the file does not exist
func Open(path string, logger *zap.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		logger: logger.Named("filestore"),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.doc = newDocument()
		if err := s.flush(); err != nil {
			return nil, err
		}
		s.logger.Info("created data file", zap.String("path", path))
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w: %w", path, domain.ErrStorageUnavailable, err)
	}

	doc := newDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	doc.normalize()
	s.doc = doc

	s.logger.Info("loaded data file",
		zap.String("path", path),
		zap.Int("users", len(doc.Users)),
		zap.Int("teams", len(doc.Teams)),
		zap.Int("events", len(doc.Events)),
		zap.Int("contributions", len(doc.Contributions)),
	)
	return s, nil
}

// Close is a no-op; every write is already on disk
func (s *Store) Close() error {
	return nil
}

// mutate runs fn against the document and persists the result.
// If fn or the write fails the in-memory document is restored.
func (s *Store) mutate(fn func(doc *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.doc.clone()
	if err := fn(s.doc); err != nil {
		s.doc = snapshot
		return err
	}
	if err := s.flush(); err != nil {
		s.doc = snapshot
		s.logger.Error("write failed, changes rolled back", zap.Error(err))
		return err
	}
	return nil
}

// flush writes the document to a temp file and renames it over the data file
func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w: %w", domain.ErrStorageUnavailable, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // fails harmlessly after the rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w: %w", domain.ErrStorageUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w: %w", domain.ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w: %w", domain.ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace data file: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Upsert creates a user or overwrites password and role of an existing one
func (s *Store) Upsert(_ context.Context, user *domain.User) error {
	return s.mutate(func(doc *document) error {
		doc.Users[user.Username] = userRecord{Password: user.Password, Role: user.Role}
		return nil
	})
}

// GetByUsername returns a user by username
func (s *Store) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.doc.Users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &domain.User{Username: username, Password: rec.Password, Role: rec.Role}, nil
}

// List returns all users ordered by username
func (s *Store) List(_ context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*domain.User, 0, len(s.doc.Users))
	for name, rec := range s.doc.Users {
		users = append(users, &domain.User{Username: name, Password: rec.Password, Role: rec.Role})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

// EnsureTeams adds missing teams with zero totals
func (s *Store) EnsureTeams(_ context.Context, names []string) error {
	s.mu.RLock()
	missing := false
	for _, name := range names {
		if _, ok := s.doc.Teams[name]; !ok {
			missing = true
			break
		}
	}
	s.mu.RUnlock()
	if !missing {
		return nil
	}

	return s.mutate(func(doc *document) error {
		for _, name := range names {
			if _, ok := doc.Teams[name]; !ok {
				doc.Teams[name] = teamRecord{Value: decimal.Zero}
			}
		}
		return nil
	})
}

// GetAll returns every team ordered by name
func (s *Store) GetAll(_ context.Context) ([]*domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	teams := make([]*domain.Team, 0, len(s.doc.Teams))
	for name, rec := range s.doc.Teams {
		teams = append(teams, &domain.Team{Name: name, Points: rec.Points, Value: rec.Value})
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

// Increment adds the deltas to a team
func (s *Store) Increment(_ context.Context, teamName string, points int64, value decimal.Decimal) (*domain.Team, error) {
	var team *domain.Team
	err := s.mutate(func(doc *document) error {
		var err error
		team, err = incrementTeam(doc, teamName, points, value)
		return err
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// RecordEvent increments the team then appends the event, persisted by one write
func (s *Store) RecordEvent(_ context.Context, event *domain.Event) (*domain.Team, error) {
	var team *domain.Team
	err := s.mutate(func(doc *document) error {
		var err error
		team, err = incrementTeam(doc, event.Team, event.Points, decimal.Zero)
		if err != nil {
			return err
		}
		doc.Events = append(doc.Events, eventRecord{
			ID:     event.ID,
			Name:   event.Name,
			Points: event.Points,
			Team:   event.Team,
			Date:   event.Date.Format(domain.DateLayout),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// RecordContribution increments the team value then appends the contribution
func (s *Store) RecordContribution(_ context.Context, c *domain.Contribution) (*domain.Team, error) {
	var team *domain.Team
	err := s.mutate(func(doc *document) error {
		var err error
		team, err = incrementTeam(doc, c.Team, 0, c.Value)
		if err != nil {
			return err
		}
		doc.Contributions = append(doc.Contributions, contributionRecord{
			ID:    c.ID,
			Date:  c.Date.Format(domain.DateLayout),
			Name:  c.Name,
			Value: c.Value,
			Team:  c.Team,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// ListEvents returns events in insertion order
func (s *Store) ListEvents(_ context.Context) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]*domain.Event, 0, len(s.doc.Events))
	for _, rec := range s.doc.Events {
		e, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// ListContributions returns contributions in insertion order
func (s *Store) ListContributions(_ context.Context) ([]*domain.Contribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contributions := make([]*domain.Contribution, 0, len(s.doc.Contributions))
	for _, rec := range s.doc.Contributions {
		c, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		contributions = append(contributions, c)
	}
	return contributions, nil
}

func incrementTeam(doc *document, teamName string, points int64, value decimal.Decimal) (*domain.Team, error) {
	rec, ok := doc.Teams[teamName]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	if points > math.MaxInt64-rec.Points {
		return nil, domain.NewValidationError("pontos", "would overflow the team total")
	}
	rec.Points += points
	rec.Value = rec.Value.Add(value)
	doc.Teams[teamName] = rec

	return &domain.Team{Name: teamName, Points: rec.Points, Value: rec.Value}, nil
}
