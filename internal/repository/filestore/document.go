package filestore

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gincana/placar/internal/domain"
)

// document is the on-disk layout of the data file
type document struct {
	Users         map[string]userRecord `json:"users"`
	Teams         map[string]teamRecord `json:"teams"`
	Events        []eventRecord         `json:"events"`
	Contributions []contributionRecord  `json:"contributions"`
}

type userRecord struct {
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

type teamRecord struct {
	Points int64           `json:"points"`
	Value  decimal.Decimal `json:"value"`
}

type eventRecord struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int64  `json:"points"`
	Team   string `json:"team"`
	Date   string `json:"date"`
}

type contributionRecord struct {
	ID    string          `json:"id"`
	Date  string          `json:"date"`
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Team  string          `json:"team"`
}

func newDocument() *document {
	return &document{
		Users:         map[string]userRecord{},
		Teams:         map[string]teamRecord{},
		Events:        []eventRecord{},
		Contributions: []contributionRecord{},
	}
}

// normalize fills sections missing from a hand-edited file
func (d *document) normalize() {
	if d.Users == nil {
		d.Users = map[string]userRecord{}
	}
	if d.Teams == nil {
		d.Teams = map[string]teamRecord{}
	}
	if d.Events == nil {
		d.Events = []eventRecord{}
	}
	if d.Contributions == nil {
		d.Contributions = []contributionRecord{}
	}
}

// clone copies the document so a failed write can be rolled back
func (d *document) clone() *document {
	c := &document{
		Users:         make(map[string]userRecord, len(d.Users)),
		Teams:         make(map[string]teamRecord, len(d.Teams)),
		Events:        make([]eventRecord, len(d.Events)),
		Contributions: make([]contributionRecord, len(d.Contributions)),
	}
	copy(c.Events, d.Events)
	copy(c.Contributions, d.Contributions)
	for k, v := range d.Users {
		c.Users[k] = v
	}
	for k, v := range d.Teams {
		c.Teams[k] = v
	}
	return c
}

func (r eventRecord) toDomain() (*domain.Event, error) {
	date, err := time.Parse(domain.DateLayout, r.Date)
	if err != nil {
		return nil, fmt.Errorf("event %s: bad date %q: %w", r.ID, r.Date, err)
	}
	return &domain.Event{ID: r.ID, Name: r.Name, Points: r.Points, Team: r.Team, Date: date}, nil
}

func (r contributionRecord) toDomain() (*domain.Contribution, error) {
	date, err := time.Parse(domain.DateLayout, r.Date)
	if err != nil {
		return nil, fmt.Errorf("contribution %s: bad date %q: %w", r.ID, r.Date, err)
	}
	return &domain.Contribution{ID: r.ID, Date: date, Name: r.Name, Value: r.Value, Team: r.Team}, nil
}
