package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used in forms and storage
const DateLayout = "2006-01-02"

// MaxPointsPerEntry bounds the points a single event or direct increment may add
const MaxPointsPerEntry int64 = 1_000_000

// Event is an immutable record awarding points to a team
type Event struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Points int64     `json:"points"`
	Team   string    `json:"team"`
	Date   time.Time `json:"date"`
}

// Contribution is an immutable record of money raised for a team
type Contribution struct {
	ID    string          `json:"id"`
	Date  time.Time       `json:"date"`
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Team  string          `json:"team"`
}

// Today truncates t to a calendar date in UTC
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
