package domain

import "github.com/shopspring/decimal"

// DefaultTeams is the team set used when none is configured
var DefaultTeams = []string{"Boys", "Girls"}

// Team holds the cumulative totals of one competing team
type Team struct {
	Name   string          `json:"name"`
	Points int64           `json:"points"`
	Value  decimal.Decimal `json:"value"`
}
