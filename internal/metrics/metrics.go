// Package metrics exposes Prometheus counters for scoreboard activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application's collectors. A nil *Metrics records nothing.
type Metrics struct {
	eventsRecorded        *prometheus.CounterVec
	pointsAwarded         *prometheus.CounterVec
	contributionsRecorded *prometheus.CounterVec
	moneyRaised           *prometheus.CounterVec
	logins                *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		eventsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gincana",
			Name:      "events_recorded_total",
			Help:      "Events recorded per team.",
		}, []string{"team"}),
		pointsAwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gincana",
			Name:      "points_awarded_total",
			Help:      "Points added to each team.",
		}, []string{"team"}),
		contributionsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gincana",
			Name:      "contributions_recorded_total",
			Help:      "Contributions recorded per team.",
		}, []string{"team"}),
		moneyRaised: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gincana",
			Name:      "money_raised_total",
			Help:      "Money added to each team.",
		}, []string{"team"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gincana",
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.eventsRecorded, m.pointsAwarded, m.contributionsRecorded, m.moneyRaised, m.logins)
	return m
}

// EventRecorded counts an event and its points
func (m *Metrics) EventRecorded(team string, points int64) {
	if m == nil {
		return
	}
	m.eventsRecorded.WithLabelValues(team).Inc()
	m.pointsAwarded.WithLabelValues(team).Add(float64(points))
}

// PointsAdded counts a direct points increment
func (m *Metrics) PointsAdded(team string, points int64) {
	if m == nil {
		return
	}
	m.pointsAwarded.WithLabelValues(team).Add(float64(points))
}

// ContributionRecorded counts a contribution and its value
func (m *Metrics) ContributionRecorded(team string, value float64) {
	if m == nil {
		return
	}
	m.contributionsRecorded.WithLabelValues(team).Inc()
	m.moneyRaised.WithLabelValues(team).Add(value)
}

// Login counts a login attempt; result is "success" or "failure"
func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}
