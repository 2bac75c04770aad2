// Package metrics holds the domain counters exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	JourneysLogged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journeys_logged_total",
			Help: "Journeys logged, by transport mode",
		},
		[]string{"mode"},
	)
	AchievementsUnlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievements_unlocked_total",
			Help: "Achievements awarded, by key",
		},
		[]string{"key"},
	)
	BattlesCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "battles_completed_total",
			Help: "Battles that reached completion, by outcome",
		},
		[]string{"outcome"},
	)
	BattleRefreshFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "battle_refresh_failures_total",
			Help: "Battle score refreshes that failed and were left for the next trigger",
		},
	)
)

// Register adds the domain collectors to reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(JourneysLogged, AchievementsUnlocked, BattlesCompleted, BattleRefreshFailures)
}
