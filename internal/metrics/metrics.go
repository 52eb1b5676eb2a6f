// internal/metrics/metrics.go
//
// Prometheus collectors for solved and failed games.
// Collectors register on the default registry at init.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/robalobadob/mastermind/internal/solver"
)

var (
	gamesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mastermind_games_total",
		Help: "Finished games by feedback rule and outcome.",
	}, []string{"rule", "outcome"})

	gameRounds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mastermind_rounds",
		Help:    "Rounds needed to finish a game.",
		Buckets: prometheus.LinearBuckets(1, 1, 12),
	}, []string{"rule"})

	candidatesRemaining = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mastermind_candidates_remaining",
		Help:    "Candidates left after each elimination.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
)

// Outcome label values.
const (
	OutcomeSolved = "solved"
	OutcomeFailed = "failed"
)

// ObserveGame records a finished game.
func ObserveGame(rule string, solved bool, rounds int) {
	outcome := OutcomeFailed
	if solved {
		outcome = OutcomeSolved
	}
	gamesTotal.WithLabelValues(rule, outcome).Inc()
	gameRounds.WithLabelValues(rule).Observe(float64(rounds))
}

// ObserveRound is a solver.WithRoundHook callback.
func ObserveRound(r solver.Round) {
	candidatesRemaining.Observe(float64(r.Remaining))
}

// RoundHook wires ObserveRound into a solver.
func RoundHook() solver.Option { return solver.WithRoundHook(ObserveRound) }
