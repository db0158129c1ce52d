package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CyclesRun = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchmaker_cycles_total",
		Help: "Matchmaking cycles that drained the queue and ran pairing",
	})

	CyclesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchmaker_cycles_skipped_total",
		Help: "Timer ticks skipped because a cycle was in flight or too few players were queued",
	})

	PairsMatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchmaker_pairs_matched_total",
		Help: "Pairs produced by the pairing engine",
	})

	PlayersDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchmaker_players_dropped_total",
		Help: "Drained players dropped for missing or ineligible profiles",
	})

	SessionCallFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchmaker_session_call_failures_total",
		Help: "Failed calls to the external session lifecycle API",
	})

	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matchmaker_cycle_duration_seconds",
		Help:    "Wall time of one full matchmaking cycle",
		Buckets: prometheus.DefBuckets,
	})
)
