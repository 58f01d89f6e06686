package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// счётчики жизненного цикла сессий, по типам игр
var (
	SessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arcade_sessions_started_total",
		Help: "Started game sessions",
	}, []string{"game"})

	SessionsFinalized = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arcade_sessions_finalized_total",
		Help: "Successfully finalized game sessions",
	}, []string{"game"})

	DuplicateFinalizes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arcade_duplicate_finalizes_total",
		Help: "Finalize calls that lost the finalize-once race",
	}, []string{"game"})

	CheatRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arcade_cheat_rejections_total",
		Help: "Claims rejected by bound checks",
	}, []string{"game"})

	RateLimitDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arcade_rate_limit_drops_total",
		Help: "Requests dropped by the rate limiter",
	})
)
