package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ClaimReservation = "reservation"
	ClaimCheckIn     = "checkin"
)

var (
	claimTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "innkeep_claim_transitions_total",
		Help: "Committed claim state transitions by claim kind and transition",
	}, []string{"claim", "transition"})

	roomBindConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "innkeep_room_bind_conflicts_total",
		Help: "Room binds rejected because the room was no longer free",
	}, []string{"operation"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "innkeep_operation_duration_seconds",
		Help:    "Claim operation duration in seconds, including the transaction",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"operation"})
)

func Transition(claim, transition string) {
	claimTransitions.WithLabelValues(claim, transition).Inc()
}

func BindConflict(operation string) {
	roomBindConflicts.WithLabelValues(operation).Inc()
}

// Observe is meant to be deferred: defer metrics.Observe("checkout", time.Now()).
func Observe(operation string, start time.Time) {
	operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
