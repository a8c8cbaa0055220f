// Package metrics holds Prometheus instruments that are used across the
// registration service.  All collectors are registered with the global
// registry, so importing this package in main.go is enough to expose them on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	StateTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_state_transitions_total",
			Help: "Submission state transitions, labelled by the state entered.",
		}, []string{"to"})

	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_submissions_total",
			Help: "Completed submissions, labelled by outcome (succeeded, failed, stale).",
		}, []string{"outcome"})

	ValidationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_validation_failures_total",
			Help: "Field validation failures, labelled by field.",
		}, []string{"field"})

	AcceptDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "registration_accept_duration_seconds",
			Help:    "Time spent in the submission backend.",
			Buckets: prometheus.DefBuckets,
		})

	Subscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "registration_state_subscribers",
			Help: "Number of active state subscribers (open event streams).",
		})
)

func init() {
	prometheus.MustRegister(
		StateTransitionsTotal,
		SubmissionsTotal,
		ValidationFailuresTotal,
		AcceptDuration,
		Subscribers,
	)
}
