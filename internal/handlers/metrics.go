package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threatwatch_submissions_accepted_total",
		Help: "Accepted record submissions by kind.",
	}, []string{"kind"})

	submissionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threatwatch_submissions_rejected_total",
		Help: "Rejected record submissions by kind.",
	}, []string{"kind"})

	alertsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "threatwatch_alerts_ingested_total",
		Help: "Alerts stored, by severity.",
	}, []string{"severity"})
)
