package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for ApplicationsTotal.
const (
	ApplyAccepted  = "accepted"
	ApplyDuplicate = "duplicate"
	ApplyRejected  = "rejected"
)

var (
	// ApplicationsTotal counts apply attempts by outcome.
	ApplicationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "applications_total",
			Help:      "Apply attempts, by outcome.",
		},
		[]string{"outcome"},
	)

	UploadsInfectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "board",
		Name:      "uploads_infected_total",
		Help:      "Uploads refused by the malware scanner.",
	})

	JobsPostedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "board",
		Name:      "jobs_posted_total",
		Help:      "Jobs created.",
	})

	JobsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "board",
		Name:      "jobs_deleted_total",
		Help:      "Jobs deleted.",
	})

	// AccessDeniedTotal counts refused actions by action name.
	AccessDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "access_denied_total",
			Help:      "Actions refused by the access rules.",
		},
		[]string{"action"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts, by outcome.",
		},
		[]string{"outcome"},
	)
)
