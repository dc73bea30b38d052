package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// recordMutationsTotal counts lifecycle operations by kind and operation
	// Labels: kind "citation" | "act", op "create" | "update" | "approve" | "delete"
	recordMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solve_litigation_record_mutations_total",
		Help: "Legal record lifecycle operations by kind and operation",
	}, []string{"kind", "op"})

	// citationNumberRetries counts persist attempts that hit a unique-constraint conflict
	citationNumberRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solve_litigation_citation_number_retries_total",
		Help: "Citation number allocations retried after a uniqueness conflict",
	})

	// citationNumberSkips counts counter values skipped because the code already existed
	citationNumberSkips = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solve_litigation_citation_number_skips_total",
		Help: "Citation sequence values skipped because the code was already taken",
	})

	statisticsCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solve_litigation_statistics_cache_lookups_total",
		Help: "Statistics cache lookups by result",
	}, []string{"result"})

	securityAlertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solve_litigation_security_alerts_total",
		Help: "Security alerts raised for repeated failed logins",
	})

	emailsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solve_litigation_emails_total",
		Help: "Outgoing emails by result",
	}, []string{"result"})
)
