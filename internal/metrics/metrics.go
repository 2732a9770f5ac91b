package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gtm_cache_lookups_total",
		Help: "Context cache lookups by result (hit, miss).",
	}, []string{"result"})

	ContextFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gtm_context_fallbacks_total",
		Help: "Context lookups served from the bundled dataset, by entity kind.",
	}, []string{"kind"})

	TenantResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gtm_tenant_resolutions_total",
		Help: "Tenant slug resolutions by outcome (found, absent, invalid).",
	}, []string{"outcome"})

	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gtm_generations_total",
		Help: "Generation provider calls by task and status.",
	}, []string{"task", "status"})

	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gtm_generation_duration_seconds",
		Help:    "Time spent waiting on the generation provider.",
		Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
	}, []string{"task"})

	LeadTiersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gtm_lead_tiers_total",
		Help: "Scored leads by tier reported in the generated output.",
	}, []string{"tier"})
)
