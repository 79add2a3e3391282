package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GroupBuyingMetrics records join, finalization, and bulk tier activity.
type GroupBuyingMetrics struct {
	joins            *prometheus.CounterVec
	finalizations    *prometheus.CounterVec
	finalizeDuration *prometheus.HistogramVec
	bulkApply        *prometheus.CounterVec
}

// NewGroupBuyingMetrics registers the group buying metrics on the provided registerer.
func NewGroupBuyingMetrics(reg prometheus.Registerer) *GroupBuyingMetrics {
	if reg == nil {
		return &GroupBuyingMetrics{}
	}
	joins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "group_joins_total",
		Help: "Group join attempts by entry path and outcome.",
	}, []string{"via", "outcome"})
	finalizations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "group_finalizations_total",
		Help: "Group finalization attempts by outcome.",
	}, []string{"outcome"})
	finalizeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "group_finalize_duration_seconds",
		Help:    "Duration of group finalization transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	bulkApply := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bulk_tier_products_total",
		Help: "Per-product outcomes of bulk tier configuration runs.",
	}, []string{"outcome"})
	reg.MustRegister(joins, finalizations, finalizeDuration, bulkApply)
	return &GroupBuyingMetrics{
		joins:            joins,
		finalizations:    finalizations,
		finalizeDuration: finalizeDuration,
		bulkApply:        bulkApply,
	}
}

// IncJoin increments the join counter for the given entry path and outcome.
func (g *GroupBuyingMetrics) IncJoin(via, outcome string) {
	if g == nil || g.joins == nil {
		return
	}
	g.joins.WithLabelValues(normalizeLabel(via), normalizeLabel(outcome)).Inc()
}

// IncFinalization increments the finalization counter for the given outcome.
func (g *GroupBuyingMetrics) IncFinalization(outcome string) {
	if g == nil || g.finalizations == nil {
		return
	}
	g.finalizations.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveFinalizeDuration records how long a finalization transaction took.
func (g *GroupBuyingMetrics) ObserveFinalizeDuration(outcome string, duration time.Duration) {
	if g == nil || g.finalizeDuration == nil {
		return
	}
	g.finalizeDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncBulkApply increments the per-product bulk apply counter for the given outcome.
func (g *GroupBuyingMetrics) IncBulkApply(outcome string) {
	if g == nil || g.bulkApply == nil {
		return
	}
	g.bulkApply.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
