package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dbsmedya/objectgraph/internal/types"
)

var (
	// requestsTotal counts API requests.
	// Labels: route (chi pattern), status (HTTP code)
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "objectgraph",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total API requests by route and status",
	}, []string{"route", "status"})

	// requestDuration measures API latency.
	// Labels: route
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "objectgraph",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "API request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	// discoveryNodes tracks the size of returned result graphs.
	// Labels: strategy (bfs, dfs)
	discoveryNodes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "objectgraph",
		Subsystem: "discovery",
		Name:      "nodes",
		Help:      "Nodes per discovery result",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
	}, []string{"strategy"})

	// discoveryLookups tracks store lookups issued per discovery.
	// Labels: strategy
	discoveryLookups = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "objectgraph",
		Subsystem: "discovery",
		Name:      "lookups",
		Help:      "Store lookups per discovery run",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{"strategy"})

	// discoveryOutcomes counts discovery runs by result.
	// Labels: strategy, outcome (complete, limit_reached, seed_not_found, backend_unavailable, error)
	discoveryOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "objectgraph",
		Subsystem: "discovery",
		Name:      "runs_total",
		Help:      "Discovery runs by outcome",
	}, []string{"strategy", "outcome"})

	// danglingRefs counts references to records that do not exist.
	danglingRefs = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "objectgraph",
		Subsystem: "discovery",
		Name:      "dangling_refs_total",
		Help:      "References to missing records skipped during discovery",
	})
)

func recordRequest(route string, status int, duration time.Duration) {
	requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func recordDiscovery(strategy string, rg *types.ResultGraph) {
	outcome := "complete"
	if rg.Stats.LimitReached {
		outcome = "limit_reached"
	}
	discoveryOutcomes.WithLabelValues(strategy, outcome).Inc()
	discoveryNodes.WithLabelValues(strategy).Observe(float64(rg.Stats.NodesFound))
	discoveryLookups.WithLabelValues(strategy).Observe(float64(rg.Stats.Lookups))
	danglingRefs.Add(float64(rg.Stats.DanglingRefs))
}

func recordDiscoveryFailure(strategy, outcome string) {
	discoveryOutcomes.WithLabelValues(strategy, outcome).Inc()
}
