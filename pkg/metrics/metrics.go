package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPRequests counts requests by method, route and status code.
var HTTPRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "printing_platform_http_requests_total",
		Help: "Total number of HTTP requests handled",
	},
	[]string{"method", "route", "status"},
)

// HTTPDuration records request latency distribution per route.
var HTTPDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "printing_platform_http_request_duration_seconds",
		Help:    "Latency in seconds of handled HTTP requests",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// OrdersCreated counts orders accepted through the public API by source.
var OrdersCreated = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "printing_platform_orders_created_total",
		Help: "Total number of orders created",
	},
	[]string{"source"},
)

// FilesUploaded counts successful uploads by storage backend.
var FilesUploaded = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "printing_platform_files_uploaded_total",
		Help: "Total number of files uploaded to object storage",
	},
	[]string{"backend"},
)

// Cache hit/miss counters for the read-through cache.
var (
	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "printing_platform_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "printing_platform_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)
)

// Database connection pool metrics
var (
	DBOpenConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "printing_platform_db_open_connections",
			Help: "Number of open connections in the DB pool",
		},
		[]string{"db"},
	)

	DBIdleConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "printing_platform_db_idle_connections",
			Help: "Number of idle connections in the DB pool",
		},
		[]string{"db"},
	)

	DBInUseConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "printing_platform_db_in_use_connections",
			Help: "Number of in-use connections in the DB pool",
		},
		[]string{"db"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration)
	prometheus.MustRegister(OrdersCreated, FilesUploaded)
	prometheus.MustRegister(CacheHits, CacheMisses)
	prometheus.MustRegister(DBOpenConns, DBIdleConns, DBInUseConns)
}
