package metrics

import "github.com/prometheus/client_golang/prometheus"

// Listing Prometheus metrics.
var (
	ListingQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nearby",
			Name:      "listing_queries_total",
			Help:      "Total number of listing queries",
		},
		[]string{"sort", "located"}, // sort: "distance" / "none"; located: "true" / "false"
	)

	ListingResultSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nearby",
			Name:      "listing_result_size",
			Help:      "Number of services returned per listing query",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	CatalogLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nearby",
			Name:      "catalog_load_errors_total",
			Help:      "Total failed catalog reads",
		},
	)

	InvalidParamsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nearby",
			Name:      "invalid_query_params_total",
			Help:      "Query parameters ignored because they could not be parsed",
		},
		[]string{"param"},
	)

	ViewIncrementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nearby",
			Name:      "view_increments_total",
			Help:      "View increment requests by outcome",
		},
		[]string{"result"}, // "counted" / "duplicate" / "error"
	)

	LocationLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nearby",
			Name:      "location_lookups_total",
			Help:      "User location lookups by outcome",
		},
		[]string{"result"}, // "ok" / "unavailable" / "timeout"
	)
)

var listingMetricsRegistered bool

// RegisterListingMetrics registers Prometheus listing metrics. Must be called once from main.
func RegisterListingMetrics() {
	if listingMetricsRegistered {
		return
	}
	prometheus.MustRegister(ListingQueriesTotal)
	prometheus.MustRegister(ListingResultSize)
	prometheus.MustRegister(CatalogLoadErrorsTotal)
	prometheus.MustRegister(InvalidParamsTotal)
	prometheus.MustRegister(ViewIncrementsTotal)
	prometheus.MustRegister(LocationLookupsTotal)
	listingMetricsRegistered = true
}
