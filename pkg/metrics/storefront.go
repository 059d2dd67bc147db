package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Operation outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Storefront records cart, checkout, catalog cache and HTTP metrics.
type Storefront struct {
	cartMutations    *prometheus.CounterVec
	checkouts        *prometheus.CounterVec
	checkoutDuration *prometheus.HistogramVec
	catalogCache     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// NewStorefront registers the storefront metrics on the provided registerer.
// A nil registerer yields a recorder whose methods are no-ops.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Cart mutations by action and outcome.",
	}, []string{"action", "outcome"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Checkout attempts by provider and outcome.",
	}, []string{"provider", "outcome"})
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "checkout_duration_seconds",
		Help:      "Duration of checkout hand-offs in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider"})
	catalogCache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_cache_lookups_total",
		Help:      "Catalog cache lookups by resource and result.",
	}, []string{"resource", "result"})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method, route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	reg.MustRegister(cartMutations, checkouts, checkoutDuration, catalogCache, httpDuration)
	return &Storefront{
		cartMutations:    cartMutations,
		checkouts:        checkouts,
		checkoutDuration: checkoutDuration,
		catalogCache:     catalogCache,
		httpDuration:     httpDuration,
	}
}

// CartMutation counts one cart mutation.
func (m *Storefront) CartMutation(action string, err error) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(action), outcome(err)).Inc()
}

// Checkout counts one checkout attempt and observes its duration.
func (m *Storefront) Checkout(provider string, duration time.Duration, err error) {
	if m == nil || m.checkouts == nil {
		return
	}
	provider = normalizeLabel(provider)
	m.checkouts.WithLabelValues(provider, outcome(err)).Inc()
	m.checkoutDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// CatalogCache counts a cache lookup for resource.
func (m *Storefront) CatalogCache(resource, result string) {
	if m == nil || m.catalogCache == nil {
		return
	}
	m.catalogCache.WithLabelValues(normalizeLabel(resource), normalizeLabel(result)).Inc()
}

// ObserveHTTP records a completed HTTP request. route should be the router pattern, not the raw path.
func (m *Storefront) ObserveHTTP(method, route, status string, duration time.Duration) {
	if m == nil || m.httpDuration == nil {
		return
	}
	m.httpDuration.WithLabelValues(normalizeLabel(method), normalizeLabel(route), normalizeLabel(status)).Observe(duration.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
