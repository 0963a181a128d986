package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CartChangesTotal counts cart mutations by operation (set, remove) and result.
	CartChangesTotal *prometheus.CounterVec
	// ShoppingResultsTotal counts shopping-results computations by result.
	ShoppingResultsTotal *prometheus.CounterVec
	// ShoppingResultStores records how many stores a successful computation returned.
	ShoppingResultStores prometheus.Histogram
	// CatalogCacheTotal counts catalog cache lookups by cache and result (hit, miss).
	CatalogCacheTotal *prometheus.CounterVec
	// ImagesFetchTotal counts product image fetches by result (downloaded, skipped, failed).
	ImagesFetchTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartChangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_changes_total",
			Help:      "Count of cart changes by operation and outcome.",
		}, []string{"op", "result"})
		ShoppingResultsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shopping_results_total",
			Help:      "Count of shopping results computations by outcome.",
		}, []string{"result"})
		ShoppingResultStores = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "shopping_result_stores",
			Help:      "Number of stores returned per shopping results computation.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		})
		CatalogCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_cache_total",
			Help:      "Catalog cache lookups by cache and result.",
		}, []string{"cache", "result"})
		ImagesFetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_fetch_total",
			Help:      "Product image fetches by outcome.",
		}, []string{"result"})

		CartChangesTotal = register(reg, CartChangesTotal)
		ShoppingResultsTotal = register(reg, ShoppingResultsTotal)
		ShoppingResultStores = register(reg, ShoppingResultStores)
		CatalogCacheTotal = register(reg, CatalogCacheTotal)
		ImagesFetchTotal = register(reg, ImagesFetchTotal)
	})
}
