package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CartOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_operations_total",
			Help: "Cart mutations by operation",
		},
		[]string{"op"}, // add|update|remove|clear|rejected
	)
	CartItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cart_items",
			Help: "Number of line items currently in the cart",
		},
	)
)

var (
	SyncPasses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_passes_total",
			Help: "Reconciliation passes by trigger",
		},
		[]string{"trigger"}, // initial|interval|watch|focus|visibility|manual
	)
	SyncRefreshes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_refreshes_total",
			Help: "Display refreshes requested after a differing pass",
		},
	)
	SyncThrottled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_refreshes_throttled_total",
			Help: "Display refreshes suppressed by the rate limiter",
		},
	)
)

var (
	StoreFaults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_faults_total",
			Help: "Durable store faults by operation",
		},
		[]string{"op"}, // load|save|erase|append
	)
	OrdersSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_submitted_total",
			Help: "Orders appended to the durable order log",
		},
	)
)

func MustRegister() {
	prometheus.MustRegister(CartOps, CartItems, SyncPasses, SyncRefreshes, SyncThrottled, StoreFaults, OrdersSubmitted)
}
