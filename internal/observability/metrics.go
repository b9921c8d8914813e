package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpDurationHistogram *prometheus.HistogramVec
	refreshRunCounter     *prometheus.CounterVec
	currenciesTouched     prometheus.Counter
	ordersCreatedCounter  *prometheus.CounterVec
	notificationCounter   *prometheus.CounterVec
	workerRunCounter      *prometheus.CounterVec
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		refreshRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_refresh_runs_total",
			Help: "Currency rate refresh outcomes",
		}, []string{"result"})

		currenciesTouched = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rate_refresh_currencies_total",
			Help: "Currencies created or updated by rate refreshes",
		})

		ordersCreatedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders created, labeled by foreign currency code",
		}, []string{"currency"})

		notificationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_notifications_total",
			Help: "Order-placed notification outcomes",
		}, []string{"result"})

		workerRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_runs_total",
			Help: "Background worker run outcomes",
		}, []string{"worker", "result"})

		prometheus.MustRegister(
			httpDurationHistogram,
			refreshRunCounter,
			currenciesTouched,
			ordersCreatedCounter,
			notificationCounter,
			workerRunCounter,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func IncrementRefreshRun(result string) {
	if refreshRunCounter == nil {
		return
	}
	refreshRunCounter.WithLabelValues(result).Inc()
}

func AddCurrenciesTouched(n int) {
	if currenciesTouched == nil || n <= 0 {
		return
	}
	currenciesTouched.Add(float64(n))
}

func IncrementOrderCreated(currency string) {
	if ordersCreatedCounter == nil {
		return
	}
	ordersCreatedCounter.WithLabelValues(currency).Inc()
}

func IncrementNotification(result string) {
	if notificationCounter == nil {
		return
	}
	notificationCounter.WithLabelValues(result).Inc()
}

func IncrementWorkerRun(worker, result string) {
	if workerRunCounter == nil {
		return
	}
	workerRunCounter.WithLabelValues(worker, result).Inc()
}
