package metrics

import (
    "net/http"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
    uploads = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "impression",
            Name:      "uploads_total",
            Help:      "Total document uploads by format and result",
        },
        []string{"format", "result"},
    )

    estimateLatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "impression",
            Name:      "estimate_duration_seconds",
            Help:      "Duration of page count estimation by format",
            Buckets:   prometheus.DefBuckets,
        },
        []string{"format"},
    )

    ordersCreated = prometheus.NewCounter(
        prometheus.CounterOpts{
            Namespace: "impression",
            Name:      "orders_created_total",
            Help:      "Total orders submitted",
        },
    )

    statusTransitions = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "impression",
            Name:      "status_transitions_total",
            Help:      "Order status transitions by target status",
        },
        []string{"status"},
    )

    logins = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "impression",
            Name:      "admin_logins_total",
            Help:      "Admin login attempts by result",
        },
        []string{"result"},
    )

    storeWriteFailures = prometheus.NewCounter(
        prometheus.CounterOpts{
            Namespace: "impression",
            Name:      "store_write_failures_total",
            Help:      "Failed writes to the order/institute store",
        },
    )
)

// Init registers collectors.
func Init() {
    prometheus.MustRegister(uploads, estimateLatency, ordersCreated, statusTransitions, logins, storeWriteFailures)
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

func ObserveUpload(format, result string, dur time.Duration) {
    uploads.WithLabelValues(format, result).Inc()
    estimateLatency.WithLabelValues(format).Observe(dur.Seconds())
}

func IncUploadRejected(reason string) { uploads.WithLabelValues("unknown", reason).Inc() }

func IncOrderCreated() { ordersCreated.Inc() }

func IncStatusTransition(status string) { statusTransitions.WithLabelValues(status).Inc() }

func IncLogin(result string) { logins.WithLabelValues(result).Inc() }

func IncStoreWriteFailure() { storeWriteFailures.Inc() }
