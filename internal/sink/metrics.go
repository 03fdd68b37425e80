package sink

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var counterDeliveries = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "tally",
		Subsystem: "sync",
		Name:      "deliveries_total",
		Help:      "Delivery attempts by observed status.",
	},
	[]string{"status"},
)

var histogramDelivery = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "tally",
		Subsystem: "sync",
		Name:      "delivery_duration_seconds",
		Help:      "Time spent on a delivery request, including failed ones.",
		Buckets:   prometheus.DefBuckets,
	},
)
