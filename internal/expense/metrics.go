package expense

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var histogramSnapshotWrite = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "tally",
		Subsystem: "ledger",
		Name:      "snapshot_write_duration_seconds",
		Help:      "Time spent encoding and writing a ledger snapshot.",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
	},
	[]string{"failed"},
)

func observeWrite(elapsed time.Duration, err error) {
	histogramSnapshotWrite.
		WithLabelValues(strconv.FormatBool(err != nil)).
		Observe(elapsed.Seconds())
}
