package gtrans

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gtrans_requests_total",
			Help: "Total number of batchexecute requests by host and outcome",
		},
		[]string{"host", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gtrans_request_duration_seconds",
			Help:    "Duration of batchexecute requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		},
		[]string{"host"},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gtrans_cache_lookups_total",
			Help: "Response cache lookups by result",
		},
		[]string{"result"},
	)

	decodeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gtrans_decode_errors_total",
			Help: "Replies that could not be framed or decoded, by kind",
		},
		[]string{"kind"},
	)
)

// decodeErrorKind labels a framing or decoding failure for decodeErrorsTotal.
func decodeErrorKind(err error) string {
	switch e := err.(type) {
	case *FramingError:
		return "framing"
	case *MalformedJSONError:
		return string(e.Stage)
	default:
		return "other"
	}
}
