package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	framesDecoded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "telemctl",
			Subsystem: "ingest",
			Name:      "frames_decoded_total",
			Help:      "Valid frames decoded from the serial stream.",
		},
	)
	resyncs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "telemctl",
			Subsystem: "ingest",
			Name:      "resyncs_total",
			Help:      "Times the scanner lost frame alignment and re-entered seeking.",
		},
	)
	unknownSignals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "telemctl",
			Subsystem: "ingest",
			Name:      "unknown_signals_total",
			Help:      "Valid frames whose (device_id, sub_id) has no registry entry.",
		},
		[]string{"device_id", "sub_id"},
	)
	samplesAppended = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "telemctl",
			Subsystem: "ingest",
			Name:      "samples_appended_total",
			Help:      "Samples appended to the time-series store.",
		},
		[]string{"signal"},
	)
	transportReconnects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "telemctl",
			Subsystem: "ingest",
			Name:      "transport_reconnects_total",
			Help:      "Serial source reconnect attempts after a transport error.",
		},
	)
	publishFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "telemctl",
			Subsystem: "publish",
			Name:      "failures_total",
			Help:      "Sample publishes that failed at the MQTT boundary.",
		},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "telemctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "telemctl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			framesDecoded, resyncs, unknownSignals, samplesAppended,
			transportReconnects, publishFailures, httpRequests, httpDuration,
		)
	})
}

func RecordFrameDecoded() {
	RegisterMetrics()
	framesDecoded.Inc()
}

func RecordResyncs(n uint64) {
	RegisterMetrics()
	resyncs.Add(float64(n))
}

func RecordUnknownSignal(deviceID, subID byte) {
	RegisterMetrics()
	unknownSignals.WithLabelValues(hexLabel(deviceID), hexLabel(subID)).Inc()
}

func RecordSampleAppended(name string) {
	RegisterMetrics()
	samplesAppended.WithLabelValues(name).Inc()
}

func RecordTransportReconnect() {
	RegisterMetrics()
	transportReconnects.Inc()
}

func RecordPublishFailure() {
	RegisterMetrics()
	publishFailures.Inc()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

func hexLabel(b byte) string {
	return "0x" + strconv.FormatUint(uint64(b), 16)
}
