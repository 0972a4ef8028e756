package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var chunksIndexedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "chunks_indexed_total",
	Help: "Chunks upserted into the vector store, labelled by collection",
}, []string{"collection"})

var retrievalEmptyTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "retrieval_empty_total",
	Help: "Chat requests that retrieved zero chunks",
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func CountChunksIndexed(collection string, n int) {
	chunksIndexedTotal.WithLabelValues(collection).Add(float64(n))
}

func CountEmptyRetrieval() {
	retrievalEmptyTotal.Inc()
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pipeline_request_duration_seconds",
	Help:    "Total time spent in an ingestion or chat pipeline run.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60},
}, []string{"pipeline"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CapturePipelineMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
