package metrics

import (
	"fmt"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

type promRecorder struct {
	queryTotal   *prom.CounterVec
	querySeconds *prom.HistogramVec
	toolTotal    *prom.CounterVec
	toolSeconds  *prom.HistogramVec
}

func (p *promRecorder) IncQueryTotal(queryType string, success bool) {
	p.queryTotal.WithLabelValues(queryType, fmt.Sprintf("%t", success)).Inc()
}

func (p *promRecorder) ObserveQuerySeconds(queryType string, success bool, seconds float64) {
	p.querySeconds.WithLabelValues(queryType, fmt.Sprintf("%t", success)).Observe(seconds)
}

func (p *promRecorder) IncToolTotal(tool string, success bool) {
	p.toolTotal.WithLabelValues(tool, fmt.Sprintf("%t", success)).Inc()
}

func (p *promRecorder) ObserveToolSeconds(tool string, success bool, seconds float64) {
	p.toolSeconds.WithLabelValues(tool, fmt.Sprintf("%t", success)).Observe(seconds)
}

func enablePrometheus(addr string) error {
	registry := prom.NewRegistry()
	p := &promRecorder{
		queryTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "blockgraph_queries_total",
			Help: "Total number of engine queries",
		}, []string{"query_type", "success"}),
		querySeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "blockgraph_query_seconds",
			Help:    "Engine query duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"query_type", "success"}),
		toolTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "blockgraph_tool_calls_total",
			Help: "Total number of tool handler calls",
		}, []string{"tool", "success"}),
		toolSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "blockgraph_tool_call_seconds",
			Help:    "Tool handler duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"tool", "success"}),
	}

	registry.MustRegister(p.queryTotal, p.querySeconds, p.toolTotal, p.toolSeconds)
	SetRecorder(p)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() { _ = http.ListenAndServe(addr, mux) }()
	return nil
}
