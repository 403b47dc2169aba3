package metrics

import (
	"os"
	"sync"
	"time"
)

// Recorder defines the exported metrics surface. A no-op implementation is
// installed by default; the Prometheus-backed one is enabled via env.
type Recorder interface {
	IncQueryTotal(queryType string, success bool)
	ObserveQuerySeconds(queryType string, success bool, seconds float64)
	IncToolTotal(tool string, success bool)
	ObserveToolSeconds(tool string, success bool, seconds float64)
}

// noopRecorder implements Recorder with no-ops.
type noopRecorder struct{}

func (n *noopRecorder) IncQueryTotal(string, bool)                {}
func (n *noopRecorder) ObserveQuerySeconds(string, bool, float64) {}
func (n *noopRecorder) IncToolTotal(string, bool)                 {}
func (n *noopRecorder) ObserveToolSeconds(string, bool, float64)  {}

var (
	recMu    sync.RWMutex
	recorder Recorder = &noopRecorder{}
)

// Default returns the current recorder.
func Default() Recorder {
	recMu.RLock()
	defer recMu.RUnlock()
	return recorder
}

// SetRecorder swaps the global recorder implementation.
func SetRecorder(r Recorder) {
	recMu.Lock()
	defer recMu.Unlock()
	recorder = r
}

// TimeTool is a helper to time tool handler operations.
func TimeTool(tool string) func(success bool) {
	start := time.Now()
	return func(success bool) {
		dur := time.Since(start).Seconds()
		Default().IncToolTotal(tool, success)
		Default().ObserveToolSeconds(tool, success, dur)
	}
}

// InitFromEnv enables the Prometheus exporter if BLOCKGRAPH_METRICS=true.
// It also starts a small HTTP server on BLOCKGRAPH_METRICS_ADDR (default
// :9090) with endpoints /metrics and /healthz.
func InitFromEnv() {
	if os.Getenv("BLOCKGRAPH_METRICS") == "" {
		return
	}
	addr := os.Getenv("BLOCKGRAPH_METRICS_ADDR")
	if addr == "" {
		addr = ":9090"
	}
	_ = enablePrometheus(addr)
}
