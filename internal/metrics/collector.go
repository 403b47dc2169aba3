// Package metrics provides in-memory runtime statistics collection plus an
// optional Prometheus exporter.
package metrics

import (
	"math"
	"sync"
	"time"
)

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64   `json:"count"`
	TotalTimeMs int64   `json:"total_time_ms"`
	AvgTimeMs   float64 `json:"avg_time_ms"`
	MinTimeMs   int64   `json:"min_time_ms"`
	MaxTimeMs   int64   `json:"max_time_ms"`
}

// Snapshot represents the full engine statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64            `json:"uptime_seconds"`
	Search        *OperationSnapshot `json:"search,omitempty"`
	Traverse      *OperationSnapshot `json:"traverse,omitempty"`
	Suggest       *OperationSnapshot `json:"suggest,omitempty"`
	Validate      *OperationSnapshot `json:"validate,omitempty"`
	Embedding     *OperationSnapshot `json:"embedding,omitempty"`
	SnapshotLoad  *OperationSnapshot `json:"snapshot_load,omitempty"`
}

// Operation names for the collector.
const (
	OpSearch       = "search"
	OpTraverse     = "traverse"
	OpSuggest      = "suggest"
	OpValidate     = "validate"
	OpEmbedding    = "embedding"
	OpSnapshotLoad = "snapshot_load"
)

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	return m
}

// RecordTiming records timing for an operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}
	return &OperationSnapshot{
		Count:       m.Count,
		TotalTimeMs: m.TotalTime.Milliseconds(),
		AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
		MinTimeMs:   m.MinTime.Milliseconds(),
		MaxTimeMs:   m.MaxTime.Milliseconds(),
	}
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		Search:        snapshotOp(c.ops[OpSearch]),
		Traverse:      snapshotOp(c.ops[OpTraverse]),
		Suggest:       snapshotOp(c.ops[OpSuggest]),
		Validate:      snapshotOp(c.ops[OpValidate]),
		Embedding:     snapshotOp(c.ops[OpEmbedding]),
		SnapshotLoad:  snapshotOp(c.ops[OpSnapshotLoad]),
	}
}
