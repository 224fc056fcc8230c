// Package stats tracks conversation turn statistics for the chatbot.
package stats

import (
	"maps"
	"runtime"
	"sync"
	"time"
)

// Collector collects and tracks turn statistics.
type Collector struct {
	mu            sync.Mutex
	startTime     time.Time
	turnCount     int64
	rejectedCount int64
	errorCount    int64
	totalDuration int64 // nanoseconds
	outcomes      map[string]int64
	intents       map[string]int64
}

// NewCollector creates a new stats collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		outcomes:  make(map[string]int64),
		intents:   make(map[string]int64),
	}
}

// Stats represents turn and system statistics at a point in time.
type Stats struct {
	// System resources
	MemoryStats MemoryStats `json:"memory"`
	Goroutines  int         `json:"goroutines"`
	Uptime      string      `json:"uptime"`

	// Turn metrics
	TurnCount     int64            `json:"turn_count"`
	RejectedCount int64            `json:"rejected_count"`
	ErrorCount    int64            `json:"handler_error_count"`
	AvgLatencyMs  float64          `json:"avg_latency_ms"`
	Outcomes      map[string]int64 `json:"outcomes"`
	Intents       map[string]int64 `json:"intents"`

	// Database info
	DBSize   int64   `json:"db_size_bytes"`
	DBSizeMB float64 `json:"db_size_mb"`
	DBPath   string  `json:"db_path,omitempty"`
}

// MemoryStats represents memory usage statistics.
type MemoryStats struct {
	HeapAlloc   int64   `json:"heap_alloc_bytes"`
	HeapAllocMB float64 `json:"heap_alloc_mb"`
	HeapInuse   int64   `json:"heap_inuse_bytes"`
	HeapInuseMB float64 `json:"heap_inuse_mb"`
	NumGC       uint32  `json:"num_gc"`
}

// Collect returns current statistics.
func (c *Collector) Collect(dbSize int64, dbPath string) *Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.mu.Lock()
	defer c.mu.Unlock()

	avgLatency := float64(0)
	if c.turnCount > 0 {
		avgLatency = float64(c.totalDuration) / float64(c.turnCount) / 1e6 // nanos to millis
	}

	return &Stats{
		MemoryStats: MemoryStats{
			HeapAlloc:   int64(m.HeapAlloc),
			HeapAllocMB: bytesToMB(int64(m.HeapAlloc)),
			HeapInuse:   int64(m.HeapInuse),
			HeapInuseMB: bytesToMB(int64(m.HeapInuse)),
			NumGC:       m.NumGC,
		},
		Goroutines:    runtime.NumGoroutine(),
		Uptime:        time.Since(c.startTime).Round(time.Second).String(),
		TurnCount:     c.turnCount,
		RejectedCount: c.rejectedCount,
		ErrorCount:    c.errorCount,
		AvgLatencyMs:  avgLatency,
		Outcomes:      maps.Clone(c.outcomes),
		Intents:       maps.Clone(c.intents),
		DBSize:        dbSize,
		DBSizeMB:      bytesToMB(dbSize),
		DBPath:        dbPath,
	}
}

// RecordTurn records a completed turn. intent is empty unless the turn
// matched a catalog entry.
func (c *Collector) RecordTurn(outcome, intent string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turnCount++
	c.totalDuration += duration.Nanoseconds()
	c.outcomes[outcome]++
	if intent != "" {
		c.intents[intent]++
	}
}

// RecordRejected records a message that failed validation.
func (c *Collector) RecordRejected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rejectedCount++
}

// RecordError records a handler error.
func (c *Collector) RecordError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorCount++
}

// bytesToMB converts bytes to megabytes.
func bytesToMB(b int64) float64 {
	return float64(b) / 1024 / 1024
}
