package dto

import "time"

// MetricsSnapshot aggregates in-process counters for the JSON metrics summary.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	WorkloadReports          uint64    `json:"workload_reports"`
	SkippedEntries           uint64    `json:"skipped_entries"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
