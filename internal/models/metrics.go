package models

import "time"

// SystemMetrics is a JSON friendly snapshot of process counters.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	AttendanceMarks          uint64    `json:"attendance_marks"`
	ReportsGenerated         uint64    `json:"reports_generated"`
	DateConflicts            uint64    `json:"date_conflicts"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
