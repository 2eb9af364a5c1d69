package models

import "time"

// DashboardCounts carries the aggregate figures pushed to dashboard
// observers. CurrentMonthCount is 0 by definition when the active schema has
// no creation-timestamp column, which callers must read as possibly unknown.
type DashboardCounts struct {
	Total             int64 `json:"total"`
	CurrentMonthCount int64 `json:"current_month_count"`
	PendingCount      int64 `json:"pending_count"`
}

// SystemMetrics is a lightweight aggregate snapshot exposed alongside the
// Prometheus endpoint.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	ConnectedObservers       int       `json:"connected_observers"`
	BroadcastsTotal          uint64    `json:"broadcasts_total"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
