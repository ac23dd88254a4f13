// Package analytics records what the search service does: every query and
// every index build, load or save. Events are aggregated in memory, shipped in
// batches to an optional publisher (Kafka) and snapshotted to an optional
// store (PostgreSQL).
package analytics

import "time"

type EventType string

const (
	EventSearch     EventType = "search"
	EventZeroResult EventType = "zero_result"
	EventIndexBuild EventType = "index_build"
	EventIndexLoad  EventType = "index_load"
	EventIndexSave  EventType = "index_save"
)

type SearchEvent struct {
	Type      EventType `json:"type"`
	Query     string    `json:"query"`
	Terms     []string  `json:"terms"`
	TotalHits int       `json:"total_hits"`
	Returned  int       `json:"returned"`
	Order     string    `json:"order"`
	LatencyMs int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// IndexEvent describes one whole-index operation. Problems counts malformed
// persistence lines skipped by a load.
type IndexEvent struct {
	Type       EventType `json:"type"`
	Path       string    `json:"path"`
	Documents  int       `json:"documents"`
	Rejected   int       `json:"rejected,omitempty"`
	Problems   int       `json:"problems,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// key is the partition key used when the event is published.
func key(event any) string {
	switch e := event.(type) {
	case SearchEvent:
		return string(e.Type)
	case IndexEvent:
		return string(e.Type)
	default:
		return "unknown"
	}
}
