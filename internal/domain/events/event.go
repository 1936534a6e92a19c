package events

import (
	"time"

	"github.com/google/uuid"
)

// Dashboard event types
const (
	EventTypeHabitUpdate     = "habit_update"
	EventTypeDashboardUpdate = "dashboard_update"
)

// DashboardEvent is published on the dashboard channel whenever a habit
// changes in a way that affects derived statistics. Subscribers use it
// to drop cached aggregates and push live updates.
type DashboardEvent struct {
	EventType string      `json:"event_type"`
	EntityID  uuid.UUID   `json:"entity_id"`
	Timestamp time.Time   `json:"timestamp"`
	Details   interface{} `json:"details,omitempty"`
}

// DashboardEventTypes defines standard event types for dashboard events
const (
	DashboardEventMetricsUpdate   = "metrics_update"
	DashboardEventCacheInvalidate = "cache_invalidate"
)
