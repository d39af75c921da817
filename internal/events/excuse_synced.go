package events

import "time"

const ExcuseSyncTopic = "excuse.sync.v1"

type ExcuseSyncEvent struct {
	EventType    string    `json:"event_type"`
	ExcuseID     string    `json:"excuse_id"`
	AttendanceID string    `json:"attendance_id"`
	UserID       string    `json:"user_id"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}
