package events

import "time"

const AttendanceSyncTopic = "attendance.sync.v1"

type AttendanceSyncEvent struct {
	EventType    string    `json:"event_type"`
	AttendanceID string    `json:"attendance_id"`
	UserID       string    `json:"user_id"`
	Date         string    `json:"date"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}
