package queue

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

const (
	TypeAttendance = "attendance"
	TypeExcuse     = "excuse"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Item is one pending local operation awaiting remote publication. Entries
// are marked sent only after the remote authority confirms the publish;
// nothing drains the queue unconditionally.
type Item struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Type       string    `gorm:"type:varchar(20);not null;index"`
	RecordID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Action     string    `gorm:"type:varchar(10);not null"`
	Payload    []byte    `gorm:"type:blob"`
	Status     string    `gorm:"type:varchar(10);not null;default:'pending';index"`
	RetryCount int       `gorm:"not null;default:0"`
	LastError  *string   `gorm:"type:text"`
	Timestamp  time.Time `gorm:"not null;index"`
}

func (Item) TableName() string {
	return "sync_queue"
}
