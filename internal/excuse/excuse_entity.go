package excuse

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Excuse struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AttendanceID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserName     string     `gorm:"type:varchar(255);not null"`
	Date         string     `gorm:"type:date;not null;index"`
	Reason       string     `gorm:"type:text;not null"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending'"`
	ReviewedBy   *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt   *time.Time `gorm:"type:timestamp"`
	Synced       bool       `gorm:"not null;default:false;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Excuse) TableName() string {
	return "excuses"
}
