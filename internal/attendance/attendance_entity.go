package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
)

type Attendance struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserName    string     `gorm:"type:varchar(255);not null"`
	Date        string     `gorm:"type:date;not null;index"`
	Status      string     `gorm:"type:varchar(20);not null"`
	CheckInTime *time.Time `gorm:"type:timestamp"`
	Location    *string    `gorm:"type:text"`
	Synced      bool       `gorm:"not null;default:false;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Attendance) TableName() string {
	return "attendance"
}
