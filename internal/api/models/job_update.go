package models

import "time"

// JobUpdate is one immutable audit row per accepted status transition.
type JobUpdate struct {
	ID        uint      `gorm:"primaryKey"`
	JobID     uint      `gorm:"not null;index;column:job_id"`
	UpdatedBy uint      `gorm:"not null;column:updated_by"`
	OldStatus JobStatus `gorm:"not null;column:old_status"`
	NewStatus JobStatus `gorm:"not null;column:new_status"`
	Message   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at"`
}

func (JobUpdate) TableName() string {
	return "job_updates"
}
