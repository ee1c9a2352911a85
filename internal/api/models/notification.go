package models

import "time"

type NotificationType string

const (
	NotificationAssigned      NotificationType = "assigned"
	NotificationStatusChanged NotificationType = "status_changed"
	NotificationUrgent        NotificationType = "urgent"
	NotificationMessage       NotificationType = "message"
)

// Notification is the durable record of a delivery to one recipient.
// Live pushes are best-effort on top of it; only the recipient flips IsRead.
type Notification struct {
	ID        uint             `gorm:"primaryKey"`
	UserID    uint             `gorm:"not null;index;column:user_id"`
	Type      NotificationType `gorm:"not null"`
	Title     string           `gorm:"not null"`
	Message   string           `gorm:"type:text"`
	IsRead    bool             `gorm:"default:false;column:is_read"`
	JobID     uint             `gorm:"not null;index;column:job_id"`
	CreatedAt time.Time        `gorm:"autoCreateTime;column:created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
