package response

import (
	"api/internal/api/models"
	"time"
)

// Job response for listing
type Job struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Location    string             `json:"location"`
	Priority    models.JobPriority `json:"priority"`
	Status      models.JobStatus   `json:"status"`
	CreatedBy   uint               `json:"createdBy"`
	AssignedTo  *uint              `json:"assignedTo,omitempty"`
	Deadline    *time.Time         `json:"deadline,omitempty"`
	CompletedAt *time.Time         `json:"completedAt,omitempty"`
	Version     uint               `json:"version"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// JobDetail includes the evidence and the audit trail for a single job get.
type JobDetail struct {
	Job
	Images    []JobImage    `json:"images"`
	Locations []JobLocation `json:"locations"`
	Updates   []JobUpdate   `json:"updates"`
}

type JobUpdate struct {
	ID        uint             `json:"id"`
	UpdatedBy uint             `json:"updatedBy"`
	OldStatus models.JobStatus `json:"oldStatus"`
	NewStatus models.JobStatus `json:"newStatus"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"createdAt"`
}

type JobImage struct {
	ID         uint             `json:"id"`
	ImageURL   string           `json:"imageUrl"`
	ImageType  models.ImageType `json:"imageType"`
	UploadedBy uint             `json:"uploadedBy"`
	CreatedAt  time.Time        `json:"createdAt"`
}

type JobLocation struct {
	ID         uint      `json:"id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   *float64  `json:"accuracy,omitempty"`
	RecordedBy uint      `json:"recordedBy"`
	RecordedAt time.Time `json:"recordedAt"`
}

type Notification struct {
	ID        uint                    `json:"id"`
	Type      models.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	IsRead    bool                    `json:"isRead"`
	JobID     uint                    `json:"jobId"`
	CreatedAt time.Time               `json:"createdAt"`
}
