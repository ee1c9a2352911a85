package models

import "time"

// ImageType classifies a verification photo attached to a job.
type ImageType string

const (
	ImageBefore   ImageType = "before"
	ImageAfter    ImageType = "after"
	ImageLocation ImageType = "location"
)

func (t ImageType) Valid() bool {
	switch t {
	case ImageBefore, ImageAfter, ImageLocation:
		return true
	}
	return false
}

// JobImage links a job to a photo held by the binary storage collaborator.
// Rows are append-only; the blob itself is never stored here.
type JobImage struct {
	ID         uint      `gorm:"primaryKey"`
	JobID      uint      `gorm:"not null;index;column:job_id"`
	ImageURL   string    `gorm:"not null;type:text;column:image_url"`
	ImageType  ImageType `gorm:"not null;column:image_type"`
	UploadedBy uint      `gorm:"not null;column:uploaded_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime;column:created_at"`
}

func (JobImage) TableName() string {
	return "job_images"
}

// JobLocation is an append-only GPS fix recorded against a job.
type JobLocation struct {
	ID         uint      `gorm:"primaryKey"`
	JobID      uint      `gorm:"not null;index;column:job_id"`
	Latitude   float64   `gorm:"not null"`
	Longitude  float64   `gorm:"not null"`
	Accuracy   *float64  `gorm:"column:accuracy"`
	RecordedBy uint      `gorm:"not null;column:recorded_by"`
	RecordedAt time.Time `gorm:"autoCreateTime;column:recorded_at"`
}

func (JobLocation) TableName() string {
	return "job_locations"
}
