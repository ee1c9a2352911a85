package request

import (
	"time"

	"api/internal/api/models"
)

type CreateJob struct {
	Title       string             `json:"title" validate:"required"`
	Description string             `json:"description"`
	Location    string             `json:"location" validate:"required"`
	Priority    models.JobPriority `json:"priority" validate:"omitempty,oneof=normal urgent"`
	AssignedTo  *uint              `json:"assignedTo,omitempty"`
	Deadline    *time.Time         `json:"deadline,omitempty"`
}

// TransitionJob requests a status change on a job.
type TransitionJob struct {
	Status models.JobStatus `json:"status" validate:"required"`
	Note   string           `json:"note"`
}

type AssignJob struct {
	AssigneeID uint `json:"assigneeId" validate:"required"`
}

// AttachImage links an already-uploaded photo to the job; the URL comes
// from the binary storage collaborator.
type AttachImage struct {
	ImageURL  string           `json:"imageUrl" validate:"required,url"`
	ImageType models.ImageType `json:"imageType" validate:"required,oneof=before after location"`
}

type RecordLocation struct {
	Latitude  float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64  `json:"longitude" validate:"min=-180,max=180"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}
