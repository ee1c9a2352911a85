package service

import (
	"api/internal/api/models"
	"api/pkg"
)

// Store interfaces consumed by the services. The repo package provides the
// GORM implementations; tests substitute in-memory stubs.

type JobStore interface {
	FindByID(id uint) (models.Job, error)
	Create(job *models.Job) error
	Query(filter models.JobFilter) ([]models.Job, error)
	// CompareAndSwapUpdate commits patch plus the optional audit row only if
	// the job's version still equals expectedVersion, in one transaction.
	CompareAndSwapUpdate(jobID uint, expectedVersion uint, patch map[string]any, update *models.JobUpdate) error
	Delete(id uint) error
	ListUpdates(jobID uint) ([]models.JobUpdate, error)
}

type EvidenceStore interface {
	CreateImage(image *models.JobImage) error
	CreateLocation(location *models.JobLocation) error
	ListImages(jobID uint) ([]models.JobImage, error)
	ListLocations(jobID uint) ([]models.JobLocation, error)
	CountByJob(jobID uint) (int64, error)
}

type NotificationStore interface {
	Create(notification *models.Notification) error
	FindByID(id uint) (models.Notification, error)
	ListForUser(userID uint) ([]models.Notification, error)
	MarkRead(id uint) error
	CountUnread(userID uint) (int64, error)
}

type UserStore interface {
	FindByID(id uint) (models.User, error)
	FindAdmins() ([]models.User, error)
}

// LivePusher is the live-transport collaborator. Pushes are best-effort;
// a failed push never fails the operation that triggered it.
type LivePusher interface {
	PushToJob(jobID uint, payload any) error
	PushToUser(userID uint, payload any) error
}

// Mailer sends out-of-band email, best-effort like the live pushes.
type Mailer func(msg pkg.EmailMessage) error
