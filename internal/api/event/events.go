// Package event carries the domain events emitted by the job workflow and
// the ordered bus that delivers them to the notification dispatcher.
package event

import "api/internal/api/models"

type Event interface {
	Name() string
	JobID() uint
}

// JobAssigned fires when an admin assigns (or re-assigns) a job. The full
// job snapshot is carried so handlers never re-read the store.
type JobAssigned struct {
	Job        models.Job
	AssigneeID uint
	ActorID    uint
}

func (e JobAssigned) Name() string { return "job.assigned" }
func (e JobAssigned) JobID() uint  { return e.Job.ID }

// JobStatusChanged fires once per accepted status transition.
type JobStatusChanged struct {
	Job       models.Job
	OldStatus models.JobStatus
	NewStatus models.JobStatus
	ActorID   uint
}

func (e JobStatusChanged) Name() string { return "job.status_changed" }
func (e JobStatusChanged) JobID() uint  { return e.Job.ID }
