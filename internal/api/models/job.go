package models

import "time"

// JobStatus is the closed set of lifecycle states for a job.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusAssigned   JobStatus = "assigned"
	StatusInProgress JobStatus = "in_progress"
	StatusCompleted  JobStatus = "completed"
	StatusCancelled  JobStatus = "cancelled"
)

func (s JobStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave this status.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type JobPriority string

const (
	PriorityNormal JobPriority = "normal"
	PriorityUrgent JobPriority = "urgent"
)

func (p JobPriority) Valid() bool {
	return p == PriorityNormal || p == PriorityUrgent
}

// Job is a unit of field work tracked through its lifecycle.
// Version is the optimistic-concurrency counter: every accepted status or
// assignment write bumps it, and writers must present the version they read.
type Job struct {
	ID          uint        `gorm:"primaryKey"`
	Title       string      `gorm:"not null"`
	Description string      `gorm:"type:text"`
	Location    string      `gorm:"not null"`
	Priority    JobPriority `gorm:"not null;default:normal"`
	Status      JobStatus   `gorm:"not null;default:pending;index"`
	CreatedBy   uint        `gorm:"not null;index;column:created_by"`
	AssignedTo  *uint       `gorm:"index;column:assigned_to"`
	Deadline    *time.Time  `gorm:"column:deadline"`
	CompletedAt *time.Time  `gorm:"column:completed_at"`
	Version     uint        `gorm:"not null;default:1"`
	CreatedAt   time.Time   `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime;column:updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}

// JobFilter narrows a job query; nil fields match everything.
type JobFilter struct {
	Status     *JobStatus
	Priority   *JobPriority
	AssignedTo *uint
	CreatedBy  *uint
}
