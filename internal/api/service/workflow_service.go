package service

import (
	"api"
	"api/internal/api/apperr"
	"api/internal/api/event"
	"api/internal/api/models"
	"api/internal/api/repo"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// allowedTransitions is the edge table of the job state machine. Statuses
// absent as keys (completed, cancelled) are terminal.
var allowedTransitions = map[models.JobStatus][]models.JobStatus{
	models.StatusPending:    {models.StatusAssigned, models.StatusInProgress, models.StatusCancelled},
	models.StatusAssigned:   {models.StatusInProgress, models.StatusCancelled},
	models.StatusInProgress: {models.StatusCompleted, models.StatusCancelled},
}

func transitionAllowed(from, to models.JobStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// WorkflowService validates and applies job status transitions, keeps the
// audit trail consistent with the job row, and emits domain events.
type WorkflowService struct {
	jobs     JobStore
	evidence EvidenceStore
	users    UserStore
	bus      *event.Bus
	logger   zerolog.Logger
}

func NewWorkflowService(bus *event.Bus) *WorkflowService {
	return &WorkflowService{
		jobs:     repo.NewJobRepository(),
		evidence: repo.NewEvidenceRepository(),
		users:    repo.NewUserRepository(),
		bus:      bus,
		logger:   api.Logger,
	}
}

type CreateJobAttrs struct {
	Title       string
	Description string
	Location    string
	Priority    models.JobPriority
	AssignedTo  *uint
	Deadline    *time.Time
}

// Create creates a new job. The status starts as assigned when an assignee
// is supplied (admins only), pending otherwise.
func (slf *WorkflowService) Create(role models.AppRole, actorID uint, attrs CreateJobAttrs) (*models.Job, error) {
	title := strings.TrimSpace(attrs.Title)
	location := strings.TrimSpace(attrs.Location)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", apperr.ErrValidation)
	}
	if location == "" {
		return nil, fmt.Errorf("%w: location is required", apperr.ErrValidation)
	}

	priority := attrs.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", apperr.ErrValidation, attrs.Priority)
	}

	status := models.StatusPending
	if attrs.AssignedTo != nil {
		if role != models.RoleAdmin {
			return nil, fmt.Errorf("%w: only admins may assign at creation", apperr.ErrForbidden)
		}
		if err := slf.checkAssignee(*attrs.AssignedTo); err != nil {
			return nil, err
		}
		status = models.StatusAssigned
	}

	job := models.Job{
		Title:       title,
		Description: attrs.Description,
		Location:    location,
		Priority:    priority,
		Status:      status,
		CreatedBy:   actorID,
		AssignedTo:  attrs.AssignedTo,
		Deadline:    attrs.Deadline,
		Version:     1,
	}

	if err := slf.jobs.Create(&job); err != nil {
		slf.logger.Error().Err(err).Msg("Error creating job")
		return nil, err
	}

	if job.AssignedTo != nil {
		slf.bus.Publish(event.JobAssigned{Job: job, AssigneeID: *job.AssignedTo, ActorID: actorID})
	}

	slf.logger.Info().Uint("jobId", job.ID).Str("status", string(job.Status)).Msg("Job created")
	return &job, nil
}

// RequestTransition moves a job to target if the state machine and the
// actor's permissions allow it. A self-transition is an idempotent no-op.
// The status write and the audit row commit atomically; a lost
// optimistic-concurrency race surfaces as apperr.ErrConflict for the caller
// to re-read and resubmit.
func (slf *WorkflowService) RequestTransition(role models.AppRole, actorID uint, jobID uint, target models.JobStatus, note string) (*models.Job, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrValidation, target)
	}

	job, err := slf.jobs.FindByID(jobID)
	if err != nil {
		return nil, slf.translate(err, jobID)
	}

	// Terminal states reject everything, including a repeat of themselves;
	// the idempotent no-op applies only while the job is still live.
	if job.Status.Terminal() {
		return nil, fmt.Errorf("%w: job is %s", apperr.ErrInvalidTransition, job.Status)
	}
	if job.Status == target {
		return &job, nil
	}
	if !CanTransition(role, actorID, job, target) {
		return nil, fmt.Errorf("%w: %s may not move job %d to %s", apperr.ErrForbidden, role, jobID, target)
	}
	if !transitionAllowed(job.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", apperr.ErrInvalidTransition, job.Status, target)
	}

	oldStatus := job.Status

	var completedAt *time.Time
	if target == models.StatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	patch := map[string]any{
		"status":       target,
		"completed_at": completedAt,
	}

	if note == "" {
		note = fmt.Sprintf("status changed from %s to %s", oldStatus, target)
	}
	update := models.JobUpdate{
		JobID:     jobID,
		UpdatedBy: actorID,
		OldStatus: oldStatus,
		NewStatus: target,
		Message:   note,
	}

	if err := slf.jobs.CompareAndSwapUpdate(jobID, job.Version, patch, &update); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("%w: job %d was modified concurrently", apperr.ErrConflict, jobID)
		}
		slf.logger.Error().Err(err).Uint("jobId", jobID).Msg("Error applying transition")
		return nil, err
	}

	job.Status = target
	job.CompletedAt = completedAt
	job.Version++

	slf.bus.Publish(event.JobStatusChanged{
		Job:       job,
		OldStatus: oldStatus,
		NewStatus: target,
		ActorID:   actorID,
	})

	slf.logger.Info().
		Uint("jobId", jobID).
		Str("from", string(oldStatus)).
		Str("to", string(target)).
		Uint("actorId", actorID).
		Msg("Job transitioned")
	return &job, nil
}

// Assign sets or replaces the assignee. Admin only. A pending job advances
// to assigned (with an audit row); otherwise the status is left untouched,
// so re-assignment never forces a status change.
func (slf *WorkflowService) Assign(role models.AppRole, actorID uint, jobID uint, assigneeID uint) (*models.Job, error) {
	if role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins may assign jobs", apperr.ErrForbidden)
	}

	job, err := slf.jobs.FindByID(jobID)
	if err != nil {
		return nil, slf.translate(err, jobID)
	}
	if job.Status.Terminal() {
		return nil, fmt.Errorf("%w: job is %s", apperr.ErrInvalidTransition, job.Status)
	}
	if err := slf.checkAssignee(assigneeID); err != nil {
		return nil, err
	}

	patch := map[string]any{"assigned_to": assigneeID}

	oldStatus := job.Status
	var update *models.JobUpdate
	if job.Status == models.StatusPending {
		patch["status"] = models.StatusAssigned
		update = &models.JobUpdate{
			JobID:     jobID,
			UpdatedBy: actorID,
			OldStatus: oldStatus,
			NewStatus: models.StatusAssigned,
			Message:   fmt.Sprintf("status changed from %s to %s", oldStatus, models.StatusAssigned),
		}
	}

	if err := slf.jobs.CompareAndSwapUpdate(jobID, job.Version, patch, update); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("%w: job %d was modified concurrently", apperr.ErrConflict, jobID)
		}
		slf.logger.Error().Err(err).Uint("jobId", jobID).Msg("Error assigning job")
		return nil, err
	}

	job.AssignedTo = &assigneeID
	if oldStatus == models.StatusPending {
		job.Status = models.StatusAssigned
	}
	job.Version++

	slf.bus.Publish(event.JobAssigned{Job: job, AssigneeID: assigneeID, ActorID: actorID})

	slf.logger.Info().
		Uint("jobId", jobID).
		Uint("assigneeId", assigneeID).
		Msg("Job assigned")
	return &job, nil
}

// FindByID retrieves a single job.
func (slf *WorkflowService) FindByID(jobID uint) (*models.Job, error) {
	job, err := slf.jobs.FindByID(jobID)
	if err != nil {
		return nil, slf.translate(err, jobID)
	}
	return &job, nil
}

// FindAllForActor retrieves jobs visible to the actor: admins see all jobs
// matching the filter, staff the ones assigned to them, customers their own.
func (slf *WorkflowService) FindAllForActor(role models.AppRole, actorID uint, filter models.JobFilter) ([]models.Job, error) {
	switch role {
	case models.RoleAdmin:
	case models.RoleStaff:
		filter.AssignedTo = &actorID
	case models.RoleCustomer:
		filter.CreatedBy = &actorID
	default:
		return nil, fmt.Errorf("%w: unknown role %q", apperr.ErrForbidden, role)
	}

	jobs, err := slf.jobs.Query(filter)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error querying jobs")
		return nil, err
	}
	return jobs, nil
}

// History retrieves the job's audit trail, newest first.
func (slf *WorkflowService) History(jobID uint) ([]models.JobUpdate, error) {
	if _, err := slf.jobs.FindByID(jobID); err != nil {
		return nil, slf.translate(err, jobID)
	}
	return slf.jobs.ListUpdates(jobID)
}

// Delete removes a job. Admin only; refused while evidence references it.
func (slf *WorkflowService) Delete(role models.AppRole, actorID uint, jobID uint) error {
	if role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins may delete jobs", apperr.ErrForbidden)
	}

	if _, err := slf.jobs.FindByID(jobID); err != nil {
		return slf.translate(err, jobID)
	}

	count, err := slf.evidence.CountByJob(jobID)
	if err != nil {
		slf.logger.Error().Err(err).Uint("jobId", jobID).Msg("Error counting evidence")
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: job %d has %d evidence records", apperr.ErrConflict, jobID, count)
	}

	if err := slf.jobs.Delete(jobID); err != nil {
		slf.logger.Error().Err(err).Uint("jobId", jobID).Msg("Error deleting job")
		return err
	}
	slf.logger.Info().Uint("jobId", jobID).Uint("actorId", actorID).Msg("Job deleted")
	return nil
}

func (slf *WorkflowService) checkAssignee(assigneeID uint) error {
	assignee, err := slf.users.FindByID(assigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", apperr.ErrNotFound, assigneeID)
		}
		return err
	}
	if assignee.Role != models.RoleStaff || !assignee.IsActive {
		return fmt.Errorf("%w: user %d is not active staff", apperr.ErrValidation, assigneeID)
	}
	return nil
}

func (slf *WorkflowService) translate(err error, jobID uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: job %d", apperr.ErrNotFound, jobID)
	}
	slf.logger.Error().Err(err).Uint("jobId", jobID).Msg("Error loading job")
	return err
}
