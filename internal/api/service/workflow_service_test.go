package service

import (
	"api/internal/api/apperr"
	"api/internal/api/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeStaff(id uint) models.User {
	return models.User{ID: id, Role: models.RoleStaff, IsActive: true}
}

func TestWorkflow_Create(t *testing.T) {
	jobs := newStubJobStore()
	svc := newTestWorkflow(jobs, newStubUserStore())

	job, err := svc.Create(models.RoleCustomer, 3, CreateJobAttrs{
		Title:    "Burst pipe",
		Location: "12 Rue des Lilas",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, job.Status)
	assert.Equal(t, models.PriorityNormal, job.Priority)
	assert.Equal(t, uint(3), job.CreatedBy)
	assert.Equal(t, uint(1), job.Version)
	assert.Nil(t, job.AssignedTo)
}

func TestWorkflow_Create_MissingFields(t *testing.T) {
	svc := newTestWorkflow(newStubJobStore(), newStubUserStore())

	_, err := svc.Create(models.RoleCustomer, 3, CreateJobAttrs{Title: "   ", Location: "somewhere"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(models.RoleCustomer, 3, CreateJobAttrs{Title: "ok", Location: ""})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(models.RoleCustomer, 3, CreateJobAttrs{Title: "ok", Location: "x", Priority: "asap"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestWorkflow_Create_WithAssignee(t *testing.T) {
	jobs := newStubJobStore()
	users := newStubUserStore(activeStaff(7))
	svc := newTestWorkflow(jobs, users)

	assignee := uint(7)
	job, err := svc.Create(models.RoleAdmin, 1, CreateJobAttrs{
		Title:      "Replace meter",
		Location:   "Warehouse B",
		AssignedTo: &assignee,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, job.Status)
	require.NotNil(t, job.AssignedTo)
	assert.Equal(t, assignee, *job.AssignedTo)
}

func TestWorkflow_Create_AssigneeRejected(t *testing.T) {
	users := newStubUserStore(
		models.User{ID: 8, Role: models.RoleStaff, IsActive: false},
		models.User{ID: 9, Role: models.RoleCustomer, IsActive: true},
	)
	svc := newTestWorkflow(newStubJobStore(), users)

	assignee := uint(7)
	_, err := svc.Create(models.RoleStaff, 7, CreateJobAttrs{Title: "x", Location: "y", AssignedTo: &assignee})
	assert.ErrorIs(t, err, apperr.ErrForbidden, "only admins assign at creation")

	_, err = svc.Create(models.RoleAdmin, 1, CreateJobAttrs{Title: "x", Location: "y", AssignedTo: &assignee})
	assert.ErrorIs(t, err, apperr.ErrNotFound, "unknown assignee")

	inactive := uint(8)
	_, err = svc.Create(models.RoleAdmin, 1, CreateJobAttrs{Title: "x", Location: "y", AssignedTo: &inactive})
	assert.ErrorIs(t, err, apperr.ErrValidation, "inactive staff")

	customer := uint(9)
	_, err = svc.Create(models.RoleAdmin, 1, CreateJobAttrs{Title: "x", Location: "y", AssignedTo: &customer})
	assert.ErrorIs(t, err, apperr.ErrValidation, "not staff")
}

func TestWorkflow_Transition_HappyPath(t *testing.T) {
	jobs := newStubJobStore()
	assignee := uint(7)
	seeded := jobs.put(models.Job{Title: "Fix boiler", Location: "x", Status: models.StatusAssigned, CreatedBy: 3, AssignedTo: &assignee, Priority: models.PriorityNormal})
	svc := newTestWorkflow(jobs, newStubUserStore())

	job, err := svc.RequestTransition(models.RoleStaff, 7, seeded.ID, models.StatusInProgress, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, job.Status)
	assert.Equal(t, seeded.Version+1, job.Version)

	job, err = svc.RequestTransition(models.RoleStaff, 7, seeded.ID, models.StatusCompleted, "all done")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, job.Status)
	require.NotNil(t, job.CompletedAt)

	updates, err := svc.History(seeded.ID)
	require.NoError(t, err)
	require.Len(t, updates, 2, "one audit row per transition")
	assert.Equal(t, "all done", updates[0].Message)
	assert.Equal(t, "status changed from assigned to in_progress", updates[1].Message)
}

func TestWorkflow_Transition_SelfIsNoOp(t *testing.T) {
	jobs := newStubJobStore()
	seeded := jobs.put(models.Job{Title: "x", Location: "y", Status: models.StatusPending, CreatedBy: 3})
	svc := newTestWorkflow(jobs, newStubUserStore())

	job, err := svc.RequestTransition(models.RoleAdmin, 1, seeded.ID, models.StatusPending, "")
	require.NoError(t, err)
	assert.Equal(t, seeded.Version, job.Version, "no write on self-transition")

	updates, err := svc.History(seeded.ID)
	require.NoError(t, err)
	assert.Empty(t, updates)
}

func TestWorkflow_Transition_TerminalRejected(t *testing.T) {
	jobs := newStubJobStore()
	completed := jobs.put(models.Job{Title: "x", Location: "y", Status: models.StatusCompleted, CreatedBy: 3})
	cancelled := jobs.put(models.Job{Title: "x", Location: "y", Status: models.StatusCancelled, CreatedBy: 3})
	svc := newTestWorkflow(jobs, newStubUserStore())

	_, err := svc.RequestTransition(models.RoleAdmin, 1, completed.ID, models.StatusInProgress, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, err = svc.RequestTransition(models.RoleAdmin, 1, cancelled.ID, models.StatusPending, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestWorkflow_Transition_IllegalEdge(t *testing.T) {
	jobs := newStubJobStore()
	seeded := jobs.put(models.Job{Title: "x", Location: "y", Status: models.StatusPending, CreatedBy: 3})
	svc := newTestWorkflow(jobs, newStubUserStore())

	_, err := svc.RequestTransition(models.RoleAdmin, 1, seeded.ID, models.StatusCompleted, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition, "pending cannot jump to completed")
}

func TestWorkflow_Transition_Forbidden(t *testing.T) {
	jobs := newStubJobStore()
	assignee := uint(7)
	seeded := jobs.put(models.Job{Title: "x", Location: "y", Status: models.StatusAssigned, CreatedBy: 3, AssignedTo: &assignee})
	svc := newTestWorkflow(jobs, newStubUserStore())

	_, err := svc.RequestTransition(models.RoleStaff, 8, seeded.ID, models.StatusInProgress, "")
	assert.ErrorIs(t, err, apperr.ErrForbidden, "staff not assigned to the job")

	_, err = svc.RequestTransition(models.RoleStaff, 7, seeded.ID, models.StatusCancelled, "")
	assert.ErrorIs(t, err, apperr.ErrForbidden, "staff may never cancel")
}

func TestWorkflow_Transition_CustomerCancel(t *testing.T) {
	jobs := newStubJobStore()
	seeded := jobs.put(models.Job{Title: "x", Location: "y", Status: models.StatusPending, CreatedBy: 3})
	svc := newTestWorkflow(jobs, newStubUserStore())

	job, err := svc.RequestTransition(models.RoleCustomer, 3, seeded.ID, models.StatusCancelled, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, job.Status)

	// Terminal now: even repeating the same status is rejected.
	_, err = svc.RequestTransition(models.RoleCustomer, 3, seeded.ID, models.StatusCancelled, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestWorkflow_Transition_StaleVersionConflict(t *testing.T) {
	jobs := newStubJobStore()
	seeded := jobs.put(models.Job{Title: "x", Location: "y", Status: models.StatusPending, CreatedBy: 3})
	svc := newTestWorkflow(jobs, newStubUserStore())

	jobs.casErr = apperr.ErrConflict
	_, err := svc.RequestTransition(models.RoleAdmin, 1, seeded.ID, models.StatusCancelled, "")
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestWorkflow_Transition_UnknownJob(t *testing.T) {
	svc := newTestWorkflow(newStubJobStore(), newStubUserStore())

	_, err := svc.RequestTransition(models.RoleAdmin, 1, 42, models.StatusCancelled, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.RequestTransition(models.RoleAdmin, 1, 42, models.JobStatus("archived"), "")
	assert.ErrorIs(t, err, apperr.ErrValidation, "status validated before the load")
}

func TestWorkflow_Assign(t *testing.T) {
	jobs := newStubJobStore()
	seeded := jobs.put(models.Job{Title: "x", Location: "y", Status: models.StatusPending, CreatedBy: 3})
	users := newStubUserStore(activeStaff(7))
	svc := newTestWorkflow(jobs, users)

	job, err := svc.Assign(models.RoleAdmin, 1, seeded.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, job.Status, "pending advances to assigned")
	require.NotNil(t, job.AssignedTo)
	assert.Equal(t, uint(7), *job.AssignedTo)

	updates, err := svc.History(seeded.ID)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, models.StatusPending, updates[0].OldStatus)
	assert.Equal(t, models.StatusAssigned, updates[0].NewStatus)
}

func TestWorkflow_Assign_ReassignKeepsStatus(t *testing.T) {
	jobs := newStubJobStore()
	first := uint(7)
	seeded := jobs.put(models.Job{Title: "x", Location: "y", Status: models.StatusInProgress, CreatedBy: 3, AssignedTo: &first})
	users := newStubUserStore(activeStaff(7), activeStaff(8))
	svc := newTestWorkflow(jobs, users)

	job, err := svc.Assign(models.RoleAdmin, 1, seeded.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, job.Status)
	assert.Equal(t, uint(8), *job.AssignedTo)

	updates, err := svc.History(seeded.ID)
	require.NoError(t, err)
	assert.Empty(t, updates, "no status change, no audit row")
}

func TestWorkflow_Assign_Rejected(t *testing.T) {
	jobs := newStubJobStore()
	pending := jobs.put(models.Job{Title: "x", Location: "y", Status: models.StatusPending, CreatedBy: 3})
	done := jobs.put(models.Job{Title: "x", Location: "y", Status: models.StatusCompleted, CreatedBy: 3})
	users := newStubUserStore(activeStaff(7))
	svc := newTestWorkflow(jobs, users)

	_, err := svc.Assign(models.RoleStaff, 7, pending.ID, 7)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Assign(models.RoleAdmin, 1, done.ID, 7)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, err = svc.Assign(models.RoleAdmin, 1, pending.ID, 42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestWorkflow_FindAllForActor(t *testing.T) {
	jobs := newStubJobStore()
	assignee := uint(7)
	jobs.put(models.Job{Title: "a", Location: "l", Status: models.StatusPending, CreatedBy: 3})
	jobs.put(models.Job{Title: "b", Location: "l", Status: models.StatusAssigned, CreatedBy: 3, AssignedTo: &assignee})
	jobs.put(models.Job{Title: "c", Location: "l", Status: models.StatusPending, CreatedBy: 4})
	svc := newTestWorkflow(jobs, newStubUserStore())

	all, err := svc.FindAllForActor(models.RoleAdmin, 1, models.JobFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := svc.FindAllForActor(models.RoleStaff, 7, models.JobFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "b", mine[0].Title)

	created, err := svc.FindAllForActor(models.RoleCustomer, 3, models.JobFilter{})
	require.NoError(t, err)
	assert.Len(t, created, 2)

	_, err = svc.FindAllForActor(models.AppRole("superuser"), 1, models.JobFilter{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestWorkflow_Delete(t *testing.T) {
	jobs := newStubJobStore()
	seeded := jobs.put(models.Job{Title: "x", Location: "y", Status: models.StatusPending, CreatedBy: 3})
	evidence := &stubEvidenceStore{}
	bus := newNopBus()
	svc := &WorkflowService{jobs: jobs, evidence: evidence, users: newStubUserStore(), bus: bus, logger: nopLogger()}

	require.NoError(t, svc.Delete(models.RoleAdmin, 1, seeded.ID))
	_, err := svc.FindByID(seeded.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(models.RoleAdmin, 1, seeded.ID), apperr.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(models.RoleStaff, 7, seeded.ID), apperr.ErrForbidden)
}

func TestWorkflow_Delete_EvidenceBlocks(t *testing.T) {
	jobs := newStubJobStore()
	seeded := jobs.put(models.Job{Title: "x", Location: "y", Status: models.StatusCompleted, CreatedBy: 3})
	evidence := &stubEvidenceStore{}
	require.NoError(t, evidence.CreateImage(&models.JobImage{JobID: seeded.ID, ImageURL: "https://cdn/x.jpg", ImageType: models.ImageAfter, UploadedBy: 7}))
	svc := &WorkflowService{jobs: jobs, evidence: evidence, users: newStubUserStore(), bus: newNopBus(), logger: nopLogger()}

	err := svc.Delete(models.RoleAdmin, 1, seeded.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, findErr := svc.FindByID(seeded.ID)
	assert.NoError(t, findErr, "job still there")
}
