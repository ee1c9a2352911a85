package service

import (
	"api/internal/api/apperr"
	"api/internal/api/models"
	"api/pkg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvidence(jobs *stubJobStore) (*EvidenceService, *stubEvidenceStore) {
	evidence := &stubEvidenceStore{}
	return &EvidenceService{jobs: jobs, evidence: evidence, logger: nopLogger()}, evidence
}

func TestEvidence_AttachImage(t *testing.T) {
	jobs := newStubJobStore()
	assignee := uint(7)
	seeded := jobs.put(models.Job{Title: "x", Location: "y", Status: models.StatusInProgress, CreatedBy: 3, AssignedTo: &assignee})
	svc, _ := newTestEvidence(jobs)

	image, err := svc.AttachImage(models.RoleStaff, 7, seeded.ID, "https://cdn.example.com/before.jpg", models.ImageBefore)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, image.JobID)
	assert.Equal(t, uint(7), image.UploadedBy)

	images, err := svc.ListImages(seeded.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, models.ImageBefore, images[0].ImageType)
}

func TestEvidence_AttachImage_OnTerminalJob(t *testing.T) {
	jobs := newStubJobStore()
	assignee := uint(7)
	seeded := jobs.put(models.Job{Title: "x", Location: "y", Status: models.StatusCompleted, CreatedBy: 3, AssignedTo: &assignee})
	svc, _ := newTestEvidence(jobs)

	// Photos routinely land after completion; terminal status does not block.
	_, err := svc.AttachImage(models.RoleStaff, 7, seeded.ID, "https://cdn.example.com/after.jpg", models.ImageAfter)
	assert.NoError(t, err)
}

func TestEvidence_AttachImage_Rejected(t *testing.T) {
	jobs := newStubJobStore()
	assignee := uint(7)
	seeded := jobs.put(models.Job{Title: "x", Location: "y", Status: models.StatusInProgress, CreatedBy: 3, AssignedTo: &assignee})
	svc, _ := newTestEvidence(jobs)

	_, err := svc.AttachImage(models.RoleStaff, 8, seeded.ID, "https://cdn.example.com/a.jpg", models.ImageBefore)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.AttachImage(models.RoleStaff, 7, seeded.ID, "  ", models.ImageBefore)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.AttachImage(models.RoleStaff, 7, seeded.ID, "https://cdn.example.com/a.jpg", models.ImageType("panorama"))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.AttachImage(models.RoleStaff, 7, 404, "https://cdn.example.com/a.jpg", models.ImageBefore)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEvidence_RecordLocation(t *testing.T) {
	jobs := newStubJobStore()
	seeded := jobs.put(models.Job{Title: "x", Location: "y", Status: models.StatusInProgress, CreatedBy: 3})
	svc, _ := newTestEvidence(jobs)

	location, err := svc.RecordLocation(models.RoleCustomer, 3, seeded.ID, 48.8566, 2.3522, pkg.ToPtr(12.5))
	require.NoError(t, err)
	assert.Equal(t, uint(3), location.RecordedBy)
	require.NotNil(t, location.Accuracy)
	assert.Equal(t, 12.5, *location.Accuracy)

	locations, err := svc.ListLocations(seeded.ID)
	require.NoError(t, err)
	assert.Len(t, locations, 1)
}

func TestEvidence_RecordLocation_OutOfRange(t *testing.T) {
	jobs := newStubJobStore()
	seeded := jobs.put(models.Job{Title: "x", Location: "y", Status: models.StatusInProgress, CreatedBy: 3})
	svc, _ := newTestEvidence(jobs)

	_, err := svc.RecordLocation(models.RoleCustomer, 3, seeded.ID, 91, 0, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.RecordLocation(models.RoleCustomer, 3, seeded.ID, 0, -181, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestEvidence_List_UnknownJob(t *testing.T) {
	svc, _ := newTestEvidence(newStubJobStore())

	_, err := svc.ListImages(404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.ListLocations(404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
