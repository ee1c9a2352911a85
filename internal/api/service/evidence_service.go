package service

import (
	"api"
	"api/internal/api/apperr"
	"api/internal/api/models"
	"api/internal/api/repo"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// EvidenceService is the append-only ledger of photos and GPS fixes. The
// binary upload happens before any call lands here; only the URL and the
// capture metadata are stored.
type EvidenceService struct {
	jobs     JobStore
	evidence EvidenceStore
	logger   zerolog.Logger
}

func NewEvidenceService() *EvidenceService {
	return &EvidenceService{
		jobs:     repo.NewJobRepository(),
		evidence: repo.NewEvidenceRepository(),
		logger:   api.Logger,
	}
}

// AttachImage appends a verification photo to the job.
func (slf *EvidenceService) AttachImage(role models.AppRole, actorID uint, jobID uint, imageURL string, imageType models.ImageType) (*models.JobImage, error) {
	job, err := slf.loadJob(jobID)
	if err != nil {
		return nil, err
	}
	if !CanAttachEvidence(role, actorID, *job) {
		return nil, fmt.Errorf("%w: %s may not attach evidence to job %d", apperr.ErrForbidden, role, jobID)
	}
	if strings.TrimSpace(imageURL) == "" {
		return nil, fmt.Errorf("%w: image URL is required", apperr.ErrValidation)
	}
	if !imageType.Valid() {
		return nil, fmt.Errorf("%w: unknown image type %q", apperr.ErrValidation, imageType)
	}

	image := models.JobImage{
		JobID:      jobID,
		ImageURL:   imageURL,
		ImageType:  imageType,
		UploadedBy: actorID,
	}
	if err := slf.evidence.CreateImage(&image); err != nil {
		slf.logger.Error().Err(err).Uint("jobId", jobID).Msg("Error attaching image")
		return nil, err
	}

	slf.logger.Info().
		Uint("jobId", jobID).
		Str("type", string(imageType)).
		Uint("uploadedBy", actorID).
		Msg("Image attached")
	return &image, nil
}

// RecordLocation appends a GPS fix to the job.
func (slf *EvidenceService) RecordLocation(role models.AppRole, actorID uint, jobID uint, latitude, longitude float64, accuracy *float64) (*models.JobLocation, error) {
	job, err := slf.loadJob(jobID)
	if err != nil {
		return nil, err
	}
	if !CanAttachEvidence(role, actorID, *job) {
		return nil, fmt.Errorf("%w: %s may not attach evidence to job %d", apperr.ErrForbidden, role, jobID)
	}
	if latitude < -90 || latitude > 90 {
		return nil, fmt.Errorf("%w: latitude %f out of range", apperr.ErrValidation, latitude)
	}
	if longitude < -180 || longitude > 180 {
		return nil, fmt.Errorf("%w: longitude %f out of range", apperr.ErrValidation, longitude)
	}

	location := models.JobLocation{
		JobID:      jobID,
		Latitude:   latitude,
		Longitude:  longitude,
		Accuracy:   accuracy,
		RecordedBy: actorID,
	}
	if err := slf.evidence.CreateLocation(&location); err != nil {
		slf.logger.Error().Err(err).Uint("jobId", jobID).Msg("Error recording location")
		return nil, err
	}

	slf.logger.Info().Uint("jobId", jobID).Uint("recordedBy", actorID).Msg("Location recorded")
	return &location, nil
}

// ListImages lists the job's photos in insertion order.
func (slf *EvidenceService) ListImages(jobID uint) ([]models.JobImage, error) {
	if _, err := slf.loadJob(jobID); err != nil {
		return nil, err
	}
	return slf.evidence.ListImages(jobID)
}

// ListLocations lists the job's GPS fixes, most recent first.
func (slf *EvidenceService) ListLocations(jobID uint) ([]models.JobLocation, error) {
	if _, err := slf.loadJob(jobID); err != nil {
		return nil, err
	}
	return slf.evidence.ListLocations(jobID)
}

func (slf *EvidenceService) loadJob(jobID uint) (*models.Job, error) {
	job, err := slf.jobs.FindByID(jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: job %d", apperr.ErrNotFound, jobID)
		}
		slf.logger.Error().Err(err).Uint("jobId", jobID).Msg("Error loading job")
		return nil, err
	}
	return &job, nil
}
