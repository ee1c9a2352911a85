package repo

import (
	"api"
	"api/internal/api/apperr"
	"api/internal/api/models"

	"gorm.io/gorm"
)

type JobRepository struct {
	Db *gorm.DB
}

func NewJobRepository() *JobRepository {
	return &JobRepository{Db: api.DB}
}

// FindByID retrieves a job by ID
func (slf *JobRepository) FindByID(id uint) (models.Job, error) {
	var job models.Job
	err := slf.Db.First(&job, id).Error
	return job, err
}

func (slf *JobRepository) Create(job *models.Job) error {
	return slf.Db.Create(job).Error
}

// Query retrieves jobs matching the filter, newest first.
func (slf *JobRepository) Query(filter models.JobFilter) ([]models.Job, error) {
	var jobs []models.Job

	q := slf.Db.Model(&models.Job{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		q = q.Where("priority = ?", *filter.Priority)
	}
	if filter.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.CreatedBy != nil {
		q = q.Where("created_by = ?", *filter.CreatedBy)
	}

	err := q.Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

// CompareAndSwapUpdate applies patch to the job only if its version still
// equals expectedVersion, bumping the version in the same statement. When a
// history row is supplied it is written in the same transaction, so a status
// change can never be observed without its audit row. Returns
// apperr.ErrConflict when an intervening write won the race.
func (slf *JobRepository) CompareAndSwapUpdate(jobID uint, expectedVersion uint, patch map[string]any, update *models.JobUpdate) error {
	return slf.Db.Transaction(func(tx *gorm.DB) error {
		patch["version"] = gorm.Expr("version + 1")

		res := tx.Model(&models.Job{}).
			Where("id = ? AND version = ?", jobID, expectedVersion).
			Updates(patch)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrConflict
		}

		if update != nil {
			if err := tx.Create(update).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (slf *JobRepository) Delete(id uint) error {
	return slf.Db.Delete(&models.Job{}, id).Error
}

// ListUpdates retrieves the audit trail for a job, newest first.
func (slf *JobRepository) ListUpdates(jobID uint) ([]models.JobUpdate, error) {
	var updates []models.JobUpdate
	err := slf.Db.Where("job_id = ?", jobID).Order("created_at DESC").Find(&updates).Error
	return updates, err
}
