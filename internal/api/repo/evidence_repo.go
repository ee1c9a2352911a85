package repo

import (
	"api"
	"api/internal/api/models"

	"gorm.io/gorm"
)

type EvidenceRepository struct {
	Db *gorm.DB
}

func NewEvidenceRepository() *EvidenceRepository {
	return &EvidenceRepository{Db: api.DB}
}

func (slf *EvidenceRepository) CreateImage(image *models.JobImage) error {
	return slf.Db.Create(image).Error
}

func (slf *EvidenceRepository) CreateLocation(location *models.JobLocation) error {
	return slf.Db.Create(location).Error
}

// ListImages retrieves a job's images in insertion order.
func (slf *EvidenceRepository) ListImages(jobID uint) ([]models.JobImage, error) {
	var images []models.JobImage
	err := slf.Db.Where("job_id = ?", jobID).Order("id ASC").Find(&images).Error
	return images, err
}

// ListLocations retrieves a job's GPS fixes, most recent first.
func (slf *EvidenceRepository) ListLocations(jobID uint) ([]models.JobLocation, error) {
	var locations []models.JobLocation
	err := slf.Db.Where("job_id = ?", jobID).Order("recorded_at DESC").Find(&locations).Error
	return locations, err
}

// CountByJob counts every evidence row referencing the job, images and GPS
// fixes combined. Used to refuse deleting a job that still has evidence.
func (slf *EvidenceRepository) CountByJob(jobID uint) (int64, error) {
	var images, locations int64
	if err := slf.Db.Model(&models.JobImage{}).Where("job_id = ?", jobID).Count(&images).Error; err != nil {
		return 0, err
	}
	if err := slf.Db.Model(&models.JobLocation{}).Where("job_id = ?", jobID).Count(&locations).Error; err != nil {
		return 0, err
	}
	return images + locations, nil
}
