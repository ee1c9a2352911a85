package mapper

import (
	"api/internal/api/handler/response"
	"api/internal/api/models"
)

func ToJobResponse(j models.Job) response.Job {
	return response.Job{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		Priority:    j.Priority,
		Status:      j.Status,
		CreatedBy:   j.CreatedBy,
		AssignedTo:  j.AssignedTo,
		Deadline:    j.Deadline,
		CompletedAt: j.CompletedAt,
		Version:     j.Version,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

func ToJobResponses(entities []models.Job) []response.Job {
	out := make([]response.Job, len(entities))
	for i, j := range entities {
		out[i] = ToJobResponse(j)
	}
	return out
}

func ToJobDetail(j models.Job, images []models.JobImage, locations []models.JobLocation, updates []models.JobUpdate) response.JobDetail {
	detail := response.JobDetail{
		Job:       ToJobResponse(j),
		Images:    make([]response.JobImage, len(images)),
		Locations: make([]response.JobLocation, len(locations)),
		Updates:   make([]response.JobUpdate, len(updates)),
	}
	for i, img := range images {
		detail.Images[i] = ToImageResponse(img)
	}
	for i, loc := range locations {
		detail.Locations[i] = ToLocationResponse(loc)
	}
	for i, u := range updates {
		detail.Updates[i] = response.JobUpdate{
			ID:        u.ID,
			UpdatedBy: u.UpdatedBy,
			OldStatus: u.OldStatus,
			NewStatus: u.NewStatus,
			Message:   u.Message,
			CreatedAt: u.CreatedAt,
		}
	}
	return detail
}

func ToImageResponse(img models.JobImage) response.JobImage {
	return response.JobImage{
		ID:         img.ID,
		ImageURL:   img.ImageURL,
		ImageType:  img.ImageType,
		UploadedBy: img.UploadedBy,
		CreatedAt:  img.CreatedAt,
	}
}

func ToLocationResponse(loc models.JobLocation) response.JobLocation {
	return response.JobLocation{
		ID:         loc.ID,
		Latitude:   loc.Latitude,
		Longitude:  loc.Longitude,
		Accuracy:   loc.Accuracy,
		RecordedBy: loc.RecordedBy,
		RecordedAt: loc.RecordedAt,
	}
}

func ToNotificationResponse(n models.Notification) response.Notification {
	return response.Notification{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		JobID:     n.JobID,
		CreatedAt: n.CreatedAt,
	}
}

func ToNotificationResponses(entities []models.Notification) []response.Notification {
	out := make([]response.Notification, len(entities))
	for i, n := range entities {
		out[i] = ToNotificationResponse(n)
	}
	return out
}
