package repo

import (
	"api"
	"api/internal/api/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	Db *gorm.DB
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{Db: api.DB}
}

func (slf *NotificationRepository) Create(notification *models.Notification) error {
	return slf.Db.Create(notification).Error
}

func (slf *NotificationRepository) FindByID(id uint) (models.Notification, error) {
	var notification models.Notification
	err := slf.Db.First(&notification, id).Error
	return notification, err
}

// ListForUser retrieves a user's notifications, newest first.
func (slf *NotificationRepository) ListForUser(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := slf.Db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

func (slf *NotificationRepository) MarkRead(id uint) error {
	return slf.Db.Model(&models.Notification{}).Where("id = ?", id).Update("is_read", true).Error
}

func (slf *NotificationRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	err := slf.Db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
