package repo

import (
	"api"
	"api/internal/api/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	Db *gorm.DB
}

func NewUserRepository() *UserRepository {
	return &UserRepository{Db: api.DB}
}

func (slf *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := slf.Db.Where("email = ?", email).First(&user).Error
	return user, err
}

func (slf *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := slf.Db.First(&user, id).Error
	return user, err
}

func (slf *UserRepository) Create(user *models.User) error {
	return slf.Db.Create(user).Error
}

func (slf *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := slf.Db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// FindAdmins retrieves all active administrators.
func (slf *UserRepository) FindAdmins() ([]models.User, error) {
	var users []models.User
	err := slf.Db.Where("role = ? AND is_active = ?", models.RoleAdmin, true).Find(&users).Error
	return users, err
}

// FindActiveStaff retrieves the assignable staff list.
func (slf *UserRepository) FindActiveStaff() ([]models.User, error) {
	var users []models.User
	err := slf.Db.Where("role = ? AND is_active = ?", models.RoleStaff, true).Find(&users).Error
	return users, err
}
