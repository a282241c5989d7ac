package repository

import (
	"errors"

	"github.com/kmazurek/ticket-system-api/internal/models"
	"gorm.io/gorm"
)

// ErrUserProtected is returned when deleting a user that is still referenced
// as creator or assignee of a ticket.
var ErrUserProtected = errors.New("user repository: user is referenced by tickets")

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List lists all users
func (r *GormUserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete removes a user inside a single transaction. The delete is rejected
// while any ticket references the user; authored comments survive with a
// nulled author reference.
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var referenced int64
		if err := tx.Model(&models.Ticket{}).
			Where("created_by_id = ? OR assigned_to_id = ?", id, id).
			Count(&referenced).Error; err != nil {
			return err
		}
		if referenced > 0 {
			return ErrUserProtected
		}

		if err := tx.Model(&models.Comment{}).
			Where("author_id = ?", id).
			Update("author_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}
