package storage

import (
	"errors"

	"pontotaxi/backend/internal/models"

	"gorm.io/gorm"
)

// ErrUserNotFound is returned for lookups of unknown accounts.
var ErrUserNotFound = errors.New("user not found")

// SaveUser creates or updates a back-office account.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// GetUserByID loads an account by its UUID.
func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail loads an account by email. Used by login.
func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every account, oldest first.
func (s *Service) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.DB.Order("email asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser removes an account.
func (s *Service) DeleteUser(id string) error {
	res := s.DB.Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
