package storage

import (
	"errors"

	"pontotaxi/backend/internal/models"

	"gorm.io/gorm"
)

// ErrSettingNotFound is returned for unknown configuration keys.
var ErrSettingNotFound = errors.New("setting not found")

// GetSetting loads one configuration entry.
func (s *Service) GetSetting(key string) (*models.Setting, error) {
	var setting models.Setting
	err := s.DB.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSettingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// PutSetting creates or replaces a configuration entry.
func (s *Service) PutSetting(setting *models.Setting) error {
	return s.DB.Save(setting).Error
}

// ListSettings returns every configuration entry.
func (s *Service) ListSettings() ([]models.Setting, error) {
	var out []models.Setting
	if err := s.DB.Order("key asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
