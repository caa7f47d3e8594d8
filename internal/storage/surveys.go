package storage

import (
	"time"

	"pontotaxi/backend/internal/models"
)

// SaveSurvey stores one satisfaction survey response.
func (s *Service) SaveSurvey(resp *models.SurveyResponse) error {
	return s.DB.Create(resp).Error
}

// ListSurveysBetween returns survey responses created inside [from, to),
// oldest first.
func (s *Service) ListSurveysBetween(from, to time.Time) ([]models.SurveyResponse, error) {
	var out []models.SurveyResponse
	err := s.DB.Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at asc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListTestimonials returns the latest consented responses that carry a
// comment, for the public testimonials section.
func (s *Service) ListTestimonials(limit int) ([]models.SurveyResponse, error) {
	var out []models.SurveyResponse
	err := s.DB.Where("consent = ? AND comment <> ''", true).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SurveyStats returns the total response count and the overall average of
// the stored per-response averages. An empty table yields (0, 0).
func (s *Service) SurveyStats() (int64, float64, error) {
	var stats struct {
		N   int64
		Avg *float64
	}
	err := s.DB.Model(&models.SurveyResponse{}).
		Select("COUNT(*) AS n, AVG(average) AS avg").
		Scan(&stats).Error
	if err != nil {
		return 0, 0, err
	}
	if stats.Avg == nil {
		return stats.N, 0, nil
	}
	return stats.N, *stats.Avg, nil
}
