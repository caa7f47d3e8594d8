// Package surveys handles satisfaction survey submissions and the public
// testimonials feed.
package surveys

import (
	"errors"
	"math"
	"time"

	"pontotaxi/backend/internal/models"

	"go.uber.org/zap"
)

// ErrInvalidRating rejects stars outside 1..5.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Store is what the survey service needs from persistence.
type Store interface {
	SaveSurvey(s *models.SurveyResponse) error
	ListSurveysBetween(from, to time.Time) ([]models.SurveyResponse, error)
	ListTestimonials(limit int) ([]models.SurveyResponse, error)
	SurveyStats() (int64, float64, error)
	PublishEvent(ev models.Event) error
}

// Service handles survey submissions.
type Service struct {
	Store Store
	Log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Store: store, Log: log}
}

// SubmitInput is one survey form submission.
type SubmitInput struct {
	PassengerName    string
	Comment          string
	Consent          bool
	DriverConduct    int
	Cleanliness      int
	VehicleCondition int
	WaitTime         int
	Courtesy         int
}

// Submit validates the stars, computes the average once and stores the
// response. The stored average is the only authoritative rating; readers
// never recompute it.
func (s *Service) Submit(in SubmitInput) (*models.SurveyResponse, error) {
	stars := []int{in.DriverConduct, in.Cleanliness, in.VehicleCondition, in.WaitTime, in.Courtesy}
	sum := 0
	for _, v := range stars {
		if v < 1 || v > 5 {
			return nil, ErrInvalidRating
		}
		sum += v
	}
	avg := math.Round(float64(sum)/float64(len(stars))*10) / 10

	resp := &models.SurveyResponse{
		PassengerName:    in.PassengerName,
		Comment:          in.Comment,
		Consent:          in.Consent,
		DriverConduct:    in.DriverConduct,
		Cleanliness:      in.Cleanliness,
		VehicleCondition: in.VehicleCondition,
		WaitTime:         in.WaitTime,
		Courtesy:         in.Courtesy,
		Average:          avg,
	}
	if err := s.Store.SaveSurvey(resp); err != nil {
		return nil, err
	}

	if err := s.Store.PublishEvent(models.Event{
		Kind: models.EventSurveySubmitted,
		At:   time.Now(),
	}); err != nil {
		s.Log.Warn("live event publish failed", zap.Error(err))
	}

	s.Log.Info("survey stored", zap.Float64("average", avg))
	return resp, nil
}

// Testimonials returns the latest consented responses with comments.
func (s *Service) Testimonials(limit int) ([]models.SurveyResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.Store.ListTestimonials(limit)
}
