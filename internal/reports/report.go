// Package reports builds the periodic satisfaction/complaint reports the
// back office downloads as spreadsheets.
package reports

import (
	"time"

	"pontotaxi/backend/internal/models"

	"go.uber.org/zap"
)

// Store is what report generation needs from persistence.
type Store interface {
	ListSurveysBetween(from, to time.Time) ([]models.SurveyResponse, error)
	ListMessagesBetween(messageType string, from, to time.Time) ([]models.Message, error)
}

// CategoryAverages holds the per-category survey means for a period.
type CategoryAverages struct {
	DriverConduct    float64 `json:"conduta_motorista"`
	Cleanliness      float64 `json:"limpeza"`
	VehicleCondition float64 `json:"conservacao"`
	WaitTime         float64 `json:"tempo_espera"`
	Courtesy         float64 `json:"cortesia"`
}

// Summary is the computed content of one report. Every percentage is
// computed against the filtered totals and is 0 when the period is empty;
// an empty period must render "0%", never NaN.
type Summary struct {
	From time.Time `json:"de"`
	To   time.Time `json:"ate"`

	SurveyCount   int64            `json:"pesquisas"`
	SurveyAverage float64          `json:"media_geral"`
	Categories    CategoryAverages `json:"medias_por_categoria"`

	ComplaintCount    int64   `json:"reclamacoes"`
	ComplaintResolved int64   `json:"reclamacoes_resolvidas"`
	ComplaintPending  int64   `json:"reclamacoes_pendentes"`
	ResolvedPercent   float64 `json:"percentual_resolvidas"`
}

// Service generates reports.
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

// Generate fetches the period's surveys and complaints and computes the
// summary.
func (s *Service) Generate(from, to time.Time) (Summary, error) {
	surveys, err := s.Store.ListSurveysBetween(from, to)
	if err != nil {
		return Summary{}, err
	}
	complaints, err := s.Store.ListMessagesBetween(models.TypeComplaint, from, to)
	if err != nil {
		return Summary{}, err
	}
	return Build(surveys, complaints, from, to), nil
}

// Build reduces already-fetched records into a summary. Pure; tested
// directly.
func Build(surveys []models.SurveyResponse, complaints []models.Message, from, to time.Time) Summary {
	sum := Summary{From: from, To: to, SurveyCount: int64(len(surveys))}

	var total, conduct, clean, cond, wait, courtesy float64
	for _, r := range surveys {
		total += r.Average
		conduct += float64(r.DriverConduct)
		clean += float64(r.Cleanliness)
		cond += float64(r.VehicleCondition)
		wait += float64(r.WaitTime)
		courtesy += float64(r.Courtesy)
	}
	if n := float64(len(surveys)); n > 0 {
		sum.SurveyAverage = total / n
		sum.Categories = CategoryAverages{
			DriverConduct:    conduct / n,
			Cleanliness:      clean / n,
			VehicleCondition: cond / n,
			WaitTime:         wait / n,
			Courtesy:         courtesy / n,
		}
	}

	sum.ComplaintCount = int64(len(complaints))
	for _, c := range complaints {
		switch c.Status {
		case models.StatusResolved:
			sum.ComplaintResolved++
		case models.StatusPending:
			sum.ComplaintPending++
		}
	}
	sum.ResolvedPercent = percent(sum.ComplaintResolved, sum.ComplaintCount)

	return sum
}

// percent guards the division: an empty total is 0%, not NaN.
func percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
