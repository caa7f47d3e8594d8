package models

import "gorm.io/gorm"

// SurveyResponse is one satisfaction survey submission. The per-category
// stars are 1..5; Average is computed once at submission and is the only
// authoritative rating field.
type SurveyResponse struct {
	gorm.Model

	PassengerName string `json:"nome"`
	Comment       string `gorm:"type:text" json:"comentario"`
	// Consent allows the comment to be published as a testimonial.
	Consent bool `gorm:"not null" json:"consentimento"`

	DriverConduct    int `gorm:"not null" json:"conduta_motorista"`
	Cleanliness      int `gorm:"not null" json:"limpeza"`
	VehicleCondition int `gorm:"not null" json:"conservacao"`
	WaitTime         int `gorm:"not null" json:"tempo_espera"`
	Courtesy         int `gorm:"not null" json:"cortesia"`

	Average float64 `gorm:"not null" json:"media"`
}

// TableName keeps the collection name the dashboard already reads.
func (SurveyResponse) TableName() string { return "pesquisa_satisfacao" }
