package models

import (
	"time"

	"gorm.io/datatypes"
)

// Setting is one back-office configuration entry (site texts, contact
// numbers, feature switches). Values are free-form JSON.
type Setting struct {
	Key       string         `gorm:"primaryKey" json:"chave"`
	Value     datatypes.JSON `gorm:"type:jsonb" json:"valor"`
	UpdatedAt time.Time      `json:"atualizada_em"`
	UpdatedBy string         `json:"atualizada_por"`
}

func (Setting) TableName() string { return "configuracoes" }
