package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Driver statuses reported over MQTT.
const (
	DriverActive   = "ativo"
	DriverInactive = "inativo"
)

// Driver is a fleet driver, keyed by the vehicle prefix painted on the car.
// Complaints reference drivers through the same prefix.
type Driver struct {
	gorm.Model

	Prefix   string    `gorm:"uniqueIndex;not null" json:"prefixo"`
	Name     string    `json:"nome"`
	Status   string    `gorm:"not null;default:ativo" json:"status"`
	LastSeen time.Time `json:"visto_em"`
}

func (Driver) TableName() string { return "motoristas" }

// Trip is one ride reported by the fleet. Payload keeps the raw MQTT event
// for fields the schema does not model.
type Trip struct {
	gorm.Model

	DriverPrefix string     `gorm:"not null;index" json:"prefixo"`
	StartedAt    time.Time  `gorm:"not null" json:"inicio"`
	EndedAt      *time.Time `json:"fim,omitempty"`

	Payload datatypes.JSON `gorm:"type:jsonb" json:"payload,omitempty"`
}

func (Trip) TableName() string { return "viagens" }
