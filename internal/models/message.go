package models

import "gorm.io/gorm"

// Message types as declared by the public contact form. The type decides the
// collection a message lives in and the prefix of its protocol.
const (
	TypeComplaint   = "reclamacao"
	TypePraise      = "elogio"
	TypeQuestion    = "duvida"
	TypeSuggestion  = "sugestao"
	TypeInformation = "informacao"
)

// Message lifecycle statuses.
const (
	StatusPending  = "pending"
	StatusResolved = "resolved"
	StatusArchived = "archived"
)

// History actions recorded on status changes.
const (
	ActionCreated    = "Mensagem criada"
	ActionResolved   = "Mensagem resolvida"
	ActionArchived   = "Mensagem arquivada"
	ActionUnarchived = "Mensagem desarquivada"
	ActionResponded  = "Resposta enviada"
)

// Message is a submission from the public contact form. It has no static
// table: the storage layer routes it to the collection of its type
// (reclamacoes, elogios, ...) and, on archive, to the matching
// *_arquivadas table. The protocol is the stable identity across that move.
type Message struct {
	gorm.Model

	// Protocol is the human-readable ticket id, e.g. "REC-00001-2026".
	// Unique within (type, year) and never reassigned.
	Protocol string `gorm:"uniqueIndex;not null" json:"protocolo"`
	// Type is the declared message type (see Type* constants).
	Type string `gorm:"not null;index" json:"tipo"`

	Name          string `gorm:"not null" json:"nome"`
	Email         string `json:"email"`
	Phone         string `json:"telefone"`
	VehiclePrefix string `json:"prefixo_veiculo,omitempty"`
	Subject       string `json:"assunto"`
	Body          string `gorm:"type:text;not null" json:"mensagem"`
	Consent       bool   `gorm:"not null" json:"consentimento"`

	Status string `gorm:"not null;default:pending;index" json:"status"`

	// ArchivedAt is set only while the message sits in an archival
	// collection; unarchiving clears it.
	ArchivedAt *int64 `json:"arquivada_em,omitempty"`
}

// HistoryEntry is one immutable audit record for a message. Entries are keyed
// by protocol rather than row id so the trail survives the archive move.
type HistoryEntry struct {
	gorm.Model

	Protocol string `gorm:"not null;index" json:"protocolo"`
	Action   string `gorm:"not null" json:"acao"`
	Actor    string `gorm:"not null" json:"autor"`
	Note     string `gorm:"type:text" json:"observacao,omitempty"`
}

// MessageResponse is a staff reply sent for a message.
type MessageResponse struct {
	gorm.Model

	Protocol string `gorm:"not null;index" json:"protocolo"`
	Author   string `gorm:"not null" json:"autor"`
	Body     string `gorm:"type:text;not null" json:"resposta"`
}

// TableName keeps the collection name the back office already uses.
func (MessageResponse) TableName() string { return "message_responses" }

// ProtocolCounter backs protocol generation: one row per (type, year),
// incremented transactionally so concurrent submissions cannot collide.
type ProtocolCounter struct {
	ID          uint   `gorm:"primaryKey"`
	MessageType string `gorm:"not null;uniqueIndex:idx_counter_type_year,priority:1"`
	Year        int    `gorm:"not null;uniqueIndex:idx_counter_type_year,priority:2"`
	Seq         int64  `gorm:"not null;default:0"`
}
