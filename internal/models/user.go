package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq" // needed for pq.StringArray
	"gorm.io/gorm"
)

// Roles for back-office accounts. Admin and dev bypass permission checks;
// everything else is default-deny against the Permissions allow-list.
const (
	RoleAdmin = "admin"
	RoleDev   = "dev"
	RoleUser  = "user"
)

// User is a back-office account.
type User struct {
	ID string `gorm:"primaryKey" json:"id"` // UUID

	// AuthID is the identifier carried over from the previous hosted auth
	// provider. Empty for accounts created directly here.
	AuthID string `gorm:"index" json:"auth_id,omitempty"`

	Name         string `gorm:"not null" json:"nome"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"not null;default:user" json:"role"`

	// Permissions is the explicit allow-list of capability strings
	// ("mensagens:resolver", "portarias:deletar", ...). Ignored for
	// admin/dev roles.
	Permissions pq.StringArray `gorm:"type:text[]" json:"permissoes"`
}

// BeforeCreate is a GORM hook that assigns a UUID when none is set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
