package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an authenticated user in the system.
type User struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string    `gorm:"size:255" json:"name,omitempty"`
	Password  string    `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
	// DefaultAddressID points at the address used to prefill the sender block of new invoices.
	DefaultAddressID *string  `gorm:"type:varchar(36)" json:"default_address_id,omitempty"`
	DefaultAddress   *Address `gorm:"foreignKey:DefaultAddressID" json:"default_address,omitempty"`
}

// BeforeCreate assigns a UUID primary key.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
