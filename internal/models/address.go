package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is a postal address owned by a user (address book / default sender).
type Address struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	UserID     string    `gorm:"type:varchar(36);index;not null" json:"user_id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Email      string    `gorm:"size:255" json:"email,omitempty"`
	Street     string    `gorm:"size:100" json:"street,omitempty"`
	City       string    `gorm:"size:100" json:"city,omitempty"`
	PostalCode string    `gorm:"size:100" json:"postal_code,omitempty"`
	Country    string    `gorm:"size:100" json:"country,omitempty"`
}

// BeforeCreate assigns a UUID primary key.
func (a *Address) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// FullAddress returns the address as printed on an invoice, one line per part.
func (a *Address) FullAddress() string {
	var parts []string
	if a.Street != "" {
		parts = append(parts, a.Street)
	}
	cityLine := strings.TrimSpace(a.PostalCode + " " + a.City)
	if cityLine != "" {
		parts = append(parts, cityLine)
	}
	if a.Country != "" {
		parts = append(parts, a.Country)
	}
	return strings.Join(parts, "\n")
}
