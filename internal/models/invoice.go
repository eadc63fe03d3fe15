package models

import (
	"time"

	"github.com/diewo77/invoice-api/internal/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice status values as stored.
const (
	InvoiceStatusPending = "Pending"
	InvoiceStatusPaid    = "Paid"
)

// Invoice represents a billing invoice. Sender and recipient columns are snapshots
// taken when the invoice is written.
type Invoice struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// UserID is the owner of this invoice (for multi-tenant isolation)
	UserID string `gorm:"type:varchar(36);index;not null" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"-"`

	Description string `gorm:"size:200;not null" json:"description"`

	SenderName       string `gorm:"size:255;not null" json:"sender_name"`
	SenderEmail      string `gorm:"size:255;not null" json:"sender_email"`
	SenderStreet     string `gorm:"size:100" json:"sender_street"`
	SenderCity       string `gorm:"size:100" json:"sender_city"`
	SenderPostalCode string `gorm:"size:100" json:"sender_postal_code"`
	SenderCountry    string `gorm:"size:100" json:"sender_country"`

	RecipientName       string `gorm:"size:100;not null" json:"recipient_name"`
	RecipientEmail      string `gorm:"size:255;not null" json:"recipient_email"`
	RecipientStreet     string `gorm:"size:100" json:"recipient_street"`
	RecipientCity       string `gorm:"size:100" json:"recipient_city"`
	RecipientPostalCode string `gorm:"size:100" json:"recipient_postal_code"`
	RecipientCountry    string `gorm:"size:100" json:"recipient_country"`

	IssueDate    time.Time   `gorm:"not null" json:"issue_date"`
	PaymentTerms string      `gorm:"size:20;not null" json:"payment_terms"`
	PaymentDue   time.Time   `gorm:"not null" json:"payment_due"`
	TotalPayment money.Money `gorm:"type:decimal(12,2);not null" json:"total_payment"`
	Status       string      `gorm:"size:20;not null;default:'Pending';index" json:"status"`

	Items []Item `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// BeforeCreate assigns a UUID primary key.
func (i *Invoice) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Item represents a line item on an invoice.
type Item struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Parent invoice
	InvoiceID string `gorm:"type:varchar(36);index;not null" json:"invoice_id"`

	Name     string      `gorm:"size:100;not null" json:"name"`
	Quantity int         `gorm:"not null" json:"quantity"`
	Price    money.Money `gorm:"type:decimal(10,2);not null" json:"price"`
}

// BeforeCreate assigns a UUID primary key.
func (it *Item) BeforeCreate(_ *gorm.DB) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	return nil
}
