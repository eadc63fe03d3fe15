// Package invoice holds the invoice derivation engine: item validation, exact totals,
// due-date derivation and identifier-based reconciliation of line items.
//
// Everything in this package is pure computation over values. Persistence, sessions
// and HTTP are handled by the callers in internal/store, auth and internal/handlers.
package invoice

import (
	"time"

	"github.com/diewo77/invoice-api/internal/money"
)

// Status of an invoice. Pending moves to Paid only; there is no way back.
type Status string

const (
	StatusPending Status = "Pending"
	StatusPaid    Status = "Paid"
)

// Item bounds, inclusive.
const (
	MinQuantity = 1
	MaxQuantity = 999
	MinPrice    = 1
	MaxPrice    = 99999
)

// Party is a sender or recipient snapshot. It is copied onto the invoice when written
// and does not follow later changes to the user's profile.
type Party struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// LineItem is one billable row. An empty ID means the item has not been persisted yet.
type LineItem struct {
	ID       string      `json:"id,omitempty"`
	Name     string      `json:"name"`
	Quantity int         `json:"quantity"`
	Price    money.Money `json:"price"`
}

// Amount is price × quantity.
func (li LineItem) Amount() money.Money {
	return li.Price.MulInt(li.Quantity)
}

// Header is the client-editable part of an invoice.
type Header struct {
	Sender       Party     `json:"sender"`
	Recipient    Party     `json:"recipient"`
	IssueDate    time.Time `json:"issueDate"`
	PaymentTerms string    `json:"paymentTerms"`
	Description  string    `json:"description"`
}

// Invoice is the full invoice state. TotalPayment and PaymentDue are always derived.
type Invoice struct {
	ID      string `json:"id,omitempty"`
	OwnerID string `json:"userId"`
	Header
	Status       Status      `json:"status"`
	TotalPayment money.Money `json:"totalPayment"`
	PaymentDue   time.Time   `json:"paymentDue"`
	Items        []LineItem  `json:"items"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// GetOwnerID implements policy.Ownable.
func (inv *Invoice) GetOwnerID() string { return inv.OwnerID }

// ItemIDs returns the identifiers of the persisted items in order.
func (inv *Invoice) ItemIDs() []string {
	ids := make([]string, 0, len(inv.Items))
	for _, it := range inv.Items {
		if it.ID != "" {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// Draft is the desired invoice state submitted by a client, before derivation.
// Sender name and email are ignored: they come from the caller's Identity.
type Draft struct {
	Header
	Items []LineItem
}

// Identity is the authenticated caller, supplied by the session layer.
type Identity struct {
	UserID string
	Name   string
	Email  string
}

// ItemOperationSet is the reconciliation result handed to the persistence layer.
// All three slices are non-nil.
type ItemOperationSet struct {
	ToCreate []LineItem `json:"toCreate"`
	ToUpdate []LineItem `json:"toUpdate"`
	ToDelete []string   `json:"toDelete"`
}

// Empty reports whether there is nothing to apply.
func (ops ItemOperationSet) Empty() bool {
	return len(ops.ToCreate) == 0 && len(ops.ToUpdate) == 0 && len(ops.ToDelete) == 0
}

// Edit is the derived state for an edit: the updated invoice (with the desired items)
// plus the item operations to apply atomically.
type Edit struct {
	Invoice Invoice
	Ops     ItemOperationSet
}

// Total is the left fold of price × quantity over items.
func Total(items []LineItem) money.Money {
	total := money.Zero
	for _, it := range items {
		total = total.Add(it.Amount())
	}
	return total
}

// MarkPaid moves inv to Paid. It reports false when the invoice was already paid.
func MarkPaid(inv *Invoice) bool {
	if inv.Status == StatusPaid {
		return false
	}
	inv.Status = StatusPaid
	return true
}
