package policy

import (
	"context"

	"github.com/diewo77/invoice-api/internal/gate"
)

// ResourceInvoice is the gate resource type for invoices.
const ResourceInvoice = "invoice"

// Ownable is implemented by resources that belong to a single user.
type Ownable interface {
	GetOwnerID() string
}

// OwnershipPolicy allows a user to act only on resources they own.
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

// Can returns true for nil resources (list, create): those are scoped by the
// caller's own ID. Resources that are not Ownable are denied.
func (p *OwnershipPolicy) Can(_ context.Context, userID string, _ gate.Action, resource any) bool {
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		return false
	}
	return userID != "" && ownable.GetOwnerID() == userID
}

// NewInvoiceGate returns a gate with the ownership policy registered for invoices.
func NewInvoiceGate() *gate.Gate[string] {
	g := gate.NewGate[string]()
	g.Register(ResourceInvoice, NewOwnershipPolicy())
	return g
}
