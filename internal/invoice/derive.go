package invoice

import (
	"github.com/diewo77/invoice-api/internal/terms"
)

// DeriveCreate builds a new Pending invoice from d for the caller id.
//
// The sender name and email are stamped from id; the client cannot choose them.
// Items are validated before anything is computed, then the total and the due date
// are derived. Submitted item IDs are dropped: every item is new.
func DeriveCreate(d Draft, id Identity) (*Invoice, error) {
	if err := checkIdentity(id); err != nil {
		return nil, err
	}
	if err := ValidateItems(d.Items); err != nil {
		return nil, err
	}
	total := Total(d.Items)
	due, err := terms.DueDate(d.IssueDate, d.PaymentTerms)
	if err != nil {
		return nil, err
	}

	hdr := d.Header
	hdr.Sender.Name = id.Name
	hdr.Sender.Email = id.Email

	items := make([]LineItem, len(d.Items))
	for i, it := range d.Items {
		it.ID = ""
		items[i] = it
	}
	return &Invoice{
		OwnerID:      id.UserID,
		Header:       hdr,
		Status:       StatusPending,
		TotalPayment: total,
		PaymentDue:   due,
		Items:        items,
	}, nil
}

// DeriveEdit computes the new state of persisted from d and the item operations needed
// to get there. Total and due date are recomputed from scratch over the desired items
// and the edit's own issue date. Status, owner and the sender name/email snapshot are
// carried over from persisted.
func DeriveEdit(invoiceID string, d Draft, persisted *Invoice) (*Edit, error) {
	if persisted == nil {
		return nil, &NotFoundError{ID: invoiceID}
	}
	if err := ValidateItems(d.Items); err != nil {
		return nil, err
	}
	if err := checkDuplicateIDs(d.Items); err != nil {
		return nil, err
	}
	total := Total(d.Items)
	due, err := terms.DueDate(d.IssueDate, d.PaymentTerms)
	if err != nil {
		return nil, err
	}

	ops := Reconcile(d.Items, persisted.ItemIDs())

	hdr := d.Header
	hdr.Sender.Name = persisted.Sender.Name
	hdr.Sender.Email = persisted.Sender.Email

	items := make([]LineItem, 0, len(ops.ToUpdate)+len(ops.ToCreate))
	items = append(items, ops.ToUpdate...)
	items = append(items, ops.ToCreate...)

	return &Edit{
		Invoice: Invoice{
			ID:           invoiceID,
			OwnerID:      persisted.OwnerID,
			Header:       hdr,
			Status:       persisted.Status,
			TotalPayment: total,
			PaymentDue:   due,
			Items:        items,
			CreatedAt:    persisted.CreatedAt,
			UpdatedAt:    persisted.UpdatedAt,
		},
		Ops: ops,
	}, nil
}
