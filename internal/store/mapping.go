package store

import (
	"github.com/diewo77/invoice-api/internal/invoice"
	"github.com/diewo77/invoice-api/internal/models"
)

func toDomain(m *models.Invoice) *invoice.Invoice {
	items := make([]invoice.LineItem, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, invoice.LineItem{ID: it.ID, Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}
	return &invoice.Invoice{
		ID:      m.ID,
		OwnerID: m.UserID,
		Header: invoice.Header{
			Sender: invoice.Party{
				Name:       m.SenderName,
				Email:      m.SenderEmail,
				Street:     m.SenderStreet,
				City:       m.SenderCity,
				PostalCode: m.SenderPostalCode,
				Country:    m.SenderCountry,
			},
			Recipient: invoice.Party{
				Name:       m.RecipientName,
				Email:      m.RecipientEmail,
				Street:     m.RecipientStreet,
				City:       m.RecipientCity,
				PostalCode: m.RecipientPostalCode,
				Country:    m.RecipientCountry,
			},
			IssueDate:    m.IssueDate,
			PaymentTerms: m.PaymentTerms,
			Description:  m.Description,
		},
		Status:       invoice.Status(m.Status),
		TotalPayment: m.TotalPayment,
		PaymentDue:   m.PaymentDue,
		Items:        items,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromDomain(inv *invoice.Invoice) *models.Invoice {
	items := make([]models.Item, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, models.Item{ID: it.ID, InvoiceID: inv.ID, Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}
	return &models.Invoice{
		ID:                  inv.ID,
		UserID:              inv.OwnerID,
		Description:         inv.Description,
		SenderName:          inv.Sender.Name,
		SenderEmail:         inv.Sender.Email,
		SenderStreet:        inv.Sender.Street,
		SenderCity:          inv.Sender.City,
		SenderPostalCode:    inv.Sender.PostalCode,
		SenderCountry:       inv.Sender.Country,
		RecipientName:       inv.Recipient.Name,
		RecipientEmail:      inv.Recipient.Email,
		RecipientStreet:     inv.Recipient.Street,
		RecipientCity:       inv.Recipient.City,
		RecipientPostalCode: inv.Recipient.PostalCode,
		RecipientCountry:    inv.Recipient.Country,
		IssueDate:           inv.IssueDate,
		PaymentTerms:        inv.PaymentTerms,
		PaymentDue:          inv.PaymentDue,
		TotalPayment:        inv.TotalPayment,
		Status:              string(inv.Status),
		Items:               items,
	}
}

// headerColumns lists the invoice columns rewritten by an edit. Status is not one
// of them: only SetStatus moves an invoice to Paid.
func headerColumns(inv *invoice.Invoice) map[string]any {
	return map[string]any{
		"description":           inv.Description,
		"sender_name":           inv.Sender.Name,
		"sender_email":          inv.Sender.Email,
		"sender_street":         inv.Sender.Street,
		"sender_city":           inv.Sender.City,
		"sender_postal_code":    inv.Sender.PostalCode,
		"sender_country":        inv.Sender.Country,
		"recipient_name":        inv.Recipient.Name,
		"recipient_email":       inv.Recipient.Email,
		"recipient_street":      inv.Recipient.Street,
		"recipient_city":        inv.Recipient.City,
		"recipient_postal_code": inv.Recipient.PostalCode,
		"recipient_country":     inv.Recipient.Country,
		"issue_date":            inv.IssueDate,
		"payment_terms":         inv.PaymentTerms,
		"payment_due":           inv.PaymentDue,
		"total_payment":         inv.TotalPayment,
	}
}
