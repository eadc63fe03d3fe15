// Package services composes persistence with the invoice derivation engine.
package services

import (
	"context"
	"errors"

	"github.com/diewo77/invoice-api/internal/gate"
	"github.com/diewo77/invoice-api/internal/invoice"
	"github.com/diewo77/invoice-api/internal/logger"
	"github.com/diewo77/invoice-api/internal/money"
	"github.com/diewo77/invoice-api/internal/policy"
	"github.com/diewo77/invoice-api/internal/store"
	"github.com/rs/zerolog"
)

// InvoiceStore is the persistence the service needs. *store.InvoiceStore implements it.
type InvoiceStore interface {
	FindInvoiceWithItems(ctx context.Context, id, owner string) (*invoice.Invoice, error)
	CreateInvoice(ctx context.Context, inv *invoice.Invoice) (*invoice.Invoice, error)
	ApplyInvoiceEdit(ctx context.Context, id string, inv *invoice.Invoice, ops invoice.ItemOperationSet) (*invoice.Invoice, error)
	SetStatus(ctx context.Context, id string, status invoice.Status) error
	DeleteInvoice(ctx context.Context, id string) error
	ListInvoices(ctx context.Context, owner string, f store.ListFilter) ([]invoice.Invoice, int64, error)
	PaidTotals(ctx context.Context, owner string) ([]money.Money, error)
}

// Summary is the paid revenue of one user.
type Summary struct {
	Revenue      money.Money `json:"revenue"`
	PaidInvoices int         `json:"paidInvoices"`
}

type InvoiceService struct {
	store InvoiceStore
	gate  *gate.Gate[string]
	log   zerolog.Logger
}

func NewInvoiceService(st InvoiceStore, log zerolog.Logger) *InvoiceService {
	return &InvoiceService{
		store: st,
		gate:  policy.NewInvoiceGate(),
		log:   logger.WithComponent(log, "invoices"),
	}
}

// load fetches invoice id and checks that who may perform action on it.
// Invoices owned by someone else are reported as not found.
func (s *InvoiceService) load(ctx context.Context, who invoice.Identity, id string, action gate.Action) (*invoice.Invoice, error) {
	inv, err := s.store.FindInvoiceWithItems(ctx, id, "")
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(ctx, who.UserID, action, policy.ResourceInvoice, inv); err != nil {
		s.log.Warn().Str("invoice_id", id).Str("user_id", who.UserID).Str("action", string(action)).Msg("invoice access denied")
		return nil, &invoice.NotFoundError{ID: id}
	}
	return inv, nil
}

// Create derives a new Pending invoice for who and stores it.
func (s *InvoiceService) Create(ctx context.Context, who invoice.Identity, d invoice.Draft) (*invoice.Invoice, error) {
	if err := s.gate.Authorize(ctx, who.UserID, gate.ActionCreate, policy.ResourceInvoice, nil); err != nil {
		return nil, invoice.ErrMissingIdentity
	}
	inv, err := invoice.DeriveCreate(d, who)
	if err != nil {
		return nil, err
	}
	created, err := s.store.CreateInvoice(ctx, inv)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("invoice_id", created.ID).Str("user_id", who.UserID).
		Stringer("total", created.TotalPayment).Int("items", len(created.Items)).Msg("invoice created")
	return created, nil
}

// maxEditAttempts bounds how often Edit re-reads an invoice whose items changed
// while the edit was being applied.
const maxEditAttempts = 3

// Edit replaces the header and items of invoice id with d. Items are reconciled by ID
// and the whole change is applied atomically. When the stored items change between
// reading and writing, the edit is derived again from a fresh read.
func (s *InvoiceService) Edit(ctx context.Context, who invoice.Identity, id string, d invoice.Draft) (*invoice.Invoice, error) {
	for attempt := 1; ; attempt++ {
		persisted, err := s.load(ctx, who, id, gate.ActionUpdate)
		if err != nil {
			return nil, err
		}
		edit, err := invoice.DeriveEdit(id, d, persisted)
		if err != nil {
			return nil, err
		}
		updated, err := s.store.ApplyInvoiceEdit(ctx, id, &edit.Invoice, edit.Ops)
		if errors.Is(err, invoice.ErrEditConflict) && attempt < maxEditAttempts {
			s.log.Warn().Str("invoice_id", id).Int("attempt", attempt).Msg("invoice items changed during edit, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}
		s.log.Info().Str("invoice_id", id).
			Int("created", len(edit.Ops.ToCreate)).Int("updated", len(edit.Ops.ToUpdate)).Int("deleted", len(edit.Ops.ToDelete)).
			Stringer("total", updated.TotalPayment).Msg("invoice edited")
		return updated, nil
	}
}

// MarkPaid moves invoice id to Paid. Paying a paid invoice is a no-op.
func (s *InvoiceService) MarkPaid(ctx context.Context, who invoice.Identity, id string) (*invoice.Invoice, error) {
	inv, err := s.load(ctx, who, id, gate.ActionPay)
	if err != nil {
		return nil, err
	}
	if !invoice.MarkPaid(inv) {
		return inv, nil
	}
	if err := s.store.SetStatus(ctx, id, inv.Status); err != nil {
		return nil, err
	}
	s.log.Info().Str("invoice_id", id).Msg("invoice marked as paid")
	return inv, nil
}

// Delete removes invoice id and returns its last state.
func (s *InvoiceService) Delete(ctx context.Context, who invoice.Identity, id string) (*invoice.Invoice, error) {
	inv, err := s.load(ctx, who, id, gate.ActionDelete)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteInvoice(ctx, id); err != nil {
		return nil, err
	}
	s.log.Info().Str("invoice_id", id).Msg("invoice deleted")
	return inv, nil
}

func (s *InvoiceService) Get(ctx context.Context, who invoice.Identity, id string) (*invoice.Invoice, error) {
	return s.load(ctx, who, id, gate.ActionView)
}

// List returns one page of who's invoices and the number of matching invoices.
func (s *InvoiceService) List(ctx context.Context, who invoice.Identity, f store.ListFilter) ([]invoice.Invoice, int64, error) {
	if err := s.gate.Authorize(ctx, who.UserID, gate.ActionList, policy.ResourceInvoice, nil); err != nil {
		return nil, 0, invoice.ErrMissingIdentity
	}
	return s.store.ListInvoices(ctx, who.UserID, f)
}

// Revenue sums the totals of who's paid invoices.
func (s *InvoiceService) Revenue(ctx context.Context, who invoice.Identity) (Summary, error) {
	if err := s.gate.Authorize(ctx, who.UserID, gate.ActionList, policy.ResourceInvoice, nil); err != nil {
		return Summary{}, invoice.ErrMissingIdentity
	}
	totals, err := s.store.PaidTotals(ctx, who.UserID)
	if err != nil {
		return Summary{}, err
	}
	sum := money.Zero
	for _, t := range totals {
		sum = sum.Add(t)
	}
	return Summary{Revenue: sum, PaidInvoices: len(totals)}, nil
}
