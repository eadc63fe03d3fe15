// Package store persists invoices with gorm. Every multi-row write runs in a single
// transaction so an invoice's items never disagree with its stored total.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/invoice-api/internal/invoice"
	"github.com/diewo77/invoice-api/internal/models"
	"github.com/diewo77/invoice-api/internal/money"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PersistenceError wraps a storage failure. Callers do not interpret Err.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// wrap leaves domain errors alone and marks everything else as a persistence failure.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, invoice.ErrNotFound) || errors.Is(err, invoice.ErrEditConflict) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// ListFilter narrows ListInvoices. A zero Limit means no limit.
type ListFilter struct {
	Status invoice.Status
	Limit  int
	Offset int
}

type InvoiceStore struct {
	db *gorm.DB
}

func NewInvoiceStore(db *gorm.DB) *InvoiceStore {
	return &InvoiceStore{db: db}
}

// FindInvoiceWithItems loads an invoice and its items. A non-empty owner restricts
// the lookup to that user's invoices.
func (s *InvoiceStore) FindInvoiceWithItems(ctx context.Context, id, owner string) (*invoice.Invoice, error) {
	q := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Where("id = ?", id)
	if owner != "" {
		q = q.Where("user_id = ?", owner)
	}
	var m models.Invoice
	if err := q.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &invoice.NotFoundError{ID: id}
		}
		return nil, wrap("find invoice", err)
	}
	return toDomain(&m), nil
}

// CreateInvoice inserts the invoice and its items.
func (s *InvoiceStore) CreateInvoice(ctx context.Context, inv *invoice.Invoice) (*invoice.Invoice, error) {
	m := fromDomain(inv)
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, wrap("create invoice", err)
	}
	return toDomain(m), nil
}

// ApplyInvoiceEdit rewrites the header of invoice id and applies ops, all or nothing.
//
// ops must have been reconciled against the items the invoice still has: when an
// item was added or removed since the invoice was read, nothing is written and
// invoice.ErrEditConflict is returned. The invoice row is locked on postgres so a
// concurrent edit or payment waits for the transaction.
func (s *InvoiceStore) ApplyInvoiceEdit(ctx context.Context, id string, inv *invoice.Invoice, ops invoice.ItemOperationSet) (*invoice.Invoice, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Invoice
		if err := forUpdate(tx).Select("id").Where("id = ?", id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &invoice.NotFoundError{ID: id}
			}
			return err
		}
		var current []string
		if err := tx.Model(&models.Item{}).Where("invoice_id = ?", id).Pluck("id", &current).Error; err != nil {
			return err
		}
		if !reconciledAgainst(ops, current) {
			return invoice.ErrEditConflict
		}

		if err := tx.Model(&models.Invoice{}).Where("id = ?", id).Updates(headerColumns(inv)).Error; err != nil {
			return err
		}
		if len(ops.ToDelete) > 0 {
			if err := tx.Where("invoice_id = ? AND id IN ?", id, ops.ToDelete).Delete(&models.Item{}).Error; err != nil {
				return err
			}
		}
		for _, it := range ops.ToUpdate {
			res := tx.Model(&models.Item{}).
				Where("id = ? AND invoice_id = ?", it.ID, id).
				Updates(map[string]any{"name": it.Name, "quantity": it.Quantity, "price": it.Price})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return invoice.ErrEditConflict
			}
		}
		if len(ops.ToCreate) > 0 {
			items := make([]models.Item, 0, len(ops.ToCreate))
			for _, it := range ops.ToCreate {
				items = append(items, models.Item{InvoiceID: id, Name: it.Name, Quantity: it.Quantity, Price: it.Price})
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrap("apply invoice edit", err)
	}
	return s.FindInvoiceWithItems(ctx, id, "")
}

// forUpdate adds a row lock where the dialect supports one.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	return tx
}

// reconciledAgainst reports whether the update and delete sets of ops cover exactly
// the persisted item ids.
func reconciledAgainst(ops invoice.ItemOperationSet, persisted []string) bool {
	if len(ops.ToUpdate)+len(ops.ToDelete) != len(persisted) {
		return false
	}
	have := make(map[string]struct{}, len(persisted))
	for _, id := range persisted {
		have[id] = struct{}{}
	}
	for _, it := range ops.ToUpdate {
		if _, ok := have[it.ID]; !ok {
			return false
		}
		delete(have, it.ID)
	}
	for _, id := range ops.ToDelete {
		if _, ok := have[id]; !ok {
			return false
		}
		delete(have, id)
	}
	return len(have) == 0
}

// SetStatus overwrites the status of invoice id.
func (s *InvoiceStore) SetStatus(ctx context.Context, id string, status invoice.Status) error {
	res := s.db.WithContext(ctx).Model(&models.Invoice{}).Where("id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return wrap("set status", res.Error)
	}
	if res.RowsAffected == 0 {
		return &invoice.NotFoundError{ID: id}
	}
	return nil
}

// DeleteInvoice removes the invoice and its items.
func (s *InvoiceStore) DeleteInvoice(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Invoice{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &invoice.NotFoundError{ID: id}
		}
		return nil
	})
	return wrap("delete invoice", err)
}

// ListInvoices returns invoices without their items, newest first, and the total
// number of matching rows.
func (s *InvoiceStore) ListInvoices(ctx context.Context, owner string, f ListFilter) ([]invoice.Invoice, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Invoice{})
	if owner != "" {
		q = q.Where("user_id = ?", owner)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, wrap("count invoices", err)
	}
	q = q.Order("created_at DESC, id DESC").Offset(f.Offset)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var rows []models.Invoice
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, wrap("list invoices", err)
	}
	out := make([]invoice.Invoice, 0, len(rows))
	for i := range rows {
		out = append(out, *toDomain(&rows[i]))
	}
	return out, total, nil
}

// PaidTotals returns the stored totals of owner's paid invoices.
func (s *InvoiceStore) PaidTotals(ctx context.Context, owner string) ([]money.Money, error) {
	var rows []models.Invoice
	err := s.db.WithContext(ctx).
		Select("id", "total_payment").
		Where("user_id = ? AND status = ?", owner, models.InvoiceStatusPaid).
		Find(&rows).Error
	if err != nil {
		return nil, wrap("paid totals", err)
	}
	totals := make([]money.Money, 0, len(rows))
	for _, r := range rows {
		totals = append(totals, r.TotalPayment)
	}
	return totals, nil
}
