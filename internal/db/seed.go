package db

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/diewo77/invoice-api/internal/invoice"
	"github.com/diewo77/invoice-api/internal/models"
	"github.com/diewo77/invoice-api/internal/money"
	"github.com/diewo77/invoice-api/internal/store"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Demo credentials created by Seed.
const (
	SeedUserEmail    = "user@example.com"
	SeedUserPassword = "password123"
	seedInvoiceCount = 10
)

// Seed replaces all data with a demo user, its default address and a set of pending
// invoices. It is safe to run repeatedly: the previous demo data is wiped first.
func Seed(db *gorm.DB, rng *rand.Rand) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedUserPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, m := range []any{&models.Item{}, &models.Invoice{}, &models.User{}, &models.Address{}} {
			if err := wipe.Delete(m).Error; err != nil {
				return fmt.Errorf("clear %T: %w", m, err)
			}
		}

		user := models.User{Email: SeedUserEmail, Name: "ACME Corp", Password: string(hash)}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("create seed user: %w", err)
		}
		addr := models.Address{
			UserID:     user.ID,
			Name:       user.Name,
			Email:      user.Email,
			Street:     "Main Street 1",
			City:       "Warsaw",
			PostalCode: "00-001",
			Country:    "Poland",
		}
		if err := tx.Create(&addr).Error; err != nil {
			return fmt.Errorf("create seed address: %w", err)
		}
		if err := tx.Model(&user).Update("default_address_id", addr.ID).Error; err != nil {
			return fmt.Errorf("link default address: %w", err)
		}

		who := invoice.Identity{UserID: user.ID, Name: user.Name, Email: user.Email}
		invoices := store.NewInvoiceStore(tx)
		today := time.Now().UTC().Truncate(24 * time.Hour)
		for i := 1; i <= seedInvoiceCount; i++ {
			d := seedDraft(rng, i, addr, today.AddDate(0, 0, -3*i))
			inv, err := invoice.DeriveCreate(d, who)
			if err != nil {
				return fmt.Errorf("derive seed invoice %d: %w", i, err)
			}
			if _, err := invoices.CreateInvoice(context.Background(), inv); err != nil {
				return fmt.Errorf("create seed invoice %d: %w", i, err)
			}
		}
		return nil
	})
}

func seedDraft(rng *rand.Rand, i int, from models.Address, issued time.Time) invoice.Draft {
	n := 2 + rng.IntN(3)
	items := make([]invoice.LineItem, 0, n)
	for j := 1; j <= n; j++ {
		cents := int64(1000 + rng.IntN(10001))
		items = append(items, invoice.LineItem{
			Name:     fmt.Sprintf("Service %d", j),
			Quantity: 1 + rng.IntN(5),
			Price:    money.FromCents(cents),
		})
	}
	return invoice.Draft{
		Header: invoice.Header{
			Sender: invoice.Party{Street: from.Street, City: from.City, PostalCode: from.PostalCode, Country: from.Country},
			Recipient: invoice.Party{
				Name:       fmt.Sprintf("Client %d", i),
				Email:      fmt.Sprintf("client%d@example.com", i),
				Street:     fmt.Sprintf("Client Street %d", i),
				City:       "Krakow",
				PostalCode: "30-001",
				Country:    "Poland",
			},
			IssueDate:    issued,
			PaymentTerms: "Net 14",
			Description:  fmt.Sprintf("Invoice #%d", i),
		},
		Items: items,
	}
}
