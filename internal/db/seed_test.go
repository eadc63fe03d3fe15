package db

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/diewo77/invoice-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	d, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := Migrate(d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return d
}

func TestSeedIdempotent(t *testing.T) {
	d := setupSeedTestDB(t)
	rng := rand.New(rand.NewPCG(1, 2))
	if err := Seed(d, rng); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := Seed(d, rng); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var users, addresses, invoices int64
	d.Model(&models.User{}).Count(&users)
	d.Model(&models.Address{}).Count(&addresses)
	d.Model(&models.Invoice{}).Count(&invoices)
	if users != 1 || addresses != 1 {
		t.Fatalf("expected 1 user and 1 address, got %d/%d", users, addresses)
	}
	if invoices != seedInvoiceCount {
		t.Fatalf("expected %d invoices, got %d", seedInvoiceCount, invoices)
	}
}

func TestSeedData(t *testing.T) {
	d := setupSeedTestDB(t)
	if err := Seed(d, rand.New(rand.NewPCG(7, 7))); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var user models.User
	if err := d.Preload("DefaultAddress").Where("email = ?", SeedUserEmail).First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(SeedUserPassword)); err != nil {
		t.Errorf("seed password does not match: %v", err)
	}
	if user.DefaultAddress == nil || user.DefaultAddress.City != "Warsaw" {
		t.Fatalf("default address not linked: %+v", user.DefaultAddress)
	}

	var invs []models.Invoice
	if err := d.Preload("Items").Where("user_id = ?", user.ID).Find(&invs).Error; err != nil {
		t.Fatalf("load invoices: %v", err)
	}
	for _, inv := range invs {
		if len(inv.Items) < 2 || len(inv.Items) > 4 {
			t.Errorf("invoice %s has %d items", inv.Description, len(inv.Items))
		}
		if inv.Status != models.InvoiceStatusPending {
			t.Errorf("invoice %s status %s", inv.Description, inv.Status)
		}
		if inv.SenderEmail != SeedUserEmail {
			t.Errorf("sender email %q", inv.SenderEmail)
		}
		if got := inv.PaymentDue.Sub(inv.IssueDate).Hours(); got != 14*24 {
			t.Errorf("due date offset %v hours", got)
		}
	}
}
