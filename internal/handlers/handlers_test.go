package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/invoice-api/auth"
	"github.com/diewo77/invoice-api/internal/models"
	"github.com/diewo77/invoice-api/internal/services"
	"github.com/diewo77/invoice-api/internal/store"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	mux      *http.ServeMux
	sessions *auth.Sessions
}

func setupHandlerTest(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Address{}, &models.User{}, &models.Invoice{}, &models.Item{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := zerolog.Nop()
	sessions := auth.NewSessions("test-secret", time.Hour, false)
	ah := NewAuthHandler(db, sessions, log)
	protect := func(next http.Handler) http.Handler {
		return sessions.Middleware(ah.Resolve)(auth.RequireAuth(next))
	}

	mux := http.NewServeMux()
	ah.Register(mux, protect)
	NewInvoiceHandler(services.NewInvoiceService(store.NewInvoiceStore(db), log), log).Register(mux, protect)
	return &testEnv{db: db, mux: mux, sessions: sessions}
}

// createUser stores a user with a bcrypt password and a default address.
func (e *testEnv) createUser(t *testing.T, email, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := models.User{Email: email, Name: "Test User", Password: string(hash)}
	if err := e.db.Create(&u).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	addr := models.Address{UserID: u.ID, Name: u.Name, Street: "Main Street 1", City: "Warsaw", PostalCode: "00-001", Country: "Poland"}
	if err := e.db.Create(&addr).Error; err != nil {
		t.Fatalf("address: %v", err)
	}
	if err := e.db.Model(&u).Update("default_address_id", addr.ID).Error; err != nil {
		t.Fatalf("link address: %v", err)
	}
	return u
}

// cookieFor returns a valid session cookie for userID.
func (e *testEnv) cookieFor(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	e.sessions.Create(rr, userID)
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	t.Fatalf("no session cookie")
	return nil
}

func (e *testEnv) do(t *testing.T, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	e.mux.ServeHTTP(rr, req)
	return rr
}
