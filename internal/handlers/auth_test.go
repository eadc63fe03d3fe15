package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/diewo77/invoice-api/auth"
)

func TestLogin(t *testing.T) {
	env := setupHandlerTest(t)
	env.createUser(t, "user@example.com", "password123")

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"ok", `{"email":"user@example.com","password":"password123"}`, http.StatusOK},
		{"email is case insensitive", `{"email":"User@Example.com","password":"password123"}`, http.StatusOK},
		{"wrong password", `{"email":"user@example.com","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"email":"ghost@example.com","password":"password123"}`, http.StatusUnauthorized},
		{"missing fields", `{}`, http.StatusBadRequest},
		{"malformed email", `{"email":"user","password":"password123"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/api/auth/login", tt.body, nil)
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d got %d body=%s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			var hasCookie bool
			for _, c := range rr.Result().Cookies() {
				if c.Name == auth.SessionCookieName && c.Value != "" {
					hasCookie = true
				}
			}
			if hasCookie != (tt.wantStatus == http.StatusOK) {
				t.Errorf("session cookie set = %v", hasCookie)
			}
			if strings.Contains(rr.Body.String(), "password") && tt.wantStatus == http.StatusOK {
				t.Errorf("password hash leaked: %s", rr.Body.String())
			}
		})
	}
}

func TestMeAndLogout(t *testing.T) {
	env := setupHandlerTest(t)
	u := env.createUser(t, "me@example.com", "secret123")

	rr := env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodGet, "/api/auth/me", "", env.cookieFor(t, u.ID))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		SenderAddress string `json:"senderAddress"`
		User          struct {
			ID             string `json:"id"`
			Email          string `json:"email"`
			DefaultAddress *struct {
				City string `json:"city"`
			} `json:"default_address"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.User.ID != u.ID || resp.User.Email != "me@example.com" {
		t.Errorf("unexpected user %+v", resp.User)
	}
	if resp.User.DefaultAddress == nil || resp.User.DefaultAddress.City != "Warsaw" {
		t.Errorf("default address missing: %s", rr.Body.String())
	}
	if want := "Main Street 1\n00-001 Warsaw\nPoland"; resp.SenderAddress != want {
		t.Errorf("senderAddress = %q, want %q", resp.SenderAddress, want)
	}

	rr = env.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("logout status %d", rr.Code)
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.SessionCookieName && c.MaxAge >= 0 {
			t.Errorf("session cookie not cleared: %+v", c)
		}
	}
}

func TestSessionOfDeletedUserIsRejected(t *testing.T) {
	env := setupHandlerTest(t)
	u := env.createUser(t, "gone@example.com", "secret123")
	cookie := env.cookieFor(t, u.ID)
	if err := env.db.Exec("DELETE FROM users WHERE id = ?", u.ID).Error; err != nil {
		t.Fatal(err)
	}
	rr := env.do(t, http.MethodGet, "/api/auth/me", "", cookie)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}
