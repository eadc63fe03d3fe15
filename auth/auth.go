// Package auth implements cookie sessions signed with HMAC-SHA256 and the
// middleware that turns a session into an invoice.Identity on the request context.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/invoice-api/httpx"
	"github.com/diewo77/invoice-api/internal/invoice"
)

type ctxKey string

const (
	SessionCookieName = "session"
	identityCtxKey    = ctxKey("identity")
)

// Resolver loads the identity of a session's user. It returns false when the user
// no longer exists.
type Resolver func(ctx context.Context, userID string) (invoice.Identity, bool)

// Sessions issues and verifies session cookies.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessions(secret string, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}
}

func (s *Sessions) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Create sets a signed cookie carrying userID and its expiry.
func (s *Sessions) Create(w http.ResponseWriter, userID string) {
	expires := s.now().Add(s.ttl)
	payload := userID + "." + strconv.FormatInt(expires.Unix(), 10)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    payload + "." + s.sign(payload),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}

// Clear deletes the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Parse validates the session cookie and returns the user id.
func (s *Sessions) Parse(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	parts := strings.Split(c.Value, ".")
	if len(parts) != 3 || parts[0] == "" {
		return "", false
	}
	payload := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(s.sign(payload))) {
		return "", false
	}
	exp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || s.now().Unix() >= exp {
		return "", false
	}
	return parts[0], true
}

// WithIdentity stores the caller's identity in ctx.
func WithIdentity(ctx context.Context, id invoice.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, id)
}

// IdentityFromContext extracts the identity stored by Middleware.
func IdentityFromContext(ctx context.Context) (invoice.Identity, bool) {
	id, ok := ctx.Value(identityCtxKey).(invoice.Identity)
	if !ok || id.UserID == "" {
		return invoice.Identity{}, false
	}
	return id, true
}

// Middleware attaches the identity of a valid session to the request context.
// Sessions of users that no longer resolve are cleared.
func (s *Sessions) Middleware(resolve Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if uid, ok := s.Parse(r); ok {
				if id, found := resolve(r.Context(), uid); found {
					r = r.WithContext(WithIdentity(r.Context(), id))
				} else {
					s.Clear(w)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth answers 401 JSON when no identity is attached.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
