// internal/app/system/auth/auth.go

// Package auth issues and verifies the signed session tokens that prove
// identity and role for 24 hours. Tokens are stateless HS256 JWTs carried
// either as "Authorization: Bearer <token>" or as an httpOnly cookie set
// at login; there is no server-side session table and no revocation list.
// Blocking an account does not invalidate a live token — the next
// authenticate or currentUser lookup re-checks the blocked flag.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	// CookieName is the cookie the login endpoint sets alongside the
	// envelope token.
	CookieName = "bloodlink_token"

	// TokenTTL is the fixed session lifetime.
	TokenTTL = 24 * time.Hour
)

// TokenUser is the identity a verified token proves. It is attached to
// the request context by LoadTokenUser.
type TokenUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

type claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the token user attached to the request, if any.
func CurrentUser(r *http.Request) (*TokenUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*TokenUser)
	return u, ok
}

func withUser(r *http.Request, u *TokenUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a token user into the request context, bypassing
// token verification. For handler tests only.
func WithTestUser(r *http.Request, u *TokenUser) *http.Request {
	return withUser(r, u)
}

// Manager signs and verifies session tokens.
type Manager struct {
	key    []byte
	secure bool // Secure cookie attribute; true outside dev
	log    *zap.Logger
}

// NewManager builds a token manager from the signing key. Keys shorter
// than 32 bytes are accepted with a warning so local dev still works.
func NewManager(signingKey string, secure bool, logger *zap.Logger) (*Manager, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("token signing key is empty; provide >=32 random chars")
	}
	if len(signingKey) < 32 {
		logger.Warn("token signing key is short; 32+ chars recommended",
			zap.Int("length", len(signingKey)))
	}
	return &Manager{key: []byte(signingKey), secure: secure, log: logger}, nil
}

// Issue signs a token for the user with the fixed 24h expiry.
func (m *Manager) Issue(u TokenUser, now time.Time) (string, error) {
	c := claims{
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.key)
}

// Verify checks signature and expiry and returns the embedded identity.
func (m *Manager) Verify(tokenString string) (*TokenUser, error) {
	var c claims
	tok, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return &TokenUser{ID: c.Subject, Name: c.Name, Email: c.Email, Role: c.Role}, nil
}

// SetCookie attaches the token as an httpOnly cookie, Secure outside dev.
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// tokenFromRequest prefers the Authorization header over the cookie.
func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if after, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(after)
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// BearerToken exposes the raw credential for endpoints that forward it to
// collaborators (the matcher).
func BearerToken(r *http.Request) string { return tokenFromRequest(r) }

// LoadTokenUser injects the verified token user into context. Requests
// without a token, or with an invalid or expired one, continue
// unauthenticated; RequireSignedIn decides whether that matters.
func (m *Manager) LoadTokenUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := tokenFromRequest(r); tok != "" {
			if u, err := m.Verify(tok); err == nil {
				r = withUser(r, u)
			} else {
				m.log.Debug("token rejected", zap.Error(err))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn short-circuits with 401 when no verified user is in
// context.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			writeAuthError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole admits only signed-in users whose role is in the allow
// list. Missing user short-circuits 401, wrong role 403; the request
// never reaches the handler on either path.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				writeAuthError(w, http.StatusForbidden, "access denied for role "+u.Role)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeAuthError emits the standard envelope without importing httpapi
// (auth sits below it in the dependency order).
func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"success":false,"error":%q}`+"\n", msg)
}
