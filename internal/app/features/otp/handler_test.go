package otp_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bloodlinkhq/bloodlink/internal/app/features/otp"
	resetcodes "github.com/bloodlinkhq/bloodlink/internal/app/store/resetcodes"
	userstore "github.com/bloodlinkhq/bloodlink/internal/app/store/users"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/mailer"
	"github.com/bloodlinkhq/bloodlink/internal/domain/models"
	"github.com/bloodlinkhq/bloodlink/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// stubSender captures outgoing mail instead of delivering it.
type stubSender struct {
	sent []mailer.Email
	err  error
}

func (s *stubSender) Send(ctx context.Context, e mailer.Email) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, e)
	return nil
}

func newTestHandler(t *testing.T) (*otp.Handler, *mongo.Database, *stubSender) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	mail := &stubSender{}
	h := otp.NewHandler(db, resetcodes.New(db, 0), mail, "BloodLink", zap.NewNop())
	return h, db, mail
}

func TestHandleForgotPassword(t *testing.T) {
	h, db, mail := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	fixtures.CreateUser(ctx, "Meera Pillai", "meera@example.com", models.RoleDonor)

	req := testutil.NewJSONRequest(t, "POST", "/otp/forgotPassword", map[string]string{
		"email": "meera@example.com",
	})
	rec := httptest.NewRecorder()
	h.HandleForgotPassword(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(mail.sent))
	}
	e := mail.sent[0]
	if len(e.To) != 1 || e.To[0] != "meera@example.com" {
		t.Errorf("email addressed to %v", e.To)
	}

	// The mailed code is the one persisted for this account.
	var codeInBody string
	for _, word := range strings.Fields(e.TextBody) {
		if len(word) == resetcodes.CodeLength && strings.IndexFunc(word, func(r rune) bool { return r < '0' || r > '9' }) == -1 {
			codeInBody = word
			break
		}
	}
	if codeInBody == "" {
		t.Fatalf("no code found in email body: %q", e.TextBody)
	}
	if err := resetcodes.New(db, 0).Consume(ctx, "meera@example.com", codeInBody); err != nil {
		t.Errorf("mailed code does not redeem: %v", err)
	}
}

func TestHandleForgotPassword_UnknownEmail(t *testing.T) {
	h, _, mail := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/otp/forgotPassword", map[string]string{
		"email": "ghost@example.com",
	})
	rec := httptest.NewRecorder()
	h.HandleForgotPassword(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if len(mail.sent) != 0 {
		t.Errorf("no email should be sent for an unknown account")
	}
}

func TestHandleForgotPassword_BadEmailSyntax(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/otp/forgotPassword", map[string]string{
		"email": "not-an-email",
	})
	rec := httptest.NewRecorder()
	h.HandleForgotPassword(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleForgotPassword_MailFailure(t *testing.T) {
	h, db, mail := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	fixtures.CreateUser(ctx, "Meera Pillai", "meera@example.com", models.RoleDonor)
	mail.err = errors.New("smtp: connection refused")

	req := testutil.NewJSONRequest(t, "POST", "/otp/forgotPassword", map[string]string{
		"email": "meera@example.com",
	})
	rec := httptest.NewRecorder()
	h.HandleForgotPassword(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502 when the email cannot go out, got %d", rec.Code)
	}
}

func TestHandleResetPassword(t *testing.T) {
	h, db, _ := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	fixtures.CreateUser(ctx, "Meera Pillai", "meera@example.com", models.RoleDonor)
	fixtures.CreateResetCode(ctx, "meera@example.com", "123456", time.Now().Add(10*time.Minute))

	req := testutil.NewJSONRequest(t, "POST", "/otp/resetPassword", map[string]string{
		"email":       "meera@example.com",
		"otp":         "123456",
		"newPassword": "fresh-secret",
	})
	rec := httptest.NewRecorder()
	h.HandleResetPassword(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	u, err := userstore.New(db).GetByEmail(ctx, "meera@example.com")
	if err != nil {
		t.Fatalf("reloading user: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("fresh-secret")) != nil {
		t.Error("new password does not verify against the stored hash")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil {
		t.Error("old password still verifies")
	}

	// The code is spent.
	rec = httptest.NewRecorder()
	h.HandleResetPassword(rec, testutil.NewJSONRequest(t, "POST", "/otp/resetPassword", map[string]string{
		"email":       "meera@example.com",
		"otp":         "123456",
		"newPassword": "another-secret",
	}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 on code reuse, got %d", rec.Code)
	}
}

func TestHandleResetPassword_Failures(t *testing.T) {
	h, db, _ := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	fixtures.CreateUser(ctx, "Meera Pillai", "meera@example.com", models.RoleDonor)
	fixtures.CreateResetCode(ctx, "meera@example.com", "123456", time.Now().Add(10*time.Minute))
	fixtures.CreateResetCode(ctx, "meera@example.com", "654321", time.Now().Add(-time.Minute))

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{
			name: "missing fields",
			body: map[string]string{"email": "meera@example.com"},
			want: http.StatusBadRequest,
		},
		{
			name: "short password",
			body: map[string]string{"email": "meera@example.com", "otp": "123456", "newPassword": "abc"},
			want: http.StatusBadRequest,
		},
		{
			name: "wrong code",
			body: map[string]string{"email": "meera@example.com", "otp": "000000", "newPassword": "fresh-secret"},
			want: http.StatusBadRequest,
		},
		{
			name: "expired code",
			body: map[string]string{"email": "meera@example.com", "otp": "654321", "newPassword": "fresh-secret"},
			want: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, "POST", "/otp/resetPassword", tc.body)
			rec := httptest.NewRecorder()
			h.HandleResetPassword(rec, req)
			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d (body: %s)", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}
