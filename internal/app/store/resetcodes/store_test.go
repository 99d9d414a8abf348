package resetcodes_test

import (
	"testing"
	"time"

	"github.com/bloodlinkhq/bloodlink/internal/app/store/resetcodes"
	"github.com/bloodlinkhq/bloodlink/internal/testutil"
)

func TestStore_Issue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resetcodes.New(db, 0)
	ctx := testutil.TestContext(t)

	rec, err := store.Issue(ctx, " Meera@Example.COM ")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if rec.Email != "meera@example.com" {
		t.Errorf("email not normalized: got %q", rec.Email)
	}
	if len(rec.Code) != resetcodes.CodeLength {
		t.Errorf("expected %d-digit code, got %q", resetcodes.CodeLength, rec.Code)
	}
	for _, r := range rec.Code {
		if r < '0' || r > '9' {
			t.Errorf("code contains non-digit %q", rec.Code)
			break
		}
	}
	want := time.Now().Add(resetcodes.DefaultExpiry)
	if rec.ExpiresAt.Before(want.Add(-time.Minute)) || rec.ExpiresAt.After(want.Add(time.Minute)) {
		t.Errorf("expiry not near default: got %v", rec.ExpiresAt)
	}
}

func TestStore_Consume(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resetcodes.New(db, 0)
	ctx := testutil.TestContext(t)

	rec, err := store.Issue(ctx, "meera@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if err := store.Consume(ctx, "MEERA@example.com", rec.Code); err != nil {
		t.Fatalf("Consume failed: %v", err)
	}

	// A code is single-use.
	if err := store.Consume(ctx, "meera@example.com", rec.Code); err != resetcodes.ErrInvalidOrExpired {
		t.Errorf("expected ErrInvalidOrExpired on reuse, got %v", err)
	}
}

func TestStore_Consume_PurgesAllCodesForEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resetcodes.New(db, 0)
	ctx := testutil.TestContext(t)

	// Two forgot-password requests leave two live rows; either code
	// works, and consuming one kills the other.
	first, err := store.Issue(ctx, "meera@example.com")
	if err != nil {
		t.Fatalf("first Issue failed: %v", err)
	}
	second, err := store.Issue(ctx, "meera@example.com")
	if err != nil {
		t.Fatalf("second Issue failed: %v", err)
	}

	if err := store.Consume(ctx, "meera@example.com", second.Code); err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if err := store.Consume(ctx, "meera@example.com", first.Code); err != resetcodes.ErrInvalidOrExpired {
		t.Errorf("expected sibling code to be purged, got %v", err)
	}
}

func TestStore_Consume_WrongCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resetcodes.New(db, 0)
	ctx := testutil.TestContext(t)

	rec, err := store.Issue(ctx, "meera@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if err := store.Consume(ctx, "meera@example.com", "000000"); err != resetcodes.ErrInvalidOrExpired {
		t.Errorf("expected ErrInvalidOrExpired, got %v", err)
	}

	// A failed attempt must not burn the real code.
	if err := store.Consume(ctx, "meera@example.com", rec.Code); err != nil {
		t.Errorf("real code should still work, got %v", err)
	}
}

func TestStore_Consume_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resetcodes.New(db, 0)
	fixtures := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	fixtures.CreateResetCode(ctx, "meera@example.com", "123456", time.Now().Add(-time.Minute))

	if err := store.Consume(ctx, "meera@example.com", "123456"); err != resetcodes.ErrInvalidOrExpired {
		t.Errorf("expected ErrInvalidOrExpired for expired code, got %v", err)
	}
}

func TestStore_Consume_UnknownEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resetcodes.New(db, 0)
	ctx := testutil.TestContext(t)

	if err := store.Consume(ctx, "ghost@example.com", "123456"); err != resetcodes.ErrInvalidOrExpired {
		t.Errorf("expected ErrInvalidOrExpired, got %v", err)
	}
}

func TestStore_Expiry(t *testing.T) {
	db := testutil.SetupTestDB(t)

	if got := resetcodes.New(db, 0).Expiry(); got != resetcodes.DefaultExpiry {
		t.Errorf("zero expiry should fall back to default, got %v", got)
	}
	if got := resetcodes.New(db, 5*time.Minute).Expiry(); got != 5*time.Minute {
		t.Errorf("expected configured expiry, got %v", got)
	}
}
