package session

import (
	"errors"
	"testing"
	"time"

	"github.com/RIxiV1/SubSentry/internal/core"
	"github.com/RIxiV1/SubSentry/internal/currency"
)

func TestStartAndGet(t *testing.T) {
	store := NewStore(time.Hour)

	sess := store.Start("user-1", currency.Default)
	if sess.Token == "" {
		t.Fatal("expected a non-empty token")
	}
	if sess.UserID != "user-1" {
		t.Fatalf("UserID = %q, want user-1", sess.UserID)
	}

	got, err := store.Get(sess.Token)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.UserID != "user-1" {
		t.Fatalf("resolved UserID = %q, want user-1", got.UserID)
	}
	if got.Currency.Code != currency.Default.Code {
		t.Fatalf("Currency.Code = %q, want %q", got.Currency.Code, currency.Default.Code)
	}
}

func TestAnonymousUserGetsFreshIdentity(t *testing.T) {
	store := NewStore(time.Hour)

	a := store.Start("", currency.Default)
	b := store.Start("", currency.Default)

	if a.UserID == "" || b.UserID == "" {
		t.Fatal("anonymous sessions must still carry a user ID")
	}
	if a.UserID == b.UserID {
		t.Fatal("two anonymous sessions must not share an identity")
	}
}

func TestGetUnknownToken(t *testing.T) {
	store := NewStore(time.Hour)

	if _, err := store.Get("no-such-token"); !errors.Is(err, core.ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
	if _, err := store.Get(""); !errors.Is(err, core.ErrNoSession) {
		t.Fatalf("empty token err = %v, want ErrNoSession", err)
	}
}

func TestExpiredSession(t *testing.T) {
	store := NewStore(10 * time.Millisecond)

	sess := store.Start("user-1", currency.Default)
	time.Sleep(20 * time.Millisecond)

	if _, err := store.Get(sess.Token); !errors.Is(err, core.ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession after expiry", err)
	}
}

func TestEnd(t *testing.T) {
	store := NewStore(time.Hour)

	sess := store.Start("user-1", currency.Default)
	store.End(sess.Token)
	store.End(sess.Token) // second end is a no-op

	if _, err := store.Get(sess.Token); !errors.Is(err, core.ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession after End", err)
	}
}
