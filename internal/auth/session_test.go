package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func sessionCookie(t *testing.T, uid uint) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	CreateSession(rec, uid)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	Configure("test-secret", nil)
	c := sessionCookie(t, 42)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	uid, ok := ParseSession(req)
	if !ok || uid != 42 {
		t.Fatalf("expected uid 42, got %d ok=%v", uid, ok)
	}
}

func TestSessionTamperedSignatureRejected(t *testing.T) {
	Configure("test-secret", nil)
	c := sessionCookie(t, 42)
	// Change the uid without re-signing.
	parts := strings.SplitN(c.Value, ".", 2)
	c.Value = "43." + parts[1]
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	if _, ok := ParseSession(req); ok {
		t.Fatal("tampered session should be rejected")
	}
}

func TestSessionWrongSecretRejected(t *testing.T) {
	Configure("secret-a", nil)
	c := sessionCookie(t, 7)
	Configure("secret-b", nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	if _, ok := ParseSession(req); ok {
		t.Fatal("session signed with another secret should be rejected")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash must not be the plaintext")
	}
	if !CheckPassword(hash, "hunter2") {
		t.Fatal("correct password should verify")
	}
	if CheckPassword(hash, "hunter3") {
		t.Fatal("wrong password should not verify")
	}
}

func TestMiddlewareResolvesIdentity(t *testing.T) {
	Configure("test-secret", func(_ context.Context, uid uint) (Identity, bool) {
		if uid != 5 {
			return Identity{}, false
		}
		return Identity{ID: 5, Username: "coach1", Role: "coach"}, true
	})
	c := sessionCookie(t, 5)

	var got Identity
	var ok bool
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !ok || got.Username != "coach1" || got.Role != "coach" {
		t.Fatalf("identity not resolved: %+v ok=%v", got, ok)
	}
}

func TestMiddlewareClearsStaleSession(t *testing.T) {
	Configure("test-secret", func(_ context.Context, _ uint) (Identity, bool) {
		return Identity{}, false
	})
	c := sessionCookie(t, 9)

	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); ok {
			t.Error("stale session should not yield an identity")
		}
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	cleared := false
	for _, sc := range rr.Result().Cookies() {
		if sc.Name == "session" && sc.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("stale session cookie should be cleared")
	}
}
