package gate

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/celian-arc/aim/internal/auth"
)

func guardedRequest(t *testing.T, role string, c Capability) *httptest.ResponseRecorder {
	t.Helper()
	called := false
	h := RequireCapability(c)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	if role != "" {
		req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{ID: 1, Username: "u", Role: role}))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code == http.StatusOK && !called {
		t.Fatal("200 without handler execution")
	}
	if rr.Code != http.StatusOK && called {
		t.Fatal("handler ran despite denial")
	}
	return rr
}

func TestGuardAllowsSufficientRole(t *testing.T) {
	rr := guardedRequest(t, "editeur", CapEdit)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
}

func TestGuardDeniesWithFlashRedirect(t *testing.T) {
	rr := guardedRequest(t, "lecteur", CapEdit)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to / got %s", loc)
	}
	flashed := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == "flash" && c.Value != "" {
			flashed = true
		}
	}
	if !flashed {
		t.Fatal("denial should set a flash cookie")
	}
}

func TestGuardRedirectsAnonymousToLogin(t *testing.T) {
	rr := guardedRequest(t, "", CapView)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login got %s", loc)
	}
}
