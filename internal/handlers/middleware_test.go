package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ivanjaven/extension/internal/services"
	"github.com/ivanjaven/extension/types"
)

type gateFixture struct {
	router   *chi.Mux
	sessions *fakeSessionRepo
	tokens   *services.TokenService
}

func newGateFixture(t *testing.T, strict bool) *gateFixture {
	t.Helper()

	tokens, err := services.NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	sessions := newFakeSessionRepo()

	router := chi.NewRouter()
	router.With(RequireSession(tokens, services.NewSessionService(sessions), strict)).
		Get("/protected", func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromContext(r.Context())
			if err != nil {
				t.Errorf("claims missing from context: %v", err)
				writeError(w, http.StatusInternalServerError, "no claims")
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"user": claims.Username})
		})

	return &gateFixture{router: router, sessions: sessions, tokens: tokens}
}

func (f *gateFixture) token(t *testing.T) string {
	t.Helper()
	token, err := f.tokens.Generate(7, "alice", "staff")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func (f *gateFixture) get(cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestGateRejectsMissingToken(t *testing.T) {
	f := newGateFixture(t, false)

	rec := f.get()
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGateRejectsForgedToken(t *testing.T) {
	f := newGateFixture(t, false)

	rec := f.get(&http.Cookie{Name: cookieToken, Value: "not.a.token"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGateClearsCookiesOnFailure(t *testing.T) {
	f := newGateFixture(t, false)

	rec := f.get(&http.Cookie{Name: cookieToken, Value: "garbage"})
	cleared := map[string]bool{}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Value == "" && cookie.MaxAge < 0 {
			cleared[cookie.Name] = true
		}
	}
	if !cleared[cookieToken] || !cleared[cookieSession] {
		t.Fatalf("expected both cookies cleared, got %v", cleared)
	}
}

func TestGateRedirectsBrowserNavigations(t *testing.T) {
	f := newGateFixture(t, false)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != loginPath {
		t.Fatalf("expected redirect to %s, got %q", loginPath, location)
	}
}

func TestGateAcceptsValidToken(t *testing.T) {
	f := newGateFixture(t, false)

	rec := f.get(&http.Cookie{Name: cookieToken, Value: f.token(t)})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestStrictGateRequiresSessionRow(t *testing.T) {
	f := newGateFixture(t, true)
	token := f.token(t)

	// Token alone is not enough in strict mode.
	rec := f.get(&http.Cookie{Name: cookieToken, Value: token})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session cookie, got %d", rec.Code)
	}

	f.sessions.sessions[7] = types.Session{ID: "sess-1", AuthID: 7, LastActive: time.Now()}
	rec = f.get(
		&http.Cookie{Name: cookieToken, Value: token},
		&http.Cookie{Name: cookieSession, Value: "sess-1"},
	)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid pair, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestStrictGateRejectsTokenForDeletedSession(t *testing.T) {
	f := newGateFixture(t, true)
	token := f.token(t)

	f.sessions.sessions[7] = types.Session{ID: "sess-1", AuthID: 7, LastActive: time.Now()}
	delete(f.sessions.sessions, 7)

	rec := f.get(
		&http.Cookie{Name: cookieToken, Value: token},
		&http.Cookie{Name: cookieSession, Value: "sess-1"},
	)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected deleted session to be rejected, got %d", rec.Code)
	}
}

func TestStrictGateRejectsStaleSession(t *testing.T) {
	f := newGateFixture(t, true)
	token := f.token(t)

	f.sessions.sessions[7] = types.Session{
		ID:         "sess-1",
		AuthID:     7,
		LastActive: time.Now().Add(-25 * time.Hour),
	}

	rec := f.get(
		&http.Cookie{Name: cookieToken, Value: token},
		&http.Cookie{Name: cookieSession, Value: "sess-1"},
	)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected stale session to be rejected, got %d", rec.Code)
	}
}
