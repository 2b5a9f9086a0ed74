package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ivanjaven/extension/internal/services"
	"github.com/ivanjaven/extension/internal/store"
	"github.com/ivanjaven/extension/types"
	"golang.org/x/crypto/bcrypt"
)

// Cookie names shared by the login endpoints and the request middleware.
const (
	cookieToken   = "token"
	cookieSession = "session_id"
)

var cookieMaxAge = int(services.TokenTTL / time.Second)

// AuthHandler provides the login, logout, and session validation endpoints.
type AuthHandler struct {
	accounts *services.AccountService
	sessions *services.SessionService
	tokens   *services.TokenService
	faces    *services.FaceService
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(
	accounts *services.AccountService,
	sessions *services.SessionService,
	tokens *services.TokenService,
	faces *services.FaceService,
) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		sessions: sessions,
		tokens:   tokens,
		faces:    faces,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Post("/log-in", handler.Login)
	r.Post("/fingerprint-log-in", handler.FingerprintLogin)
	r.Post("/face-log-in", handler.FaceLogin)
	r.Post("/log-out", handler.Logout)
	r.Get("/validate-session", handler.ValidateSession)
	r.Post("/validate-session", handler.ValidateSession)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type FingerprintLoginRequest struct {
	Username string `json:"username"`
	AuthID   int    `json:"authId"`
	Role     string `json:"role"`
}

type FaceLoginRequest struct {
	Face []float64 `json:"face"`
}

// LoginResponse is the identity summary returned by all three login methods.
// Credentials and descriptors are never echoed back.
type LoginResponse struct {
	Username string `json:"username"`
	AuthID   int    `json:"auth_id"`
	Role     string `json:"role"`
}

// SessionStatus is the validate-session payload.
type SessionStatus struct {
	Valid         bool   `json:"valid"`
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role,omitempty"`
}

// Login authenticates a username/password pair. The checks run in a fixed
// order: account lookup, then the active-session gate, then the password
// comparison. The session gate comes before the password check so a locked
// account never reveals whether the submitted password was correct.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing credentials")
		return
	}

	account, err := h.accounts.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	if _, active := h.sessions.Active(r.Context(), account.AuthID); active {
		writeError(w, http.StatusForbidden, "Account is already logged in on another device")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.issue(w, r, account)
}

// FingerprintLogin trusts an identity triple forwarded by the hardware
// bridge, after re-validating that the triple matches a stored account
// exactly on all three fields.
func (h *AuthHandler) FingerprintLogin(w http.ResponseWriter, r *http.Request) {
	var req FingerprintLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Role = strings.TrimSpace(req.Role)
	if req.Username == "" || req.Role == "" || req.AuthID < 1 {
		writeError(w, http.StatusBadRequest, "missing identity fields")
		return
	}

	account, err := h.accounts.GetVerified(r.Context(), req.AuthID, req.Username, req.Role)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	if _, active := h.sessions.Active(r.Context(), account.AuthID); active {
		writeError(w, http.StatusForbidden, "Account is already logged in on another device")
		return
	}

	h.issue(w, r, account)
}

// FaceLogin matches a submitted face descriptor against enrolled residents
// and logs in the owning account on a sufficiently close match.
func (h *AuthHandler) FaceLogin(w http.ResponseWriter, r *http.Request) {
	var req FaceLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if len(req.Face) == 0 {
		writeError(w, http.StatusBadRequest, "missing face descriptor")
		return
	}

	residentID, ok, err := h.faces.Match(r.Context(), req.Face)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "No matching face found")
		return
	}

	account, err := h.accounts.GetByResidentID(r.Context(), residentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	if _, active := h.sessions.Active(r.Context(), account.AuthID); active {
		writeError(w, http.StatusForbidden, "Account is already logged in on another device")
		return
	}

	h.issue(w, r, account)
}

// Logout deletes the current session and clears both cookies. The old token
// stays cryptographically valid until it expires, so the session row is the
// thing that actually revokes access.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(cookieSession); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to log out")
			return
		}
	} else if cookie, err := r.Cookie(cookieToken); err == nil {
		if claims := h.tokens.Verify(cookie.Value); claims != nil {
			if err := h.sessions.InvalidateAccount(r.Context(), claims.AuthID); err != nil {
				writeError(w, http.StatusInternalServerError, "failed to log out")
				return
			}
		}
	}

	clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// ValidateSession checks the token and session cookies together. Both checks
// are necessary: a deleted session revokes a token that still verifies.
func (h *AuthHandler) ValidateSession(w http.ResponseWriter, r *http.Request) {
	tokenCookie, err := r.Cookie(cookieToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid session")
		return
	}

	claims := h.tokens.Verify(tokenCookie.Value)
	if claims == nil {
		clearAuthCookies(w)
		writeError(w, http.StatusUnauthorized, "invalid session")
		return
	}

	sessionCookie, err := r.Cookie(cookieSession)
	if err != nil || !h.sessions.Validate(r.Context(), sessionCookie.Value, claims.AuthID) {
		clearAuthCookies(w)
		writeError(w, http.StatusUnauthorized, "invalid session")
		return
	}

	writeJSON(w, http.StatusOK, SessionStatus{
		Valid:         true,
		Authenticated: true,
		Role:          claims.Role,
	})
}

// issue runs the common post-match sequence: replace the account's session,
// sign a token, and set both cookies.
func (h *AuthHandler) issue(w http.ResponseWriter, r *http.Request, account types.Account) {
	token, err := h.tokens.Generate(account.AuthID, account.Username, account.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	sessionID, err := h.sessions.Create(r.Context(), account.AuthID, token, r.UserAgent())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	setAuthCookies(w, token, sessionID)
	writeJSON(w, http.StatusOK, LoginResponse{
		Username: account.Username,
		AuthID:   account.AuthID,
		Role:     account.Role,
	})
}

func setAuthCookies(w http.ResponseWriter, token, sessionID string) {
	http.SetCookie(w, authCookie(cookieToken, token, cookieMaxAge))
	http.SetCookie(w, authCookie(cookieSession, sessionID, cookieMaxAge))
}

func clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, authCookie(cookieToken, "", -1))
	http.SetCookie(w, authCookie(cookieSession, "", -1))
}

func authCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
