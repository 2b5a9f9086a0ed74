package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ivanjaven/extension/internal/services"
	"github.com/ivanjaven/extension/internal/store"
	"github.com/ivanjaven/extension/types"
	"golang.org/x/crypto/bcrypt"
)

// AccountHandler provides account maintenance endpoints for logged-in users.
type AccountHandler struct {
	accounts *services.AccountService
	sessions *services.SessionService
}

// NewAccountHandler constructs a handler with the provided services.
func NewAccountHandler(accounts *services.AccountService, sessions *services.SessionService) *AccountHandler {
	return &AccountHandler{accounts: accounts, sessions: sessions}
}

// AccountRouter registers account routes on the given router.
func AccountRouter(r chi.Router, accounts *services.AccountService, sessions *services.SessionService) {
	handler := NewAccountHandler(accounts, sessions)

	r.Get("/staff-data", handler.StaffData)
	r.Put("/update-profile", handler.UpdateProfile)
	r.With(requireRole(types.RoleAdmin)).Put("/change-admin", handler.ChangeAdmin)
	r.With(requireRole(types.RoleAdmin)).Put("/link-resident", handler.LinkResident)
}

type ProfileUpdateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LinkResidentRequest struct {
	AuthID     int `json:"auth_id"`
	ResidentID int `json:"resident_id"`
}

// StaffData returns the account record behind the current session.
func (h *AccountHandler) StaffData(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	account, err := h.accounts.GetByID(r.Context(), claims.AuthID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load account")
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// UpdateProfile changes the caller's own username and/or password. Empty
// fields are left unchanged.
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !h.updateCredentials(w, r, claims.AuthID) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account updated"})
}

// ChangeAdmin updates the admin account's credentials and revokes its
// sessions so the new credentials take effect immediately. A revocation
// failure fails the request: the old session must not outlive the change.
func (h *AccountHandler) ChangeAdmin(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !h.updateCredentials(w, r, claims.AuthID) {
		return
	}
	if err := h.sessions.InvalidateAccount(r.Context(), claims.AuthID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to revoke sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account updated"})
}

// LinkResident attaches an account to a resident record.
func (h *AccountHandler) LinkResident(w http.ResponseWriter, r *http.Request) {
	var req LinkResidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.AuthID < 1 || req.ResidentID < 1 {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	if err := h.accounts.UpdateResidentLink(r.Context(), req.AuthID, req.ResidentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to link resident")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile linked"})
}

// updateCredentials applies a partial username/password change. On failure it
// writes the error response and returns false; on success the caller writes
// the response, since revocation may still need to run first.
func (h *AccountHandler) updateCredentials(w http.ResponseWriter, r *http.Request, authID int) bool {
	var req ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return false
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" && req.Password == "" {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return false
	}

	var passwordHash string
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to update account")
			return false
		}
		passwordHash = string(hashed)
	}

	if err := h.accounts.UpdateProfile(r.Context(), authID, req.Username, passwordHash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return false
		}
		writeError(w, http.StatusInternalServerError, "failed to update account")
		return false
	}
	return true
}
