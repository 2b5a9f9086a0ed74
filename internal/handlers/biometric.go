package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ivanjaven/extension/internal/bridge"
)

// BiometricHandler proxies fingerprint commands to the hardware bridge so
// browser clients never talk to the device WebSocket directly.
type BiometricHandler struct {
	bridge *bridge.Client
}

// NewBiometricHandler constructs a handler with the provided bridge client.
func NewBiometricHandler(client *bridge.Client) *BiometricHandler {
	return &BiometricHandler{bridge: client}
}

// BiometricRouter registers bridge proxy routes on the given router.
func BiometricRouter(r chi.Router, client *bridge.Client) {
	handler := NewBiometricHandler(client)

	r.Post("/capture", handler.Capture)
	r.Post("/identify", handler.Identify)
	r.Post("/identify-staff", handler.IdentifyStaff)
}

// Capture asks the bridge to scan a finger and returns the template and
// preview image for enrollment.
func (h *BiometricHandler) Capture(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, bridge.CommandCapture)
}

// Identify asks the bridge to match a finger against enrolled residents.
func (h *BiometricHandler) Identify(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, bridge.CommandIdentify)
}

// IdentifyStaff is Identify restricted to staff enrollments on the device.
func (h *BiometricHandler) IdentifyStaff(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, bridge.CommandIdentifyStaff)
}

func (h *BiometricHandler) command(w http.ResponseWriter, r *http.Request, command string) {
	resp, err := h.bridge.Command(r.Context(), command)
	if err != nil {
		writeError(w, http.StatusBadGateway, "fingerprint bridge unavailable")
		return
	}

	switch resp.Status {
	case bridge.StatusSuccess:
		writeJSON(w, http.StatusOK, resp)
	case bridge.StatusNotFound:
		writeError(w, http.StatusNotFound, "No matching fingerprint found")
	default:
		writeError(w, http.StatusBadGateway, "fingerprint bridge error")
	}
}
