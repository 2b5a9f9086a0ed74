package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ivanjaven/extension/internal/services"
	"github.com/ivanjaven/extension/internal/store"
	"github.com/ivanjaven/extension/types"
)

// ResidentHandler provides HTTP handlers for the resident registry.
type ResidentHandler struct {
	residents *services.ResidentService
}

// NewResidentHandler constructs a handler with the provided service.
func NewResidentHandler(residents *services.ResidentService) *ResidentHandler {
	return &ResidentHandler{residents: residents}
}

// ResidentRouter registers resident routes on the given router. All routes
// sit behind the session gate; registration and archival additionally require
// a staff or admin role.
func ResidentRouter(r chi.Router, residents *services.ResidentService) {
	handler := NewResidentHandler(residents)

	r.With(requireRole(types.RoleAdmin, types.RoleStaff)).Post("/", handler.Register)
	r.Route("/{residentID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.Get("/photo", handler.Photo)
		r.With(requireRole(types.RoleAdmin, types.RoleStaff)).Put("/", handler.Update)
		r.With(requireRole(types.RoleAdmin)).Delete("/", handler.Archive)
	})
}

// RegisterRequest is the enrollment payload: registry fields, credentials,
// and the captured biometrics.
type RegisterRequest struct {
	FirstName      string `json:"first_name"`
	MiddleName     string `json:"middle_name"`
	LastName       string `json:"last_name"`
	Gender         string `json:"gender"`
	DateOfBirth    string `json:"date_of_birth"`
	CivilStatus    string `json:"civil_status"`
	HouseNumber    string `json:"house_number"`
	StreetID       int    `json:"street_id"`
	Email          string `json:"email"`
	Mobile         string `json:"mobile"`
	OccupationID   int    `json:"occupation_id"`
	NationalityID  int    `json:"nationality_id"`
	ReligionID     int    `json:"religion_id"`
	BenefitID      int    `json:"benefit_id"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	Photo          string `json:"photo"`
	FaceDescriptor string `json:"face_descriptor"`
	FingerprintFMD string `json:"fingerprint_fmd"`
}

// RegisterResponse pairs the created resident with its account identity.
type RegisterResponse struct {
	Resident types.Resident `json:"resident"`
	Account  types.Account  `json:"account"`
}

func (h *ResidentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Username = strings.TrimSpace(req.Username)
	if req.FirstName == "" || req.LastName == "" || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	birthDate, err := time.Parse("2006-01-02", strings.TrimSpace(req.DateOfBirth))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date of birth")
		return
	}

	resident, account, err := h.residents.Register(r.Context(), services.Registration{
		Resident: types.Resident{
			FirstName:     req.FirstName,
			MiddleName:    strings.TrimSpace(req.MiddleName),
			LastName:      req.LastName,
			Gender:        req.Gender,
			DateOfBirth:   birthDate,
			CivilStatus:   req.CivilStatus,
			HouseNumber:   req.HouseNumber,
			StreetID:      req.StreetID,
			Email:         strings.TrimSpace(req.Email),
			Mobile:        strings.TrimSpace(req.Mobile),
			OccupationID:  req.OccupationID,
			NationalityID: req.NationalityID,
			ReligionID:    req.ReligionID,
			BenefitID:     req.BenefitID,
		},
		Username:       req.Username,
		Password:       req.Password,
		Role:           strings.TrimSpace(req.Role),
		PhotoBase64:    req.Photo,
		FaceDescriptor: req.FaceDescriptor,
		FingerprintFMD: req.FingerprintFMD,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to register resident")
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{Resident: resident, Account: account})
}

func (h *ResidentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseResidentID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resident, err := h.residents.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "resident not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch resident")
		return
	}

	writeJSON(w, http.StatusOK, resident)
}

// Photo streams the resident's stored photo from object storage.
func (h *ResidentHandler) Photo(w http.ResponseWriter, r *http.Request) {
	id, err := parseResidentID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reader, err := h.residents.Photo(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "photo not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch photo")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	_, _ = io.Copy(w, reader)
}

func (h *ResidentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseResidentID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var resident types.Resident
	if err := json.NewDecoder(r.Body).Decode(&resident); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	resident.ResidentID = id

	updated, err := h.residents.Update(r.Context(), resident)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "resident not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update resident")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ResidentHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, err := parseResidentID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.residents.Archive(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "resident not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to archive resident")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseResidentID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "residentID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid resident id")
	}
	return id, nil
}
