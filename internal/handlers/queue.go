package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ivanjaven/extension/internal/services"
	"github.com/ivanjaven/extension/internal/store"
	"github.com/ivanjaven/extension/types"
)

// QueueHandler provides HTTP handlers for the document request queue.
type QueueHandler struct {
	queue *services.QueueService
}

// NewQueueHandler constructs a handler with the provided service.
func NewQueueHandler(queue *services.QueueService) *QueueHandler {
	return &QueueHandler{queue: queue}
}

// QueueRouter registers queue routes on the given router.
func QueueRouter(r chi.Router, queue *services.QueueService) {
	handler := NewQueueHandler(queue)

	r.Post("/", handler.Insert)
	r.Get("/", handler.List)
	r.With(requireRole(types.RoleAdmin, types.RoleStaff)).Delete("/{queueID}", handler.Delete)
}

type QueueInsertRequest struct {
	ResidentID int    `json:"resident_id"`
	Document   string `json:"document"`
}

// QueueListResponse is the paginated queue payload.
type QueueListResponse struct {
	Items []types.QueueEntry `json:"items"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

func (h *QueueHandler) Insert(w http.ResponseWriter, r *http.Request) {
	var req QueueInsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.ResidentID < 1 || req.Document == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	created, err := h.queue.Insert(r.Context(), types.QueueItem{
		ResidentID: req.ResidentID,
		Document:   req.Document,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to queue request")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *QueueHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.queue.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list queue")
		return
	}

	writeJSON(w, http.StatusOK, QueueListResponse{Items: items, Page: page, Limit: limit})
}

func (h *QueueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "queueID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid queue id")
		return
	}

	if err := h.queue.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "queue item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete queue item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
