package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/k1networth/civicdesk/internal/request"
	"github.com/k1networth/civicdesk/internal/shared/requestid"
)

type apiErrorResponse struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type Handler struct {
	Log   *slog.Logger
	Store Store
}

// Requests handles the collection route: GET lists (optionally filtered by
// ?q=), POST creates.
func (h *Handler) Requests(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

// RequestByID handles the item route: PUT updates, DELETE removes.
func (h *Handler) RequestByID(w http.ResponseWriter, r *http.Request, id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		writeError(w, r, http.StatusNotFound, "not_found", "not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.Log.Error("request_list_failed", slog.String("err", err.Error()))
		writeError(w, r, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.decode(w, r)
	if !ok {
		return
	}
	rec.ID = ""

	created, err := h.Store.Create(r.Context(), rec)
	if err != nil {
		h.Log.Error("request_create_failed", slog.String("err", err.Error()))
		writeError(w, r, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id string) {
	rec, ok := h.decode(w, r)
	if !ok {
		return
	}

	updated, err := h.Store.Update(r.Context(), id, rec)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "not_found", "not found")
			return
		}
		h.Log.Error("request_update_failed", slog.String("id", id), slog.String("err", err.Error()))
		writeError(w, r, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.Store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "not_found", "not found")
			return
		}
		h.Log.Error("request_delete_failed", slog.String("id", id), slog.String("err", err.Error()))
		writeError(w, r, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads and validates a record body. It writes the error response
// itself and reports whether the caller should proceed.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (request.ServiceRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var rec request.ServiceRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&rec); err != nil {
		msg := "invalid json"
		if errors.Is(err, io.EOF) {
			msg = "empty body"
		}
		writeError(w, r, http.StatusBadRequest, "validation_error", msg)
		return request.ServiceRequest{}, false
	}
	if dec.More() {
		writeError(w, r, http.StatusBadRequest, "validation_error", "invalid json")
		return request.ServiceRequest{}, false
	}

	rec.Name = strings.TrimSpace(rec.Name)
	rec.ServiceType = strings.TrimSpace(rec.ServiceType)
	if rec.Status == "" {
		rec.Status = request.StatusPending
	}
	if !rec.Status.Valid() {
		writeError(w, r, http.StatusBadRequest, "validation_error", "invalid status")
		return request.ServiceRequest{}, false
	}
	if err := rec.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, "validation_error", err.Error())
		return request.ServiceRequest{}, false
	}

	return rec, true
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	rid := requestid.Get(r.Context())

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiErrorResponse{
		Error: apiError{Code: code, Message: message, RequestID: rid},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
