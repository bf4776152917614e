package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"gamelog/api"
	"gamelog/models"
	"gamelog/services/content"
)

// contentService is the collection surface the handler needs.
type contentService interface {
	List(isAuthenticated bool, titleFilter string) ([]models.ContentRecord, error)
	Create(authorUID string, req models.CreateContentRequest) (*models.ContentRecord, error)
	Update(callerUID, id string, req models.UpdateContentRequest) (*models.ContentRecord, error)
	Delete(callerUID, id string) error
}

// ContentHandler serves the review collection endpoints.
type ContentHandler struct {
	Service contentService
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(service contentService) *ContentHandler {
	return &ContentHandler{Service: service}
}

// ListContent returns the records visible to the caller, optionally narrowed
// to an exact title match.
func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.List(api.IsAuthenticated(r), r.URL.Query().Get("title"))
	if err != nil {
		log.Printf("[content] list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch content")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// CreateContent creates a new review owned by the authenticated caller.
func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.Service.Create(api.GetUserID(r), req)
	if err != nil {
		h.writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": rec.ID})
}

// UpdateContent applies a partial update to a record the caller owns.
func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.UpdateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.Service.Update(api.GetUserID(r), id, req)
	if err != nil {
		h.writeContentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeleteContent removes a record the caller owns.
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Service.Delete(api.GetUserID(r), id); err != nil {
		h.writeContentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContentHandler) writeContentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, content.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, content.ErrForbidden):
		writeError(w, http.StatusForbidden, "Not the record owner")
	case errors.Is(err, content.ErrNotFound):
		writeError(w, http.StatusNotFound, "Record not found")
	default:
		log.Printf("[content] request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
	}
}
