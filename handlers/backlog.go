package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"gamelog/models"
)

// backlogStore is the storage surface for backlog items. The backlog is its
// own collection; writes here never touch the content cache.
type backlogStore interface {
	ListBacklog() ([]models.BacklogItem, error)
	CreateBacklogItem(item *models.BacklogItem) error
}

// BacklogHandler serves the play-next backlog endpoints.
type BacklogHandler struct {
	Store backlogStore
}

// NewBacklogHandler creates a new BacklogHandler.
func NewBacklogHandler(store backlogStore) *BacklogHandler {
	return &BacklogHandler{Store: store}
}

// ListBacklog returns all backlog items.
func (h *BacklogHandler) ListBacklog(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListBacklog()
	if err != nil {
		log.Printf("[backlog] list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch backlog")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateBacklogItem adds a new backlog entry.
func (h *BacklogHandler) CreateBacklogItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "Missing title")
		return
	}

	item := &models.BacklogItem{Title: strings.TrimSpace(req.Title)}
	if err := h.Store.CreateBacklogItem(item); err != nil {
		log.Printf("[backlog] create failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create backlog item")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": item.ID})
}
