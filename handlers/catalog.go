package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"gamelog/models"
	"gamelog/services/catalog"
)

// imageResolver is the catalog surface the handler needs.
type imageResolver interface {
	ResolveCover(ctx context.Context, title string) (models.CatalogImage, error)
	ResolveBanner(ctx context.Context, title string) (models.CatalogImage, error)
	ResolveDetails(ctx context.Context, title string) (models.GameDetails, error)
}

// CatalogHandler serves cover, banner, and details lookups.
type CatalogHandler struct {
	Resolver imageResolver
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(resolver imageResolver) *CatalogHandler {
	return &CatalogHandler{Resolver: resolver}
}

// GetCover returns the best card image for a title.
func (h *CatalogHandler) GetCover(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		writeError(w, http.StatusBadRequest, "Missing title param")
		return
	}

	img, err := h.Resolver.ResolveCover(r.Context(), title)
	if err != nil {
		h.writeResolveError(w, title, err)
		return
	}
	if img.None() {
		log.Printf("[catalog] no cover found for %q", title)
		writeError(w, http.StatusNotFound, "No cover found")
		return
	}
	writeJSON(w, http.StatusOK, img)
}

// GetBanner returns landscape artwork for a title.
func (h *CatalogHandler) GetBanner(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		writeError(w, http.StatusBadRequest, "Missing title param")
		return
	}

	img, err := h.Resolver.ResolveBanner(r.Context(), title)
	if err != nil {
		h.writeResolveError(w, title, err)
		return
	}
	if img.None() {
		writeError(w, http.StatusNotFound, "No artwork found")
		return
	}
	writeJSON(w, http.StatusOK, img)
}

// GetDetails returns genres, companies, and banner artwork for a title.
func (h *CatalogHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		writeError(w, http.StatusBadRequest, "Missing title")
		return
	}

	details, err := h.Resolver.ResolveDetails(r.Context(), title)
	if errors.Is(err, catalog.ErrNoMatch) {
		writeError(w, http.StatusNotFound, "Game not found")
		return
	}
	if err != nil {
		h.writeResolveError(w, title, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// writeResolveError maps resolver failures onto the HTTP surface. "Could not
// determine" (upstream broken) stays distinct from "confirmed no match".
func (h *CatalogHandler) writeResolveError(w http.ResponseWriter, title string, err error) {
	log.Printf("[catalog] resolve failed for %q: %v", title, err)
	switch {
	case errors.Is(err, catalog.ErrEmptyTitle):
		writeError(w, http.StatusBadRequest, "Missing title param")
	case errors.Is(err, catalog.ErrCatalogUnreachable):
		writeError(w, http.StatusBadGateway, "Failed to fetch from catalog")
	default:
		writeError(w, http.StatusInternalServerError, "Failed to resolve title")
	}
}
