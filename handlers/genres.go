package handlers

import (
	"context"
	"log"
	"net/http"

	"gamelog/models"
)

// genreAggregator builds the genre histogram over the reviewed collection.
type genreAggregator interface {
	Histogram(ctx context.Context) (models.GenreHistogram, error)
}

// GenresHandler serves the genre distribution endpoint.
type GenresHandler struct {
	Aggregator genreAggregator
}

// NewGenresHandler creates a new GenresHandler.
func NewGenresHandler(aggregator genreAggregator) *GenresHandler {
	return &GenresHandler{Aggregator: aggregator}
}

// GetGenres returns genre occurrence counts across all distinct titles.
func (h *GenresHandler) GetGenres(w http.ResponseWriter, r *http.Request) {
	hist, err := h.Aggregator.Histogram(r.Context())
	if err != nil {
		log.Printf("[genres] aggregation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get genre distribution")
		return
	}
	writeJSON(w, http.StatusOK, hist)
}
