package genres

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"gamelog/models"
	"gamelog/services/catalog"
)

// ContentLister supplies the unfiltered content collection. Aggregation is an
// internal metric, so no visibility filtering applies.
type ContentLister interface {
	ListUnfiltered() ([]models.ContentRecord, error)
}

// DetailsResolver resolves per-title catalog details.
type DetailsResolver interface {
	ResolveDetails(ctx context.Context, title string) (models.GameDetails, error)
}

// Service builds a genre histogram over the distinct reviewed titles.
// Lookups hit the catalog service's per-title cache, so repeat aggregations
// after the first are cheap.
type Service struct {
	content ContentLister
	catalog DetailsResolver
	workers int
}

// NewService creates a genre aggregation service.
func NewService(content ContentLister, catalog DetailsResolver) *Service {
	return &Service{content: content, catalog: catalog, workers: 4}
}

// Histogram resolves details for every distinct title and folds the genre
// lists into counts. A single title's failure is logged and skipped; the
// histogram still covers every title that resolved.
func (s *Service) Histogram(ctx context.Context) (models.GenreHistogram, error) {
	records, err := s.content.ListUnfiltered()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	titles := []string{}
	for _, rec := range records {
		norm := strings.ToLower(strings.TrimSpace(rec.Title))
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		titles = append(titles, rec.Title)
	}

	var mu sync.Mutex
	histogram := models.GenreHistogram{}

	// Fan out with a small bound; the catalog client paces its own outbound
	// requests, this just keeps aggregation from serializing on latency.
	p := pool.New().WithMaxGoroutines(s.workers)
	for _, title := range titles {
		p.Go(func() {
			details, err := s.catalog.ResolveDetails(ctx, title)
			if errors.Is(err, catalog.ErrNoMatch) {
				return
			}
			if err != nil {
				log.Printf("[genres] skipping %q: %v", title, err)
				return
			}
			mu.Lock()
			for _, genre := range details.Genres {
				histogram[genre]++
			}
			mu.Unlock()
		})
	}
	p.Wait()

	return histogram, nil
}
