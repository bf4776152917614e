package content

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"gamelog/internal/database"
	"gamelog/models"
)

var (
	// ErrValidation marks a rejected payload; mapped to 400 at the route boundary.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden means the caller is authenticated but does not own the record.
	ErrForbidden = errors.New("not the record owner")
	// ErrNotFound is re-exported so handlers do not reach into the store package.
	ErrNotFound = database.ErrNotFound
)

// Store is the document-store surface the service depends on.
type Store interface {
	ListAll() ([]models.ContentRecord, error)
	Get(id string) (*models.ContentRecord, error)
	Create(rec *models.ContentRecord) error
	Update(rec *models.ContentRecord) error
	Delete(id string) error
}

// Service serves the review collection through a process-wide snapshot cache.
// The cache always holds the unfiltered collection; visibility filtering runs
// per request because the caller's authentication state varies while the
// snapshot is shared. Any successful mutation invalidates the snapshot
// synchronously, so the owner's next read reflects the write before the TTL
// would naturally expire.
type Service struct {
	store Store

	mu        sync.Mutex
	snapshot  []models.ContentRecord
	expiresAt time.Time
	ttl       time.Duration
}

// NewService creates a content service with the given snapshot TTL.
func NewService(store Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Service{store: store, ttl: ttl}
}

// List returns the visible collection for the caller, optionally narrowed to
// an exact (case-insensitive) title match. Visibility filtering runs first;
// title narrowing is a pure predicate over the already-filtered set.
func (s *Service) List(isAuthenticated bool, titleFilter string) ([]models.ContentRecord, error) {
	records, err := s.ListUnfiltered()
	if err != nil {
		return nil, err
	}

	records = ApplyVisibility(records, isAuthenticated)

	if t := strings.TrimSpace(titleFilter); t != "" {
		matched := []models.ContentRecord{}
		for _, rec := range records {
			if strings.EqualFold(rec.Title, t) {
				matched = append(matched, rec)
			}
		}
		records = matched
	}
	return records, nil
}

// ListUnfiltered returns the full cached collection with no visibility
// filtering applied. Used by internal consumers such as genre aggregation.
func (s *Service) ListUnfiltered() ([]models.ContentRecord, error) {
	s.mu.Lock()
	if s.snapshot != nil && time.Now().Before(s.expiresAt) {
		cached := s.snapshot
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	// Concurrent misses may both fetch; the second fill just overwrites.
	records, err := s.store.ListAll()
	if err != nil {
		return nil, fmt.Errorf("fetch content collection: %w", err)
	}

	s.mu.Lock()
	s.snapshot = records
	s.expiresAt = time.Now().Add(s.ttl)
	s.mu.Unlock()
	return records, nil
}

// Invalidate drops the cached snapshot so the next read fetches fresh data.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.snapshot = nil
	s.expiresAt = time.Time{}
	s.mu.Unlock()
}

// ApplyVisibility removes NSFW records for unauthenticated callers. A
// present-but-invalid credential is handled upstream and arrives here as
// isAuthenticated=false, so restricted content fails closed.
func ApplyVisibility(records []models.ContentRecord, isAuthenticated bool) []models.ContentRecord {
	if isAuthenticated {
		return records
	}
	visible := []models.ContentRecord{}
	for _, rec := range records {
		if !rec.NSFW {
			visible = append(visible, rec)
		}
	}
	return visible
}

// Create validates and stores a new review owned by authorUID, then
// invalidates the snapshot.
func (s *Service) Create(authorUID string, req models.CreateContentRequest) (*models.ContentRecord, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	if req.Rating < 0 || req.Rating > 10 {
		return nil, fmt.Errorf("%w: rating must be between 0 and 10", ErrValidation)
	}

	rec := &models.ContentRecord{
		Title:        strings.TrimSpace(req.Title),
		Rating:       req.Rating,
		Summary:      req.Summary,
		Content:      req.Content,
		GameplayTime: req.GameplayTime,
		Date:         time.Now().UTC(),
		AuthorUID:    authorUID,
		NSFW:         req.NSFW,
	}
	if err := s.store.Create(rec); err != nil {
		return nil, err
	}

	s.Invalidate()
	log.Printf("[content] created %s (%q) by %s", rec.ID, rec.Title, authorUID)
	return rec, nil
}

// Update applies a partial update to a record the caller owns, then
// invalidates the snapshot.
func (s *Service) Update(callerUID, id string, req models.UpdateContentRequest) (*models.ContentRecord, error) {
	rec, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if rec.AuthorUID != callerUID {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be blank", ErrValidation)
		}
		rec.Title = strings.TrimSpace(*req.Title)
	}
	if req.Rating != nil {
		if *req.Rating < 0 || *req.Rating > 10 {
			return nil, fmt.Errorf("%w: rating must be between 0 and 10", ErrValidation)
		}
		rec.Rating = *req.Rating
	}
	if req.Summary != nil {
		rec.Summary = *req.Summary
	}
	if req.Content != nil {
		rec.Content = *req.Content
	}
	if req.GameplayTime != nil {
		rec.GameplayTime = *req.GameplayTime
	}
	if req.NSFW != nil {
		rec.NSFW = *req.NSFW
	}

	if err := s.store.Update(rec); err != nil {
		return nil, err
	}

	s.Invalidate()
	log.Printf("[content] updated %s by %s", rec.ID, callerUID)
	return rec, nil
}

// Delete removes a record the caller owns, then invalidates the snapshot.
func (s *Service) Delete(callerUID, id string) error {
	rec, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if rec.AuthorUID != callerUID {
		return ErrForbidden
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}

	s.Invalidate()
	log.Printf("[content] deleted %s by %s", id, callerUID)
	return nil
}
