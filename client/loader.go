package client

import (
	"context"
	"sync"

	"gamelog/models"
)

// coverFetcher is the lookup surface CoverLoader needs from Client.
type coverFetcher interface {
	FetchCover(ctx context.Context, title string) (models.CatalogImage, error)
}

// detailsFetcher is the lookup surface BannerLoader needs from Client.
type detailsFetcher interface {
	FetchDetails(ctx context.Context, title string) (*models.GameDetails, error)
}

// CoverState is a consumer-facing snapshot of a cover lookup.
type CoverState struct {
	URL     string
	Source  string
	Loading bool
	Err     error
}

// CoverLoader tracks the cover image for whichever title was requested most
// recently. Lookups go through the shared throttle lane; responses for
// superseded requests are discarded so a slow reply for an old title never
// overwrites the state of a newer one.
type CoverLoader struct {
	fetcher  coverFetcher
	throttle *Throttle

	mu    sync.Mutex
	gen   uint64
	state CoverState
}

// NewCoverLoader creates a loader that paces its lookups through throttle.
func NewCoverLoader(fetcher coverFetcher, throttle *Throttle) *CoverLoader {
	return &CoverLoader{fetcher: fetcher, throttle: throttle}
}

// Load requests the cover for title. It returns immediately; the returned
// channel closes once this request's response has been applied or discarded.
func (l *CoverLoader) Load(ctx context.Context, title string) <-chan struct{} {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.state.Loading = true
	l.state.Err = nil
	l.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		value, err := l.throttle.Enqueue(func() (any, error) {
			return l.fetcher.FetchCover(ctx, title)
		})

		l.mu.Lock()
		defer l.mu.Unlock()
		if gen != l.gen {
			// A newer request was issued while this one was pending;
			// last request wins, this response is stale.
			return
		}
		if err != nil {
			l.state = CoverState{Source: models.ImageSourceNone, Err: err}
			return
		}
		img := value.(models.CatalogImage)
		l.state = CoverState{URL: img.URL, Source: img.Source}
	}()
	return done
}

// State returns the current snapshot.
func (l *CoverLoader) State() CoverState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// BannerState is a consumer-facing snapshot of a banner/details lookup.
type BannerState struct {
	ImageURL string
	Details  *models.GameDetails
	Loading  bool
	Err      error
}

// BannerLoader tracks banner artwork and details for the most recently
// requested title, with the same last-request-wins rule as CoverLoader.
type BannerLoader struct {
	fetcher  detailsFetcher
	throttle *Throttle

	mu    sync.Mutex
	gen   uint64
	state BannerState
}

// NewBannerLoader creates a loader that paces its lookups through throttle.
func NewBannerLoader(fetcher detailsFetcher, throttle *Throttle) *BannerLoader {
	return &BannerLoader{fetcher: fetcher, throttle: throttle}
}

// Load requests details for title. The returned channel closes once this
// request's response has been applied or discarded.
func (l *BannerLoader) Load(ctx context.Context, title string) <-chan struct{} {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.state.Loading = true
	l.state.Err = nil
	l.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		value, err := l.throttle.Enqueue(func() (any, error) {
			return l.fetcher.FetchDetails(ctx, title)
		})

		l.mu.Lock()
		defer l.mu.Unlock()
		if gen != l.gen {
			return
		}
		if err != nil {
			l.state = BannerState{Err: err}
			return
		}
		details, _ := value.(*models.GameDetails)
		if details == nil {
			l.state = BannerState{}
			return
		}
		l.state = BannerState{ImageURL: details.ArtworkURL, Details: details}
	}()
	return done
}

// State returns the current snapshot.
func (l *BannerLoader) State() BannerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}
