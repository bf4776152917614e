package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mozillazg/go-unidecode"

	"gamelog/models"
)

// Service resolves titles to catalog images and metadata, memoizing results
// (including confirmed misses) per (operation, title) for a bounded time.
// The per-title cache is independent of the content collection cache;
// invalidating one never touches the other.
type Service struct {
	client *igdbClient
	cache  *memoryCache
}

// detailsResolution is the cached variant for details lookups. NoMatch marks
// a confirmed catalog miss so repeat lookups do not hit the catalog again.
type detailsResolution struct {
	NoMatch bool
	Details models.GameDetails
}

// NewService creates a catalog service using the given Twitch credentials.
// httpc may be nil for the default client; ttlHours bounds how long resolved
// metadata is reused.
func NewService(clientID, clientSecret string, httpc *http.Client, ttlHours int) *Service {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &Service{
		client: newIGDBClient(clientID, clientSecret, httpc),
		cache:  newMemoryCache(time.Duration(ttlHours) * time.Hour),
	}
}

// ClearCache drops all memoized resolutions.
func (s *Service) ClearCache() {
	s.cache.clear()
}

// normalizeTitle produces the canonical cache-key form of a title. Unicode is
// transliterated so "Pokémon" and "Pokemon" share an entry.
func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(title)))
}

// ResolveCover returns the best image for a title's card view: a dedicated
// cover when the catalog has one, a landscape artwork otherwise, and a "none"
// result when it has neither. A none result is terminal, not an error.
func (s *Service) ResolveCover(ctx context.Context, title string) (models.CatalogImage, error) {
	norm := normalizeTitle(title)
	if norm == "" {
		return models.CatalogImage{}, ErrEmptyTitle
	}

	key := cacheKey("cover", norm)
	if cached, ok := s.cache.get(key); ok {
		return cached.(models.CatalogImage), nil
	}

	query := fmt.Sprintf(`search "%s"; fields name, cover.image_id, artworks.image_id; limit 1;`,
		escapeQuery(strings.TrimSpace(title)))
	games, err := s.client.searchGames(ctx, query)
	if err != nil {
		return models.CatalogImage{}, err
	}

	img := models.CatalogImage{Source: models.ImageSourceNone}
	if len(games) > 0 {
		game := games[0]
		switch {
		case game.Cover != nil && game.Cover.ImageID != "":
			img = models.CatalogImage{URL: coverImageURL(game.Cover.ImageID), Source: models.ImageSourceCover}
		case len(game.Artworks) > 0 && game.Artworks[0].ImageID != "":
			img = models.CatalogImage{URL: artworkImageURL(game.Artworks[0].ImageID), Source: models.ImageSourceArtwork}
		}
	}

	s.cache.set(key, img)
	return img, nil
}

// ResolveBanner returns a landscape artwork for a title, or a "none" result
// when the catalog has no artwork for it.
func (s *Service) ResolveBanner(ctx context.Context, title string) (models.CatalogImage, error) {
	norm := normalizeTitle(title)
	if norm == "" {
		return models.CatalogImage{}, ErrEmptyTitle
	}

	key := cacheKey("banner", norm)
	if cached, ok := s.cache.get(key); ok {
		return cached.(models.CatalogImage), nil
	}

	query := fmt.Sprintf(`search "%s"; fields name, artworks.image_id; limit 1;`,
		escapeQuery(strings.TrimSpace(title)))
	games, err := s.client.searchGames(ctx, query)
	if err != nil {
		return models.CatalogImage{}, err
	}

	img := models.CatalogImage{Source: models.ImageSourceNone}
	if len(games) > 0 && len(games[0].Artworks) > 0 && games[0].Artworks[0].ImageID != "" {
		img = models.CatalogImage{URL: artworkImageURL(games[0].Artworks[0].ImageID), Source: models.ImageSourceArtwork}
	}

	s.cache.set(key, img)
	return img, nil
}

// ResolveDetails returns genres, companies, and a banner artwork for a title.
// Returns ErrNoMatch when the catalog has no entry; that outcome is cached so
// unknown titles do not hammer the catalog.
func (s *Service) ResolveDetails(ctx context.Context, title string) (models.GameDetails, error) {
	norm := normalizeTitle(title)
	if norm == "" {
		return models.GameDetails{}, ErrEmptyTitle
	}

	key := cacheKey("details", norm)
	if cached, ok := s.cache.get(key); ok {
		res := cached.(detailsResolution)
		if res.NoMatch {
			return models.GameDetails{}, ErrNoMatch
		}
		return res.Details, nil
	}

	query := fmt.Sprintf(`search "%s"; fields name,artworks.image_id,genres.name,involved_companies.company.name,involved_companies.developer,involved_companies.publisher; limit 1;`,
		escapeQuery(strings.TrimSpace(title)))
	games, err := s.client.searchGames(ctx, query)
	if err != nil {
		return models.GameDetails{}, err
	}

	if len(games) == 0 {
		s.cache.set(key, detailsResolution{NoMatch: true})
		return models.GameDetails{}, ErrNoMatch
	}

	details := buildDetails(games[0])
	s.cache.set(key, detailsResolution{Details: details})
	return details, nil
}

// buildDetails maps a catalog game onto GameDetails with empty-list defaults.
// A company lands in both lists when both role flags are set.
func buildDetails(game igdbGame) models.GameDetails {
	details := models.GameDetails{
		Genres:     []string{},
		Developers: []string{},
		Publishers: []string{},
	}
	if len(game.Artworks) > 0 && game.Artworks[0].ImageID != "" {
		details.ArtworkURL = artworkImageURL(game.Artworks[0].ImageID)
	}
	for _, g := range game.Genres {
		if g.Name != "" {
			details.Genres = append(details.Genres, g.Name)
		}
	}
	for _, ic := range game.InvolvedCompanies {
		if ic.Company.Name == "" {
			continue
		}
		if ic.Developer {
			details.Developers = append(details.Developers, ic.Company.Name)
		}
		if ic.Publisher {
			details.Publishers = append(details.Publishers, ic.Company.Name)
		}
	}
	return details
}
