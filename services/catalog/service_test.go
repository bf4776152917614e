package catalog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"gamelog/models"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

const tokenBody = `{"access_token":"test-token","expires_in":3600,"token_type":"bearer"}`

// newTestService builds a service whose outbound calls are served by fn.
// Token exchange is handled automatically unless fn claims the request first.
func newTestService(t *testing.T, fn func(req *http.Request, query string) (*http.Response, error)) (*Service, *atomic.Int64) {
	t.Helper()
	var searchCalls atomic.Int64
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if strings.Contains(req.URL.Host, "id.twitch.tv") {
				return jsonResponse(http.StatusOK, tokenBody), nil
			}
			searchCalls.Add(1)
			body, _ := io.ReadAll(req.Body)
			return fn(req, string(body))
		}),
	}
	svc := NewService("client-id", "client-secret", httpc, 24)
	svc.client.minInterval = 0
	return svc, &searchCalls
}

func TestResolveCoverFound(t *testing.T) {
	svc, _ := newTestService(t, func(req *http.Request, query string) (*http.Response, error) {
		if !strings.Contains(query, `search "Foo"`) {
			t.Errorf("unexpected query: %s", query)
		}
		if got := req.Header.Get("Client-ID"); got != "client-id" {
			t.Errorf("expected Client-ID header, got %q", got)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer token header, got %q", got)
		}
		return jsonResponse(http.StatusOK, `[{"name":"Foo","cover":{"image_id":"abc123"}}]`), nil
	})

	img, err := svc.ResolveCover(context.Background(), "Foo")
	if err != nil {
		t.Fatalf("ResolveCover failed: %v", err)
	}
	want := "https://images.igdb.com/igdb/image/upload/t_cover_big/abc123.jpg"
	if img.URL != want {
		t.Errorf("expected %s, got %s", want, img.URL)
	}
	if img.Source != models.ImageSourceCover {
		t.Errorf("expected source cover, got %s", img.Source)
	}
}

func TestResolveCoverCacheHit(t *testing.T) {
	svc, calls := newTestService(t, func(req *http.Request, query string) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[{"name":"Foo","cover":{"image_id":"abc123"}}]`), nil
	})

	if _, err := svc.ResolveCover(context.Background(), "Foo"); err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}
	if _, err := svc.ResolveCover(context.Background(), "Foo"); err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected exactly one catalog call within TTL, got %d", n)
	}
}

func TestResolveCoverNormalizedTitlesShareEntry(t *testing.T) {
	svc, calls := newTestService(t, func(req *http.Request, query string) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[{"name":"Pokemon","cover":{"image_id":"pk1"}}]`), nil
	})

	if _, err := svc.ResolveCover(context.Background(), "Pokémon"); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if _, err := svc.ResolveCover(context.Background(), "  pokemon "); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected normalized titles to share a cache entry, got %d calls", n)
	}
}

func TestResolveCoverFallsBackToArtwork(t *testing.T) {
	svc, _ := newTestService(t, func(req *http.Request, query string) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[{"name":"Bar","artworks":[{"image_id":"art9"}]}]`), nil
	})

	img, err := svc.ResolveCover(context.Background(), "Bar")
	if err != nil {
		t.Fatalf("ResolveCover failed: %v", err)
	}
	if img.Source != models.ImageSourceArtwork {
		t.Errorf("expected artwork fallback, got %s", img.Source)
	}
	if !strings.Contains(img.URL, "t_screenshot_huge/art9.jpg") {
		t.Errorf("unexpected artwork URL: %s", img.URL)
	}
}

func TestResolveCoverNoMatchIsNegativelyCached(t *testing.T) {
	svc, calls := newTestService(t, func(req *http.Request, query string) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[]`), nil
	})

	for i := 0; i < 2; i++ {
		img, err := svc.ResolveCover(context.Background(), "Unknown Game")
		if err != nil {
			t.Fatalf("resolve %d: no-match must not be an error, got %v", i, err)
		}
		if !img.None() {
			t.Fatalf("resolve %d: expected none result, got %+v", i, img)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected the miss to be negatively cached, got %d calls", n)
	}
}

func TestResolveCoverUnreachableNotCached(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	svc, calls := newTestService(t, func(req *http.Request, query string) (*http.Response, error) {
		if fail.Load() {
			return jsonResponse(http.StatusBadGateway, `{"message":"down"}`), nil
		}
		return jsonResponse(http.StatusOK, `[{"name":"Foo","cover":{"image_id":"abc123"}}]`), nil
	})

	_, err := svc.ResolveCover(context.Background(), "Foo")
	if !errors.Is(err, ErrCatalogUnreachable) {
		t.Fatalf("expected ErrCatalogUnreachable, got %v", err)
	}

	// The failure must not poison the cache; the next lookup tries again.
	fail.Store(false)
	img, err := svc.ResolveCover(context.Background(), "Foo")
	if err != nil {
		t.Fatalf("retry resolve failed: %v", err)
	}
	if img.Source != models.ImageSourceCover {
		t.Errorf("expected cover on retry, got %s", img.Source)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("expected 2 catalog calls, got %d", n)
	}
}

func TestResolveBannerArtworkOnly(t *testing.T) {
	svc, _ := newTestService(t, func(req *http.Request, query string) (*http.Response, error) {
		if strings.Contains(query, "cover.image_id") {
			t.Errorf("banner query must not request cover fields: %s", query)
		}
		return jsonResponse(http.StatusOK, `[{"name":"Foo","artworks":[{"image_id":"banner1"}]}]`), nil
	})

	img, err := svc.ResolveBanner(context.Background(), "Foo")
	if err != nil {
		t.Fatalf("ResolveBanner failed: %v", err)
	}
	if img.Source != models.ImageSourceArtwork {
		t.Errorf("expected artwork source, got %s", img.Source)
	}
}

func TestResolveDetails(t *testing.T) {
	svc, _ := newTestService(t, func(req *http.Request, query string) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[{
			"name":"Foo",
			"artworks":[{"image_id":"art1"}],
			"genres":[{"name":"RPG"},{"name":"Adventure"}],
			"involved_companies":[
				{"company":{"name":"DevCo"},"developer":true,"publisher":false},
				{"company":{"name":"BothCo"},"developer":true,"publisher":true},
				{"company":{"name":"PortCo"},"developer":false,"publisher":false}
			]
		}]`), nil
	})

	details, err := svc.ResolveDetails(context.Background(), "Foo")
	if err != nil {
		t.Fatalf("ResolveDetails failed: %v", err)
	}
	if !strings.Contains(details.ArtworkURL, "art1.jpg") {
		t.Errorf("unexpected artwork URL: %s", details.ArtworkURL)
	}
	if len(details.Genres) != 2 || details.Genres[0] != "RPG" {
		t.Errorf("unexpected genres: %v", details.Genres)
	}
	// BothCo carries both role flags and must appear in both lists.
	if len(details.Developers) != 2 || details.Developers[1] != "BothCo" {
		t.Errorf("unexpected developers: %v", details.Developers)
	}
	if len(details.Publishers) != 1 || details.Publishers[0] != "BothCo" {
		t.Errorf("unexpected publishers: %v", details.Publishers)
	}
}

func TestResolveDetailsNoMatchCached(t *testing.T) {
	svc, calls := newTestService(t, func(req *http.Request, query string) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[]`), nil
	})

	for i := 0; i < 2; i++ {
		if _, err := svc.ResolveDetails(context.Background(), "Unknown"); !errors.Is(err, ErrNoMatch) {
			t.Fatalf("resolve %d: expected ErrNoMatch, got %v", i, err)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected the miss to be negatively cached, got %d calls", n)
	}
}

func TestResolveDetailsEmptyOptionalLists(t *testing.T) {
	svc, _ := newTestService(t, func(req *http.Request, query string) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[{"name":"Foo"}]`), nil
	})

	details, err := svc.ResolveDetails(context.Background(), "Foo")
	if err != nil {
		t.Fatalf("ResolveDetails failed: %v", err)
	}
	if details.ArtworkURL != "" {
		t.Errorf("expected empty artwork URL, got %q", details.ArtworkURL)
	}
	if details.Genres == nil || details.Developers == nil || details.Publishers == nil {
		t.Error("optional lists must default to empty, not nil")
	}
}

func TestResolveEmptyTitle(t *testing.T) {
	svc, calls := newTestService(t, func(req *http.Request, query string) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[]`), nil
	})

	if _, err := svc.ResolveCover(context.Background(), "   "); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("empty title must be rejected before any external call, got %d", n)
	}
}

func TestCredentialFailurePropagates(t *testing.T) {
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if strings.Contains(req.URL.Host, "id.twitch.tv") {
				return jsonResponse(http.StatusForbidden, `{"message":"invalid client"}`), nil
			}
			t.Errorf("no games call should happen without a token")
			return jsonResponse(http.StatusOK, `[]`), nil
		}),
	}
	svc := NewService("bad-id", "bad-secret", httpc, 24)
	svc.client.minInterval = 0

	if _, err := svc.ResolveCover(context.Background(), "Foo"); !errors.Is(err, ErrCredentialUnavailable) {
		t.Fatalf("expected ErrCredentialUnavailable, got %v", err)
	}
}

func TestTokenReusedUntilExpiry(t *testing.T) {
	var tokenCalls atomic.Int64
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if strings.Contains(req.URL.Host, "id.twitch.tv") {
				tokenCalls.Add(1)
				return jsonResponse(http.StatusOK, tokenBody), nil
			}
			return jsonResponse(http.StatusOK, `[]`), nil
		}),
	}
	svc := NewService("client-id", "client-secret", httpc, 24)
	svc.client.minInterval = 0

	ctx := context.Background()
	if _, err := svc.ResolveCover(ctx, "A"); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if _, err := svc.ResolveCover(ctx, "B"); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if n := tokenCalls.Load(); n != 1 {
		t.Errorf("expected a single token exchange, got %d", n)
	}

	// Force expiry: the next lookup must replace, not append, the token.
	svc.client.mu.Lock()
	svc.client.tokenExpiry = time.Now().Add(-time.Minute)
	svc.client.mu.Unlock()
	if _, err := svc.ResolveCover(ctx, "C"); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if n := tokenCalls.Load(); n != 2 {
		t.Errorf("expected a second token exchange after expiry, got %d", n)
	}
}
