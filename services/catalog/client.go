package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Minimal IGDB v4 client (Twitch client-credentials auth plus the one search
// endpoint we need).

const (
	defaultTokenURL = "https://id.twitch.tv/oauth2/token"
	defaultGamesURL = "https://api.igdb.com/v4/games"
	imageBaseURL    = "https://images.igdb.com/igdb/image/upload"
)

type igdbClient struct {
	clientID     string
	clientSecret string
	httpc        *http.Client

	tokenURL string
	gamesURL string

	// Singleton access token, replaced on expiry. At most one is live.
	mu          sync.Mutex
	token       string
	tokenExpiry time.Time

	throttleMu  sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

func newIGDBClient(clientID, clientSecret string, httpc *http.Client) *igdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &igdbClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpc:        httpc,
		tokenURL:     defaultTokenURL,
		gamesURL:     defaultGamesURL,
		minInterval:  20 * time.Millisecond,
	}
}

// igdbGame is the subset of the games search response we request.
// Nested arrays are optional in the wire format; absent means empty.
type igdbGame struct {
	Name              string                `json:"name"`
	Cover             *igdbImage            `json:"cover,omitempty"`
	Artworks          []igdbImage           `json:"artworks,omitempty"`
	Genres            []igdbNamed           `json:"genres,omitempty"`
	InvolvedCompanies []igdbInvolvedCompany `json:"involved_companies,omitempty"`
}

type igdbImage struct {
	ImageID string `json:"image_id"`
}

type igdbNamed struct {
	Name string `json:"name"`
}

// igdbInvolvedCompany carries independent role flags; a company may be both
// developer and publisher.
type igdbInvolvedCompany struct {
	Company   igdbNamed `json:"company"`
	Developer bool      `json:"developer"`
	Publisher bool      `json:"publisher"`
}

// ensureToken returns the cached app token, exchanging credentials for a
// fresh one when missing or within a minute of expiry.
func (c *igdbClient) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-1*time.Minute)) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCredentialUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token exchange: %v", ErrCredentialUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("%w: token exchange failed: %s: %s",
			ErrCredentialUnavailable, resp.Status, strings.TrimSpace(string(body)))
	}

	var data struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("%w: decode token response: %v", ErrCredentialUnavailable, err)
	}
	if data.AccessToken == "" {
		return "", fmt.Errorf("%w: token exchange returned empty token", ErrCredentialUnavailable)
	}

	c.token = data.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(data.ExpiresIn) * time.Second)
	log.Printf("[catalog] refreshed access token, expires in %ds", data.ExpiresIn)
	return c.token, nil
}

// searchGames runs one apicalypse query against the games endpoint and
// decodes the (possibly empty) result list.
func (c *igdbClient) searchGames(ctx context.Context, query string) ([]igdbGame, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	c.throttleMu.Lock()
	since := time.Since(c.lastRequest)
	if since < c.minInterval {
		time.Sleep(c.minInterval - since)
	}
	c.lastRequest = time.Now()
	c.throttleMu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gamesURL, strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnreachable, err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnreachable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("%w: games search failed: %s: %s",
			ErrCatalogUnreachable, resp.Status, strings.TrimSpace(string(body)))
	}

	var games []igdbGame
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("%w: decode games response: %v", ErrCatalogUnreachable, err)
	}
	return games, nil
}

// coverImageURL builds the portrait cover URL for an image ID.
func coverImageURL(imageID string) string {
	return fmt.Sprintf("%s/t_cover_big/%s.jpg", imageBaseURL, imageID)
}

// artworkImageURL builds the landscape banner URL for an image ID
// (t_screenshot_huge is 1280x720).
func artworkImageURL(imageID string) string {
	return fmt.Sprintf("%s/t_screenshot_huge/%s.jpg", imageBaseURL, imageID)
}

// escapeQuery escapes double quotes so a title can be embedded in an
// apicalypse search literal.
func escapeQuery(title string) string {
	return strings.ReplaceAll(title, `"`, `\"`)
}
