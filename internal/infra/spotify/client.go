// Package spotify provides a catalog client for the Spotify Web API using the
// client-credentials flow.
package spotify

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/smnm1998/woowacourse-artune/internal/domain/track"
)

// ErrAuthExpired marks errors caused by an expired or rejected catalog
// credential. Callers recover by re-authenticating once and retrying.
var ErrAuthExpired = errors.New("catalog authentication expired")

// IsAuthExpired reports whether err carries the auth-expiry signal.
func IsAuthExpired(err error) bool {
	return errors.Is(err, ErrAuthExpired)
}

// AuthSession is the credential state obtained from one client-credentials
// grant.
type AuthSession struct {
	AccessToken string
	Expiry      time.Time
}

// Config represents catalog client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	Market       string
	// Timeout bounds each API call; zero means 15s.
	Timeout time.Duration
}

// Client is a Spotify Web API client. The session is process-wide and lazily
// refreshed; token acquisition is deliberately not single-flighted, so two
// concurrent callers observing a missing session may both issue a grant. The
// redundant acquisition is idempotent and cheap; the mutex below only makes
// the pointer swap safe.
type Client struct {
	clientID     string
	clientSecret string
	market       string
	timeout      time.Duration

	// tokenURL is overridable in tests.
	tokenURL string

	mu      sync.Mutex // guards api/session swaps only, never the grant itself
	api     *spotify.Client
	session *AuthSession
}

// New creates a new catalog client. No network call is made until the first
// operation needs a session.
func New(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("spotify credentials are required")
	}

	market := cfg.Market
	if market == "" {
		market = "KR"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		market:       market,
		timeout:      timeout,
		tokenURL:     spotifyauth.TokenURL,
	}
	return c, nil
}

// Authenticate acquires a fresh access token via the client-credentials grant
// and rebuilds the underlying API client.
func (c *Client) Authenticate(ctx context.Context) error {
	grant := &clientcredentials.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		TokenURL:     c.tokenURL,
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	token, err := grant.Token(ctx)
	if err != nil {
		return errors.Wrap(err, "client credentials grant failed")
	}

	httpClient := spotifyauth.New().Client(context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: c.timeout}), token)
	api := spotify.New(httpClient)

	c.mu.Lock()
	c.api = api
	c.session = &AuthSession{AccessToken: token.AccessToken, Expiry: token.Expiry}
	c.mu.Unlock()

	zlog.Debug().Msgf("catalog session acquired: expiry=%s", token.Expiry.Format(time.RFC3339))
	return nil
}

// Session returns the current auth session, or nil before the first grant.
func (c *Client) Session() *AuthSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// ensureAPI returns the API client, authenticating lazily on first use.
func (c *Client) ensureAPI(ctx context.Context) (*spotify.Client, error) {
	c.mu.Lock()
	api := c.api
	c.mu.Unlock()
	if api != nil {
		return api, nil
	}
	if err := c.Authenticate(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	api = c.api
	c.mu.Unlock()
	return api, nil
}

// SearchTracks searches tracks by free-text query in the configured market.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]track.Track, error) {
	if query == "" {
		return nil, errors.New("search query is required")
	}
	limit = clampLimit(limit)

	api, err := c.ensureAPI(ctx)
	if err != nil {
		return nil, err
	}

	result, err := api.Search(ctx, query, spotify.SearchTypeTrack,
		spotify.Limit(limit), spotify.Market(c.market))
	if err != nil {
		return nil, wrapAPIError(err, "track search failed")
	}
	if result.Tracks == nil {
		return []track.Track{}, nil
	}

	tracks := make([]track.Track, 0, len(result.Tracks.Tracks))
	for i := range result.Tracks.Tracks {
		tracks = append(tracks, convertTrack(&result.Tracks.Tracks[i]))
	}
	return tracks, nil
}

// SearchArtists searches artists by free-text query.
func (c *Client) SearchArtists(ctx context.Context, query string, limit int) ([]track.ArtistSummary, error) {
	if query == "" {
		return nil, errors.New("search query is required")
	}
	limit = clampLimit(limit)

	api, err := c.ensureAPI(ctx)
	if err != nil {
		return nil, err
	}

	result, err := api.Search(ctx, query, spotify.SearchTypeArtist, spotify.Limit(limit))
	if err != nil {
		return nil, wrapAPIError(err, "artist search failed")
	}
	if result.Artists == nil {
		return []track.ArtistSummary{}, nil
	}

	artists := make([]track.ArtistSummary, 0, len(result.Artists.Artists))
	for _, a := range result.Artists.Artists {
		artists = append(artists, track.ArtistSummary{
			ID:         string(a.ID),
			Name:       a.Name,
			Popularity: int(a.Popularity),
			Genres:     a.Genres,
		})
	}
	return artists, nil
}

// ArtistTopTracks retrieves an artist's top tracks in the configured market.
func (c *Client) ArtistTopTracks(ctx context.Context, artistID string) ([]track.Track, error) {
	if artistID == "" {
		return nil, errors.New("artist id is required")
	}

	api, err := c.ensureAPI(ctx)
	if err != nil {
		return nil, err
	}

	results, err := api.GetArtistsTopTracks(ctx, spotify.ID(artistID), c.market)
	if err != nil {
		return nil, wrapAPIError(err, "top tracks lookup failed")
	}

	tracks := make([]track.Track, 0, len(results))
	for i := range results {
		tracks = append(tracks, convertTrack(&results[i]))
	}
	return tracks, nil
}

// audioFeatureBatchSize is the API maximum per request.
const audioFeatureBatchSize = 100

// AudioDescriptors retrieves audio descriptors for the given track IDs.
// Tracks the catalog has no features for are absent from the map; the feature
// endpoint is deprecated upstream, so callers must tolerate an error here.
func (c *Client) AudioDescriptors(ctx context.Context, trackIDs []string) (map[string]track.AudioDescriptor, error) {
	descriptors := make(map[string]track.AudioDescriptor, len(trackIDs))
	if len(trackIDs) == 0 {
		return descriptors, nil
	}

	api, err := c.ensureAPI(ctx)
	if err != nil {
		return nil, err
	}

	for start := 0; start < len(trackIDs); start += audioFeatureBatchSize {
		end := start + audioFeatureBatchSize
		if end > len(trackIDs) {
			end = len(trackIDs)
		}
		batch := make([]spotify.ID, 0, end-start)
		for _, id := range trackIDs[start:end] {
			batch = append(batch, spotify.ID(id))
		}

		features, err := api.GetAudioFeatures(ctx, batch...)
		if err != nil {
			return nil, wrapAPIError(err, "audio features lookup failed")
		}
		for _, f := range features {
			if f == nil {
				continue
			}
			descriptors[string(f.ID)] = track.AudioDescriptor{
				Valence:          float64(f.Valence),
				Energy:           float64(f.Energy),
				Tempo:            float64(f.Tempo),
				Instrumentalness: float64(f.Instrumentalness),
			}
		}
	}

	return descriptors, nil
}

// TrackURL returns the public catalog URL for a track.
func TrackURL(trackID string) string {
	return fmt.Sprintf("https://open.spotify.com/track/%s", trackID)
}

// wrapAPIError wraps a zmb3 client error, marking 401s with ErrAuthExpired so
// the orchestrator can re-authenticate and retry.
func wrapAPIError(err error, msg string) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return errors.Mark(errors.Wrap(err, msg), ErrAuthExpired)
	}
	return errors.Wrap(err, msg)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 50 {
		return 50
	}
	return limit
}

// convertTrack converts a catalog FullTrack to the domain track.
func convertTrack(t *spotify.FullTrack) track.Track {
	artists := make([]track.Artist, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, track.Artist{ID: string(a.ID), Name: a.Name})
	}

	var imageURL string
	if len(t.Album.Images) > 0 {
		imageURL = t.Album.Images[0].URL
	}

	return track.Track{
		ID:      string(t.ID),
		Name:    t.Name,
		Artists: artists,
		Album: track.Album{
			ID:          string(t.Album.ID),
			Name:        t.Album.Name,
			ImageURL:    imageURL,
			TotalTracks: int(t.Album.TotalTracks),
			ReleaseDate: t.Album.ReleaseDate,
			URL:         t.Album.ExternalURLs["spotify"],
			AlbumType:   t.Album.AlbumType,
		},
		Popularity: int(t.Popularity),
		DurationMs: int(t.Duration),
		PreviewURL: t.PreviewURL,
		URL:        TrackURL(string(t.ID)),
	}
}
