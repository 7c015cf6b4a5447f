// Package itunes provides a client for the iTunes Search API, used as an
// independent source of 30-second preview URLs.
package itunes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
)

// Client is an iTunes Search API client. The API is unauthenticated and
// rate-limited to roughly 20 calls per minute, so callers spread their
// requests in time.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// searchResponse represents the response from the search endpoint.
type searchResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		TrackName  string `json:"trackName"`
		ArtistName string `json:"artistName"`
		PreviewURL string `json:"previewUrl"`
	} `json:"results"`
}

// New creates a new iTunes client.
func New() *Client {
	return &Client{
		baseURL:    "https://itunes.apple.com/search",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// FindPreviewURL searches for the single best song match for artist+track in
// the given country and returns its preview URL. Matching is best-effort
// fuzzy matching performed upstream; an empty result set returns "" without
// error.
func (c *Client) FindPreviewURL(ctx context.Context, artistName, trackName, country string) (string, error) {
	params := url.Values{}
	params.Set("term", fmt.Sprintf("%s %s", artistName, trackName))
	params.Set("media", "music")
	params.Set("entity", "song")
	params.Set("limit", "1")
	if country != "" {
		params.Set("country", country)
	}

	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf("itunes search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read response body")
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", errors.Wrap(err, "failed to parse response")
	}

	if len(response.Results) == 0 {
		return "", nil
	}
	return response.Results[0].PreviewURL, nil
}
