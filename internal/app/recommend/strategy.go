// Package recommend turns mood parameters into a ranked, diversified,
// preview-enriched track list.
package recommend

import (
	"context"

	"github.com/smnm1998/woowacourse-artune/internal/domain/mood"
	"github.com/smnm1998/woowacourse-artune/internal/domain/track"
)

// CatalogClient defines the catalog operations the recommendation pipeline
// needs.
type CatalogClient interface {
	// Authenticate (re-)acquires catalog credentials.
	Authenticate(ctx context.Context) error
	// SearchTracks searches tracks by free-text query.
	SearchTracks(ctx context.Context, query string, limit int) ([]track.Track, error)
	// SearchArtists searches artists by free-text query.
	SearchArtists(ctx context.Context, query string, limit int) ([]track.ArtistSummary, error)
	// ArtistTopTracks retrieves the artist's top tracks in the configured
	// market.
	ArtistTopTracks(ctx context.Context, artistID string) ([]track.Track, error)
	// AudioDescriptors retrieves audio descriptors for the given track IDs.
	// Tracks without descriptors are simply absent from the map.
	AudioDescriptors(ctx context.Context, trackIDs []string) (map[string]track.AudioDescriptor, error)
}

// Strategy retrieves raw candidate tracks for the given mood. Different
// implementations trade query precision against candidate variety.
type Strategy interface {
	// Candidates retrieves the raw candidate pool.
	Candidates(ctx context.Context, params mood.Parameters) ([]track.Track, error)

	// Name returns the strategy name (used in config).
	Name() string
}

// moodKeywords derives a search phrase from valence/energy discretized into
// low/mid/high buckets.
func moodKeywords(valence, energy float64) string {
	v := bucket(valence)
	e := bucket(energy)

	phrases := map[[2]string]string{
		{"high", "high"}: "happy upbeat energetic",
		{"high", "mid"}:  "cheerful bright feel good",
		{"high", "low"}:  "warm sunny mellow",
		{"mid", "high"}:  "vibrant dynamic driving",
		{"mid", "mid"}:   "smooth groovy easygoing",
		{"mid", "low"}:   "calm laid back chill",
		{"low", "high"}:  "intense dark powerful",
		{"low", "mid"}:   "moody melancholic emotional",
		{"low", "low"}:   "sad slow ballad",
	}
	return phrases[[2]string{v, e}]
}

func bucket(v float64) string {
	switch {
	case v < 0.35:
		return "low"
	case v <= 0.65:
		return "mid"
	default:
		return "high"
	}
}
