// Package trackfilter deduplicates and quality-filters raw candidate tracks
// before scoring.
package trackfilter

import (
	zlog "github.com/rs/zerolog/log"

	"github.com/smnm1998/woowacourse-artune/internal/domain/track"
)

// Options controls the popularity floor and its escape hatch.
type Options struct {
	// MinPopularity is the inclusive popularity floor applied after
	// deduplication.
	MinPopularity int
	// MinResultCount is the minimum number of tracks the popularity filter
	// must leave; when it leaves fewer, the floor is discarded and the
	// album-deduplicated list is used instead.
	MinResultCount int
}

// DefaultOptions mirrors the production tuning.
func DefaultOptions() Options {
	return Options{MinPopularity: 35, MinResultCount: 20}
}

// Stats records the track count after each stage, for observability and
// testing.
type Stats struct {
	Original         int
	AfterTrackDedupe int
	AfterAlbumDedupe int
	AfterPopularity  int
	Final            int
}

// Apply runs the filter pipeline: identity dedupe, album-name dedupe (one
// track per album name, first occurrence wins), popularity floor, and the
// fallback rule. Input order is preserved.
func Apply(tracks []track.Track, opts Options) ([]track.Track, Stats) {
	uniqueTracks := dedupeByID(tracks)
	uniqueAlbums := dedupeByAlbumName(uniqueTracks)
	popular := filterByPopularity(uniqueAlbums, opts.MinPopularity)

	final := popular
	if len(popular) < opts.MinResultCount {
		// Never return fewer candidates than necessary just to satisfy the
		// popularity bar.
		final = uniqueAlbums
	}

	stats := Stats{
		Original:         len(tracks),
		AfterTrackDedupe: len(uniqueTracks),
		AfterAlbumDedupe: len(uniqueAlbums),
		AfterPopularity:  len(popular),
		Final:            len(final),
	}
	zlog.Debug().Msgf("track filter: original=%d unique=%d albums=%d popular=%d final=%d",
		stats.Original, stats.AfterTrackDedupe, stats.AfterAlbumDedupe, stats.AfterPopularity, stats.Final)

	return final, stats
}

func dedupeByID(tracks []track.Track) []track.Track {
	seen := make(map[string]bool, len(tracks))
	result := make([]track.Track, 0, len(tracks))
	for _, t := range tracks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		result = append(result, t)
	}
	return result
}

// dedupeByAlbumName keeps at most one track per album name. Tracks without an
// album name are dropped.
func dedupeByAlbumName(tracks []track.Track) []track.Track {
	seen := make(map[string]bool, len(tracks))
	result := make([]track.Track, 0, len(tracks))
	for _, t := range tracks {
		name := t.Album.Name
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, t)
	}
	return result
}

func filterByPopularity(tracks []track.Track, minPopularity int) []track.Track {
	result := make([]track.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.Popularity >= minPopularity {
			result = append(result, t)
		}
	}
	return result
}
