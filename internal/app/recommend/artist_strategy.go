package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/smnm1998/woowacourse-artune/internal/domain/mood"
	"github.com/smnm1998/woowacourse-artune/internal/domain/track"
)

// ArtistExpansionConfig represents the artist-expansion strategy settings.
type ArtistExpansionConfig struct {
	ArtistSearchLimit int   `yaml:"artist_search_limit" mapstructure:"artist_search_limit" default:"20" validate:"gte=1,lte=50"`
	PopularityFloor   int   `yaml:"popularity_floor" mapstructure:"popularity_floor" default:"40" validate:"gte=0,lte=100"`
	ArtistSampleSize  int   `yaml:"artist_sample_size" mapstructure:"artist_sample_size" default:"30" validate:"gte=1"`
	Seed              int64 `yaml:"seed" mapstructure:"seed"`
}

// ArtistExpansionStrategy searches artists per requested genre, keeps the
// popular ones, shuffles for variety, and samples one random top track from
// each artist to build the candidate pool.
type ArtistExpansionStrategy struct {
	catalog CatalogClient
	config  *ArtistExpansionConfig

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewArtistExpansionStrategy creates an artist-expansion strategy from
// settings. The seed setting makes sampling deterministic in tests; 0 seeds
// from the current time.
func NewArtistExpansionStrategy(catalog CatalogClient, settings map[string]any) (*ArtistExpansionStrategy, error) {
	if catalog == nil {
		return nil, errors.New("catalog client is required")
	}

	var config ArtistExpansionConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &ArtistExpansionStrategy{
		catalog: catalog,
		config:  &config,
		rng:     rand.New(rand.NewSource(seed)),
	}, nil
}

// Candidates retrieves the raw candidate pool. Per-artist lookup failures are
// absorbed: a degraded pool is still a valid pool.
func (s *ArtistExpansionStrategy) Candidates(ctx context.Context, params mood.Parameters) ([]track.Track, error) {
	artists, err := s.collectArtists(ctx, params.Genres)
	if err != nil {
		return nil, err
	}
	if len(artists) == 0 {
		return []track.Track{}, nil
	}

	s.rngMu.Lock()
	s.rng.Shuffle(len(artists), func(i, j int) {
		artists[i], artists[j] = artists[j], artists[i]
	})
	s.rngMu.Unlock()

	if len(artists) > s.config.ArtistSampleSize {
		artists = artists[:s.config.ArtistSampleSize]
	}

	candidates := make([]track.Track, 0, len(artists))
	for _, artist := range artists {
		topTracks, err := s.catalog.ArtistTopTracks(ctx, artist.ID)
		if err != nil {
			if IsAuthExpired(err) {
				return nil, err
			}
			zlog.Debug().Msgf("top tracks lookup failed, skipping artist: artist=%s error=%v", artist.Name, err)
			continue
		}
		if len(topTracks) == 0 {
			continue
		}
		s.rngMu.Lock()
		pick := topTracks[s.rng.Intn(len(topTracks))]
		s.rngMu.Unlock()
		candidates = append(candidates, pick)
	}

	zlog.Debug().Msgf("artist expansion candidates: artists=%d tracks=%d", len(artists), len(candidates))
	return candidates, nil
}

// Name returns the strategy name.
func (s *ArtistExpansionStrategy) Name() string {
	return "artist_expansion"
}

// collectArtists searches artists for each genre and keeps those above the
// popularity floor, deduplicated by ID.
func (s *ArtistExpansionStrategy) collectArtists(ctx context.Context, genres []string) ([]track.ArtistSummary, error) {
	seen := make(map[string]bool)
	var collected []track.ArtistSummary

	for _, genre := range genres {
		query := fmt.Sprintf("genre:%q", genre)
		artists, err := s.catalog.SearchArtists(ctx, query, s.config.ArtistSearchLimit)
		if err != nil {
			if IsAuthExpired(err) {
				return nil, err
			}
			zlog.Debug().Msgf("artist search failed, skipping genre: genre=%s error=%v", genre, err)
			continue
		}
		for _, a := range artists {
			if a.Popularity < s.config.PopularityFloor || seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			collected = append(collected, a)
		}
	}

	return collected, nil
}
