package recommend

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/smnm1998/woowacourse-artune/internal/domain/mood"
	"github.com/smnm1998/woowacourse-artune/internal/domain/track"
)

// SearchStrategyConfig represents the search strategy settings.
type SearchStrategyConfig struct {
	SearchLimit  int      `yaml:"search_limit" mapstructure:"search_limit" default:"50" validate:"gte=1,lte=50"`
	ExcludeTerms []string `yaml:"exclude_terms" mapstructure:"exclude_terms"`
}

// SearchStrategy builds one catalog search from up to two genres and a mood
// keyword phrase, then excludes compilation and various-artists results.
type SearchStrategy struct {
	catalog CatalogClient
	config  *SearchStrategyConfig
}

// NewSearchStrategy creates a search strategy from settings.
func NewSearchStrategy(catalog CatalogClient, settings map[string]any) (*SearchStrategy, error) {
	if catalog == nil {
		return nil, errors.New("catalog client is required")
	}

	var config SearchStrategyConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	if len(config.ExcludeTerms) == 0 {
		config.ExcludeTerms = []string{"soundtrack", "classical", "ambient"}
	}

	return &SearchStrategy{catalog: catalog, config: &config}, nil
}

// Candidates issues one capped track search and drops compilation-album and
// various-artists results before the filter pipeline sees them.
func (s *SearchStrategy) Candidates(ctx context.Context, params mood.Parameters) ([]track.Track, error) {
	query := s.buildQuery(params)
	zlog.Debug().Msgf("search strategy query: %s", query)

	results, err := s.catalog.SearchTracks(ctx, query, s.config.SearchLimit)
	if err != nil {
		return nil, errors.Wrap(err, "track search failed")
	}

	candidates := make([]track.Track, 0, len(results))
	for _, t := range results {
		if t.Album.AlbumType == "compilation" {
			continue
		}
		if strings.EqualFold(t.PrimaryArtist().Name, "various artists") {
			continue
		}
		candidates = append(candidates, t)
	}

	zlog.Debug().Msgf("search strategy candidates: fetched=%d kept=%d", len(results), len(candidates))
	return candidates, nil
}

// Name returns the strategy name.
func (s *SearchStrategy) Name() string {
	return "search"
}

// buildQuery combines up to two genres with the mood keyword phrase and the
// configured exclusion terms.
func (s *SearchStrategy) buildQuery(params mood.Parameters) string {
	genres := params.Genres
	if len(genres) > 2 {
		genres = genres[:2]
	}

	var b strings.Builder
	b.WriteString(strings.Join(genres, " "))
	b.WriteString(" ")
	b.WriteString(moodKeywords(params.Valence, params.Energy))
	for _, term := range s.config.ExcludeTerms {
		b.WriteString(" NOT ")
		b.WriteString(term)
	}
	return b.String()
}
