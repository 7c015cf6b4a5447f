package recommend

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/smnm1998/woowacourse-artune/internal/app/diversity"
	"github.com/smnm1998/woowacourse-artune/internal/app/preview"
	"github.com/smnm1998/woowacourse-artune/internal/app/similarity"
	"github.com/smnm1998/woowacourse-artune/internal/app/trackfilter"
	"github.com/smnm1998/woowacourse-artune/internal/domain/mood"
	"github.com/smnm1998/woowacourse-artune/internal/domain/track"
	"github.com/smnm1998/woowacourse-artune/internal/infra/spotify"
)

// IsAuthExpired reports whether err carries the catalog's auth-expiry signal.
func IsAuthExpired(err error) bool {
	return spotify.IsAuthExpired(err)
}

// PreviewResolver resolves preview URLs for the final track set.
type PreviewResolver interface {
	ResolveBatch(ctx context.Context, requests []preview.Request) map[string]string
}

// Options tunes the pipeline stages.
type Options struct {
	Limit           int
	MaxPerArtist    int
	MinPopularity   int
	MinResultCount  int
	InstrumentalMax float64
}

// DefaultOptions mirrors the production tuning.
func DefaultOptions() Options {
	return Options{
		Limit:           20,
		MaxPerArtist:    2,
		MinPopularity:   35,
		MinResultCount:  20,
		InstrumentalMax: 0.5,
	}
}

// Orchestrator is the top-level recommendation entry point. It validates mood
// parameters, retrieves candidates through the configured strategy, runs the
// filter/score/diversify stages in order, and enriches the final set with
// resolved preview URLs.
type Orchestrator struct {
	catalog  CatalogClient
	strategy Strategy
	previews PreviewResolver
	opts     Options
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(catalog CatalogClient, strategy Strategy, previews PreviewResolver, opts Options) (*Orchestrator, error) {
	if catalog == nil {
		return nil, errors.New("catalog client is required")
	}
	if strategy == nil {
		return nil, errors.New("retrieval strategy is required")
	}
	if previews == nil {
		return nil, errors.New("preview resolver is required")
	}
	return &Orchestrator{catalog: catalog, strategy: strategy, previews: previews, opts: opts}, nil
}

// Recommend produces up to opts.Limit recommendations for the given mood.
// Validation failures reject the call before any network activity. When a
// catalog call fails with an auth-expired signal, the orchestrator
// re-authenticates once and reruns the whole attempt exactly once; a second
// failure surfaces to the caller.
func (o *Orchestrator) Recommend(ctx context.Context, params mood.Parameters) ([]track.Recommendation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	recs, err := o.attempt(ctx, params)
	if err != nil && IsAuthExpired(err) {
		zlog.Info().Msg("catalog credentials expired, re-authenticating")
		if authErr := o.catalog.Authenticate(ctx); authErr != nil {
			return nil, errors.Wrap(authErr, "recommendation fetch failed")
		}
		recs, err = o.attempt(ctx, params)
	}
	if err != nil {
		return nil, errors.Wrap(err, "recommendation fetch failed")
	}
	return recs, nil
}

func (o *Orchestrator) attempt(ctx context.Context, params mood.Parameters) ([]track.Recommendation, error) {
	candidates, err := o.strategy.Candidates(ctx, params)
	if err != nil {
		return nil, err
	}

	filtered, stats := trackfilter.Apply(candidates, trackfilter.Options{
		MinPopularity:  o.opts.MinPopularity,
		MinResultCount: o.opts.MinResultCount,
	})
	zlog.Info().Msgf("candidates filtered: strategy=%s original=%d final=%d",
		o.strategy.Name(), stats.Original, stats.Final)

	descriptors, err := o.audioDescriptors(ctx, filtered)
	if err != nil {
		return nil, err
	}

	scored := similarity.Attach(filtered, descriptors, params)
	similarity.SortRanked(scored)
	scored = similarity.DropInstrumental(scored, o.opts.InstrumentalMax)

	selected := diversity.Select(scored, o.opts.Limit, o.opts.MaxPerArtist)

	return o.enrichAndMap(ctx, selected), nil
}

// audioDescriptors fetches descriptors for the filtered set. Unavailability
// is a designed degradation: the pipeline falls back to popularity ordering.
// Auth-expired errors still propagate so the whole call can be retried.
func (o *Orchestrator) audioDescriptors(ctx context.Context, tracks []track.Track) (map[string]track.AudioDescriptor, error) {
	if len(tracks) == 0 {
		return nil, nil
	}
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}

	descriptors, err := o.catalog.AudioDescriptors(ctx, ids)
	if err != nil {
		if IsAuthExpired(err) {
			return nil, err
		}
		zlog.Warn().Msgf("audio descriptors unavailable, falling back to popularity ordering: %v", err)
		return nil, nil
	}
	return descriptors, nil
}

// enrichAndMap backfills missing preview URLs via the batch resolver and maps
// the selection to its output shape, preserving order. Resolver failures
// degrade to a null preview per track and never propagate.
func (o *Orchestrator) enrichAndMap(ctx context.Context, selected []track.Scored) []track.Recommendation {
	var requests []preview.Request
	for _, s := range selected {
		if s.Track.PreviewURL != "" {
			continue
		}
		requests = append(requests, preview.Request{
			ID:         s.Track.ID,
			ArtistName: s.Track.PrimaryArtist().Name,
			TrackName:  s.Track.Name,
		})
	}
	resolved := o.previews.ResolveBatch(ctx, requests)

	recs := make([]track.Recommendation, 0, len(selected))
	for _, s := range selected {
		t := s.Track
		if t.PreviewURL == "" {
			t.PreviewURL = resolved[t.ID]
		}
		recs = append(recs, track.ToRecommendation(t))
	}
	return recs
}
