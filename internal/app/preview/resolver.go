// Package preview resolves 30-second preview URLs from an independent song
// catalog, as a best-effort enrichment for tracks the primary catalog serves
// without one.
package preview

import (
	"context"
	"math/rand"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"
)

// SongSearcher is the interface to the external song-search catalog.
type SongSearcher interface {
	// FindPreviewURL looks up the best match for artist+track in the given
	// country and returns its preview URL, or "" when the match has none.
	FindPreviewURL(ctx context.Context, artistName, trackName, country string) (string, error)
}

// Request identifies one track to resolve in a batch.
type Request struct {
	ID         string
	ArtistName string
	TrackName  string
}

// Config tunes the resolver. Zero values fall back to defaults.
type Config struct {
	// Countries is the ordered region list tried per lookup.
	Countries []string
	// MaxConcurrent bounds in-flight batch lookups.
	MaxConcurrent int
	// MaxJitter is the upper bound of the randomized delay injected before
	// each batch lookup, spreading request bursts in time.
	MaxJitter time.Duration
	// Seed seeds the jitter source; 0 uses the current time. Tests inject a
	// fixed seed for determinism.
	Seed int64
}

// Resolver performs single and batch preview lookups.
type Resolver struct {
	searcher      SongSearcher
	countries     []string
	maxConcurrent int
	maxJitter     time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewResolver creates a resolver over the given searcher.
func NewResolver(searcher SongSearcher, cfg Config) *Resolver {
	countries := cfg.Countries
	if len(countries) == 0 {
		countries = []string{"kr", "jp", "us"}
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	maxJitter := cfg.MaxJitter
	if maxJitter <= 0 {
		maxJitter = 100 * time.Millisecond
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Resolver{
		searcher:      searcher,
		countries:     countries,
		maxConcurrent: maxConcurrent,
		maxJitter:     maxJitter,
		rng:           rand.New(rand.NewSource(seed)),
	}
}

// Resolve tries each configured region in order and returns the first usable
// preview URL. A failed or empty region lookup moves on to the next; when all
// regions are exhausted it returns "". That is the expected "no preview
// available" outcome, never an error.
func (r *Resolver) Resolve(ctx context.Context, artistName, trackName string) string {
	for _, country := range r.countries {
		url, err := r.searcher.FindPreviewURL(ctx, artistName, trackName, country)
		if err != nil {
			zlog.Debug().Msgf("preview lookup failed: artist=%s track=%s country=%s error=%v",
				artistName, trackName, country, err)
			continue
		}
		if url != "" {
			return url
		}
	}
	zlog.Debug().Msgf("no preview found: artist=%s track=%s", artistName, trackName)
	return ""
}

// ResolveBatch resolves previews for all requests concurrently, with bounded
// concurrency and a small randomized delay before each lookup. One track's
// failure never fails the batch; only resolved entries appear in the returned
// map. An empty input returns an empty map without any network call.
func (r *Resolver) ResolveBatch(ctx context.Context, requests []Request) map[string]string {
	results := make(map[string]string, len(requests))
	if len(requests) == 0 {
		return results
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, r.maxConcurrent)
	)

	for _, req := range requests {
		wg.Add(1)
		go func(req Request) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			select {
			case <-time.After(r.jitter()):
			case <-ctx.Done():
				return
			}

			if url := r.Resolve(ctx, req.ArtistName, req.TrackName); url != "" {
				mu.Lock()
				results[req.ID] = url
				mu.Unlock()
			}
		}(req)
	}
	wg.Wait()

	zlog.Debug().Msgf("preview batch resolved: requested=%d resolved=%d", len(requests), len(results))
	return results
}

func (r *Resolver) jitter() time.Duration {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return time.Duration(r.rng.Int63n(int64(r.maxJitter) + 1))
}
