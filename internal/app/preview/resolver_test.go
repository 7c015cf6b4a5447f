package preview

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

// fakeSearcher maps "artist|country" to a preview URL and records calls.
type fakeSearcher struct {
	mu      sync.Mutex
	results map[string]string
	errs    map[string]error
	calls   int
}

func (f *fakeSearcher) FindPreviewURL(_ context.Context, artistName, _, country string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	key := artistName + "|" + country
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	return f.results[key], nil
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testConfig() Config {
	return Config{
		Countries:     []string{"kr", "jp", "us"},
		MaxConcurrent: 2,
		MaxJitter:     time.Millisecond,
		Seed:          42,
	}
}

func TestResolve_RegionOrder(t *testing.T) {
	tests := []struct {
		name    string
		results map[string]string
		errs    map[string]error
		want    string
	}{
		{
			name:    "First region wins",
			results: map[string]string{"iu|kr": "https://p.example/kr.m4a", "iu|jp": "https://p.example/jp.m4a"},
			want:    "https://p.example/kr.m4a",
		},
		{
			name:    "Empty region falls through to the next",
			results: map[string]string{"iu|jp": "https://p.example/jp.m4a"},
			want:    "https://p.example/jp.m4a",
		},
		{
			name:    "Region error falls through, not up",
			errs:    map[string]error{"iu|kr": errors.New("rate limited")},
			results: map[string]string{"iu|us": "https://p.example/us.m4a"},
			want:    "https://p.example/us.m4a",
		},
		{
			name: "All regions exhausted returns empty",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &fakeSearcher{results: tt.results, errs: tt.errs}
			r := NewResolver(searcher, testConfig())

			got := r.Resolve(context.Background(), "iu", "Blueming")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveBatch(t *testing.T) {
	searcher := &fakeSearcher{
		results: map[string]string{
			"a|kr": "https://p.example/a.m4a",
			"c|jp": "https://p.example/c.m4a",
		},
		errs: map[string]error{
			"b|kr": errors.New("boom"),
			"b|jp": errors.New("boom"),
			"b|us": errors.New("boom"),
		},
	}
	r := NewResolver(searcher, testConfig())

	got := r.ResolveBatch(context.Background(), []Request{
		{ID: "t1", ArtistName: "a", TrackName: "x"},
		{ID: "t2", ArtistName: "b", TrackName: "y"},
		{ID: "t3", ArtistName: "c", TrackName: "z"},
	})

	// One failing track never fails the batch; unresolved IDs are absent.
	assert.Equal(t, map[string]string{
		"t1": "https://p.example/a.m4a",
		"t3": "https://p.example/c.m4a",
	}, got)
}

func TestResolveBatch_EmptyInput(t *testing.T) {
	searcher := &fakeSearcher{}
	r := NewResolver(searcher, testConfig())

	got := r.ResolveBatch(context.Background(), nil)

	assert.Empty(t, got)
	assert.Zero(t, searcher.callCount(), "empty batch must not touch the network")
}

func TestResolveBatch_CancelledContext(t *testing.T) {
	searcher := &fakeSearcher{results: map[string]string{"a|kr": "u"}}
	r := NewResolver(searcher, Config{
		Countries:     []string{"kr"},
		MaxConcurrent: 1,
		MaxJitter:     time.Second,
		Seed:          1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := r.ResolveBatch(ctx, []Request{{ID: "t1", ArtistName: "a", TrackName: "x"}})
	assert.Empty(t, got)
}

func TestNewResolver_Defaults(t *testing.T) {
	r := NewResolver(&fakeSearcher{}, Config{})

	assert.Equal(t, []string{"kr", "jp", "us"}, r.countries)
	assert.Equal(t, 4, r.maxConcurrent)
	assert.Equal(t, 100*time.Millisecond, r.maxJitter)
}
