package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smnm1998/woowacourse-artune/internal/domain/mood"
	"github.com/smnm1998/woowacourse-artune/internal/domain/track"
)

func TestScore(t *testing.T) {
	target := mood.Parameters{Valence: 0.8, Energy: 0.7, Tempo: 120}

	tests := []struct {
		name       string
		descriptor *track.AudioDescriptor
		want       float64
		delta      float64
	}{
		{
			name:       "Exact match scores 1.0",
			descriptor: &track.AudioDescriptor{Valence: 0.8, Energy: 0.7, Tempo: 120},
			want:       1.0,
			delta:      1e-9,
		},
		{
			name:       "Nil descriptor scores 0",
			descriptor: nil,
			want:       0,
			delta:      0,
		},
		{
			name: "Weighted differences",
			// |Δv|=0.3*0.4 + |Δe|=0.2*0.4 + |Δtempo_norm|=(40/140)*0.2
			descriptor: &track.AudioDescriptor{Valence: 0.5, Energy: 0.5, Tempo: 80},
			want:       1 - (0.3*0.4 + 0.2*0.4 + (40.0/140.0)*0.2),
			delta:      1e-9,
		},
		{
			name:       "Fully opposite stays within bounds",
			descriptor: &track.AudioDescriptor{Valence: 0, Energy: 0, Tempo: 200},
			want:       1 - (0.8*0.4 + 0.7*0.4 + (80.0/140.0)*0.2),
			delta:      1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.descriptor, target)
			assert.InDelta(t, tt.want, got, tt.delta)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestScore_ClampsExtremeTempo(t *testing.T) {
	target := mood.Parameters{Valence: 0, Energy: 0, Tempo: 40}
	d := &track.AudioDescriptor{Valence: 1, Energy: 1, Tempo: 250}

	got := Score(d, target)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 1.0)
}

func TestAttach(t *testing.T) {
	target := mood.Parameters{Valence: 0.5, Energy: 0.5, Tempo: 120}
	tracks := []track.Track{
		{ID: "with", Popularity: 40},
		{ID: "without", Popularity: 90},
	}
	descriptors := map[string]track.AudioDescriptor{
		"with": {Valence: 0.5, Energy: 0.5, Tempo: 120},
	}

	scored := Attach(tracks, descriptors, target)

	assert.Len(t, scored, 2)
	assert.NotNil(t, scored[0].Descriptor)
	assert.InDelta(t, 1.0, scored[0].Similarity, 1e-9)
	assert.Nil(t, scored[1].Descriptor)
	assert.Zero(t, scored[1].Similarity)
}

func TestSortRanked(t *testing.T) {
	scored := []track.Scored{
		{Track: track.Track{ID: "low", Popularity: 99}, Similarity: 0.3},
		{Track: track.Track{ID: "high", Popularity: 10}, Similarity: 0.9},
		{Track: track.Track{ID: "tied-popular", Popularity: 80}, Similarity: 0.895},
	}

	SortRanked(scored)

	// 0.9 vs 0.895 is within the tie epsilon, so popularity decides.
	assert.Equal(t, "tied-popular", scored[0].Track.ID)
	assert.Equal(t, "high", scored[1].Track.ID)
	assert.Equal(t, "low", scored[2].Track.ID)
}

func TestSortRanked_EmptyDescriptors(t *testing.T) {
	// With no descriptors every similarity is 0 and the ranking degrades to
	// popularity order.
	tracks := []track.Track{
		{ID: "mid", Popularity: 50},
		{ID: "top", Popularity: 90},
		{ID: "bottom", Popularity: 10},
	}
	scored := Attach(tracks, nil, mood.Parameters{Valence: 0.5, Energy: 0.5, Tempo: 120})

	SortRanked(scored)

	assert.Equal(t, "top", scored[0].Track.ID)
	assert.Equal(t, "mid", scored[1].Track.ID)
	assert.Equal(t, "bottom", scored[2].Track.ID)
}

func TestDropInstrumental(t *testing.T) {
	scored := []track.Scored{
		{Track: track.Track{ID: "vocal"}, Descriptor: &track.AudioDescriptor{Instrumentalness: 0.1}},
		{Track: track.Track{ID: "instrumental"}, Descriptor: &track.AudioDescriptor{Instrumentalness: 0.9}},
		{Track: track.Track{ID: "boundary"}, Descriptor: &track.AudioDescriptor{Instrumentalness: 0.5}},
		{Track: track.Track{ID: "unknown"}, Descriptor: nil},
	}

	got := DropInstrumental(scored, 0.5)

	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.Track.ID)
	}
	// The boundary value is not above max; unknown descriptors pass through.
	assert.Equal(t, []string{"vocal", "boundary", "unknown"}, ids)
}
