// Package similarity scores tracks against target mood parameters and ranks
// them.
package similarity

import (
	"math"
	"sort"

	"github.com/smnm1998/woowacourse-artune/internal/domain/mood"
	"github.com/smnm1998/woowacourse-artune/internal/domain/track"
)

// tieEpsilon is the similarity delta below which two scores are considered
// equal and the popularity tie-break applies. Near-equal floating scores
// would otherwise produce arbitrary order.
const tieEpsilon = 0.01

// Score computes a bounded [0,1] similarity between a track's audio
// descriptor and the target mood. Valence and energy differences weigh 0.4
// each, normalized tempo difference 0.2. A nil descriptor scores 0.
func Score(d *track.AudioDescriptor, target mood.Parameters) float64 {
	if d == nil {
		return 0
	}
	valenceDiff := math.Abs(d.Valence - target.Valence)
	energyDiff := math.Abs(d.Energy - target.Energy)
	tempoDiff := math.Abs(normalizeTempo(d.Tempo) - normalizeTempo(target.Tempo))

	similarity := 1 - (valenceDiff*0.4 + energyDiff*0.4 + tempoDiff*0.2)
	return clamp01(similarity)
}

// normalizeTempo maps the ~60-200 BPM range onto roughly [0,1]. Values
// outside that range fall outside [0,1] before the final clamp.
func normalizeTempo(tempo float64) float64 {
	return (tempo - 60) / 140
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Attach pairs each track with its similarity score. Tracks missing from the
// descriptor map score 0 and keep a nil descriptor; an empty map therefore
// degrades the whole ranking to the popularity tie-break, which is the
// designed fallback when audio descriptors are unavailable upstream.
func Attach(tracks []track.Track, descriptors map[string]track.AudioDescriptor, target mood.Parameters) []track.Scored {
	scored := make([]track.Scored, 0, len(tracks))
	for _, t := range tracks {
		var d *track.AudioDescriptor
		if desc, ok := descriptors[t.ID]; ok {
			dc := desc
			d = &dc
		}
		scored = append(scored, track.Scored{
			Track:      t,
			Similarity: Score(d, target),
			Descriptor: d,
		})
	}
	return scored
}

// SortRanked orders tracks by similarity descending; similarities within
// tieEpsilon of each other are broken by popularity descending. Sorts in
// place and returns the slice.
func SortRanked(scored []track.Scored) []track.Scored {
	sort.SliceStable(scored, func(i, j int) bool {
		if math.Abs(scored[i].Similarity-scored[j].Similarity) > tieEpsilon {
			return scored[i].Similarity > scored[j].Similarity
		}
		return scored[i].Track.Popularity > scored[j].Track.Popularity
	})
	return scored
}

// DropInstrumental removes tracks whose instrumentalness exceeds max. Applied
// after ranking, not before, so instrumental tracks never consume ranking
// slots before being dropped. Tracks without a descriptor pass through.
func DropInstrumental(scored []track.Scored, max float64) []track.Scored {
	result := make([]track.Scored, 0, len(scored))
	for _, s := range scored {
		if s.Descriptor != nil && s.Descriptor.Instrumentalness > max {
			continue
		}
		result = append(result, s)
	}
	return result
}
