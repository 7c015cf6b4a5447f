// Package diversity selects a bounded number of tracks while capping how many
// may share a primary artist.
package diversity

import "github.com/smnm1998/woowacourse-artune/internal/domain/track"

// Select walks the ranked list (assumed pre-sorted by desirability) and
// greedily accepts tracks until limit, allowing at most maxPerArtist tracks
// per primary artist. If the strict pass under-fills, a backfill pass appends
// unselected tracks from the start of the list, ignoring the cap, until limit
// or exhaustion. The result is never larger than limit.
func Select(ranked []track.Scored, limit, maxPerArtist int) []track.Scored {
	selected := make([]track.Scored, 0, limit)
	artistCount := make(map[string]int)
	taken := make(map[string]bool, limit)

	for _, item := range ranked {
		if len(selected) >= limit {
			break
		}
		artistID := item.Track.PrimaryArtist().ID
		if artistCount[artistID] < maxPerArtist {
			selected = append(selected, item)
			artistCount[artistID]++
			taken[item.Track.ID] = true
		}
	}

	// Backfill: when diverse supply runs short, degrade to the best
	// available rather than returning an under-sized list.
	if len(selected) < limit {
		for _, item := range ranked {
			if len(selected) >= limit {
				break
			}
			if taken[item.Track.ID] {
				continue
			}
			selected = append(selected, item)
			taken[item.Track.ID] = true
		}
	}

	return selected
}

// Distribution counts selected tracks per primary artist name.
func Distribution(selected []track.Scored) map[string]int {
	dist := make(map[string]int)
	for _, item := range selected {
		if name := item.Track.PrimaryArtist().Name; name != "" {
			dist[name]++
		}
	}
	return dist
}
