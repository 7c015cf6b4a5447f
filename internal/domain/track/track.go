// Package track provides the track entities flowing through the
// recommendation pipeline.
package track

// Artist identifies a catalog artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album holds the album fields surfaced in recommendations.
type Album struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ImageURL    string `json:"imageUrl"`
	TotalTracks int    `json:"totalTracks"`
	ReleaseDate string `json:"releaseDate"`
	URL         string `json:"albumUrl"`
	AlbumType   string `json:"-"`
}

// Track is a raw candidate record from the catalog service. Identity key is
// ID; candidates are fetched per request and never persisted.
type Track struct {
	ID         string
	Name       string
	Artists    []Artist
	Album      Album
	Popularity int
	DurationMs int
	PreviewURL string // empty when the catalog has no native preview
	URL        string
}

// PrimaryArtist returns the first artist, or a zero Artist when the catalog
// returned none.
func (t *Track) PrimaryArtist() Artist {
	if len(t.Artists) == 0 {
		return Artist{}
	}
	return t.Artists[0]
}

// ArtistSummary is an artist search result from the catalog, used by the
// artist-expansion retrieval strategy.
type ArtistSummary struct {
	ID         string
	Name       string
	Popularity int
	Genres     []string
}

// AudioDescriptor holds the per-track audio features used for similarity
// scoring. It may be absent for any track (no similarity signal).
type AudioDescriptor struct {
	Valence          float64
	Energy           float64
	Tempo            float64
	Instrumentalness float64
}

// Scored pairs a candidate with its similarity score. Created by the
// similarity scorer, consumed by the diversity selector, discarded after
// mapping.
type Scored struct {
	Track      Track
	Similarity float64
	Descriptor *AudioDescriptor
}

// Recommendation is the externally visible track shape. Slice order is the
// display order.
type Recommendation struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
	PreviewURL *string  `json:"previewUrl"`
	TrackURL   string   `json:"trackUrl"`
	Popularity int      `json:"popularity"`
	DurationMs int      `json:"durationMs"`
}

// ToRecommendation maps a candidate to its output shape. An empty preview URL
// becomes JSON null: absence of a preview is an expected outcome, not an
// exclusion criterion.
func ToRecommendation(t Track) Recommendation {
	var preview *string
	if t.PreviewURL != "" {
		p := t.PreviewURL
		preview = &p
	}
	return Recommendation{
		ID:         t.ID,
		Name:       t.Name,
		Artists:    t.Artists,
		Album:      t.Album,
		PreviewURL: preview,
		TrackURL:   t.URL,
		Popularity: t.Popularity,
		DurationMs: t.DurationMs,
	}
}
