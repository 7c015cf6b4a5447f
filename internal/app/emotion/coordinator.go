// Package emotion coordinates the full analysis flow: classify the user's
// text, build both playlists, and generate the matching artwork.
package emotion

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/smnm1998/woowacourse-artune/internal/app/progress"
	domemotion "github.com/smnm1998/woowacourse-artune/internal/domain/emotion"
	"github.com/smnm1998/woowacourse-artune/internal/domain/mood"
	"github.com/smnm1998/woowacourse-artune/internal/domain/track"
)

// Classifier turns free-form text into a structured emotion analysis.
type Classifier interface {
	Classify(ctx context.Context, text string) (*domemotion.Analysis, error)
}

// Recommender produces track recommendations for one set of mood parameters.
type Recommender interface {
	Recommend(ctx context.Context, params mood.Parameters) ([]track.Recommendation, error)
}

// ArtworkGenerator produces the dessert artwork for an analysis.
type ArtworkGenerator interface {
	Generate(ctx context.Context, emotion, emotionLabel string, genres []string) (*domemotion.Artwork, error)
}

// Result is the combined analysis output.
type Result struct {
	AnalysisID string                 `json:"analysisId"`
	Emotion    *domemotion.Analysis   `json:"emotion"`
	Immerse    []track.Recommendation `json:"immerse"`
	Soothe     []track.Recommendation `json:"soothe"`
	Artwork    *domemotion.Artwork    `json:"dessertImage"`
}

// Coordinator wires the classifier, recommender, and artwork generator into
// one analysis call.
type Coordinator struct {
	classifier Classifier
	recommends Recommender
	artwork    ArtworkGenerator
}

// NewCoordinator creates a coordinator.
func NewCoordinator(classifier Classifier, recommends Recommender, artwork ArtworkGenerator) (*Coordinator, error) {
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if recommends == nil {
		return nil, errors.New("recommender is required")
	}
	if artwork == nil {
		return nil, errors.New("artwork generator is required")
	}
	return &Coordinator{classifier: classifier, recommends: recommends, artwork: artwork}, nil
}

// Analyze runs the full flow for the given text. The two playlists are built
// sequentially, immerse first, so the reported progress stays monotonic.
// reporter may be nil.
func (c *Coordinator) Analyze(ctx context.Context, text string, reporter *progress.Reporter) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &mood.ValidationError{Field: "text", Reason: "text to analyze is required"}
	}

	reporter.Report(10, "analyzing emotion")
	analysis, err := c.classifier.Classify(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "emotion analysis failed")
	}
	zlog.Info().Msgf("emotion classified: emotion=%s intensity=%.2f", analysis.Emotion, analysis.Intensity)

	reporter.Report(35, "building immerse playlist")
	immerse, err := c.recommends.Recommend(ctx, analysis.Immerse)
	if err != nil {
		return nil, errors.Wrap(err, "immerse playlist failed")
	}

	reporter.Report(60, "building soothe playlist")
	soothe, err := c.recommends.Recommend(ctx, analysis.Soothe)
	if err != nil {
		return nil, errors.Wrap(err, "soothe playlist failed")
	}

	reporter.Report(85, "generating artwork")
	artwork, err := c.artwork.Generate(ctx, analysis.Emotion, analysis.EmotionLabel, analysis.Immerse.Genres)
	if err != nil {
		return nil, errors.Wrap(err, "artwork generation failed")
	}

	reporter.Report(100, "done")
	return &Result{
		AnalysisID: uuid.NewString(),
		Emotion:    analysis,
		Immerse:    immerse,
		Soothe:     soothe,
		Artwork:    artwork,
	}, nil
}
