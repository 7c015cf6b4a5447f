package emotion

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smnm1998/woowacourse-artune/internal/app/progress"
	domemotion "github.com/smnm1998/woowacourse-artune/internal/domain/emotion"
	"github.com/smnm1998/woowacourse-artune/internal/domain/mood"
	"github.com/smnm1998/woowacourse-artune/internal/domain/track"
)

type fakeClassifier struct {
	analysis *domemotion.Analysis
	err      error
	calls    int
}

func (f *fakeClassifier) Classify(context.Context, string) (*domemotion.Analysis, error) {
	f.calls++
	return f.analysis, f.err
}

type fakeRecommender struct {
	byGenre map[string][]track.Recommendation
	err     error
	params  []mood.Parameters
}

func (f *fakeRecommender) Recommend(_ context.Context, params mood.Parameters) ([]track.Recommendation, error) {
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.byGenre[params.Genres[0]], nil
}

type fakeArtwork struct {
	artwork *domemotion.Artwork
	err     error
	emotion string
	genres  []string
}

func (f *fakeArtwork) Generate(_ context.Context, emotionKey, _ string, genres []string) (*domemotion.Artwork, error) {
	f.emotion = emotionKey
	f.genres = genres
	return f.artwork, f.err
}

func testAnalysis() *domemotion.Analysis {
	return &domemotion.Analysis{
		Emotion:      "joy",
		EmotionLabel: "기쁨",
		Intensity:    0.8,
		Description:  "좋은 하루네요",
		Immerse:      mood.Parameters{Genres: []string{"pop"}, Valence: 0.9, Energy: 0.8, Tempo: 128},
		Soothe:       mood.Parameters{Genres: []string{"r&b"}, Valence: 0.7, Energy: 0.4, Tempo: 95},
	}
}

func TestAnalyze(t *testing.T) {
	classifier := &fakeClassifier{analysis: testAnalysis()}
	recommender := &fakeRecommender{byGenre: map[string][]track.Recommendation{
		"pop": {{ID: "immerse-1"}},
		"r&b": {{ID: "soothe-1"}},
	}}
	artwork := &fakeArtwork{artwork: &domemotion.Artwork{ImageURL: "https://img.example/d.png", Prompt: "p"}}

	c, err := NewCoordinator(classifier, recommender, artwork)
	require.NoError(t, err)

	result, err := c.Analyze(context.Background(), "정말 행복한 하루였어", nil)

	require.NoError(t, err)
	assert.NotEmpty(t, result.AnalysisID)
	assert.Equal(t, "joy", result.Emotion.Emotion)
	require.Len(t, result.Immerse, 1)
	assert.Equal(t, "immerse-1", result.Immerse[0].ID)
	require.Len(t, result.Soothe, 1)
	assert.Equal(t, "soothe-1", result.Soothe[0].ID)
	assert.Equal(t, "https://img.example/d.png", result.Artwork.ImageURL)

	// Immerse goes first; artwork uses the immerse genres.
	require.Len(t, recommender.params, 2)
	assert.Equal(t, []string{"pop"}, recommender.params[0].Genres)
	assert.Equal(t, []string{"r&b"}, recommender.params[1].Genres)
	assert.Equal(t, "joy", artwork.emotion)
	assert.Equal(t, []string{"pop"}, artwork.genres)
}

func TestAnalyze_BlankText(t *testing.T) {
	classifier := &fakeClassifier{analysis: testAnalysis()}
	c, err := NewCoordinator(classifier, &fakeRecommender{}, &fakeArtwork{})
	require.NoError(t, err)

	_, err = c.Analyze(context.Background(), "  \n ", nil)

	var verr *mood.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "text", verr.Field)
	assert.Zero(t, classifier.calls)
}

func TestAnalyze_ProgressCheckpoints(t *testing.T) {
	classifier := &fakeClassifier{analysis: testAnalysis()}
	recommender := &fakeRecommender{byGenre: map[string][]track.Recommendation{}}
	artwork := &fakeArtwork{artwork: &domemotion.Artwork{ImageURL: "u"}}
	c, err := NewCoordinator(classifier, recommender, artwork)
	require.NoError(t, err)

	var percents []int
	reporter := progress.NewReporter(func(e progress.Event) {
		percents = append(percents, e.Percent)
	})

	_, err = c.Analyze(context.Background(), "text", reporter)

	require.NoError(t, err)
	assert.Equal(t, []int{10, 35, 60, 85, 100}, percents)
}

func TestAnalyze_StageFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		setup   func(*fakeClassifier, *fakeRecommender, *fakeArtwork)
		wantErr string
	}{
		{
			name:    "Classifier failure",
			setup:   func(c *fakeClassifier, _ *fakeRecommender, _ *fakeArtwork) { c.err = boom },
			wantErr: "emotion analysis failed",
		},
		{
			name:    "Recommender failure",
			setup:   func(_ *fakeClassifier, r *fakeRecommender, _ *fakeArtwork) { r.err = boom },
			wantErr: "immerse playlist failed",
		},
		{
			name:    "Artwork failure",
			setup:   func(_ *fakeClassifier, _ *fakeRecommender, a *fakeArtwork) { a.err = boom },
			wantErr: "artwork generation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := &fakeClassifier{analysis: testAnalysis()}
			recommender := &fakeRecommender{byGenre: map[string][]track.Recommendation{}}
			artwork := &fakeArtwork{artwork: &domemotion.Artwork{}}
			tt.setup(classifier, recommender, artwork)

			c, err := NewCoordinator(classifier, recommender, artwork)
			require.NoError(t, err)

			_, err = c.Analyze(context.Background(), "text", nil)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewCoordinator_RequiresDependencies(t *testing.T) {
	_, err := NewCoordinator(nil, &fakeRecommender{}, &fakeArtwork{})
	assert.Error(t, err)
	_, err = NewCoordinator(&fakeClassifier{}, nil, &fakeArtwork{})
	assert.Error(t, err)
	_, err = NewCoordinator(&fakeClassifier{}, &fakeRecommender{}, nil)
	assert.Error(t, err)
}
