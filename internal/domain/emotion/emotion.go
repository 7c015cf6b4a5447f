// Package emotion provides the value types exchanged with the classification
// and artwork services.
package emotion

import "github.com/smnm1998/woowacourse-artune/internal/domain/mood"

// Analysis is the classifier output: an emotion tag plus two mood parameter
// variants, one for immersing in the feeling and one for soothing it.
type Analysis struct {
	Emotion      string          `json:"emotion"`
	EmotionLabel string          `json:"emotionLabel"`
	Intensity    float64         `json:"intensity"`
	Description  string          `json:"description"`
	Immerse      mood.Parameters `json:"immerse"`
	Soothe       mood.Parameters `json:"soothe"`
}

// Artwork is the generated image result for an analysis.
type Artwork struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
}
