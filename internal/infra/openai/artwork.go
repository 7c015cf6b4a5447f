package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smnm1998/woowacourse-artune/internal/domain/emotion"
	"github.com/smnm1998/woowacourse-artune/internal/domain/mood"
)

// emotionStyles maps each emotion to the dessert styling woven into the
// image prompt. Unknown emotions fall back to a generic style.
var emotionStyles = map[string]string{
	"joy":      "bright and colorful with sweet toppings",
	"sadness":  "warm and comforting with soft textures",
	"anger":    "bold and spicy with intense flavors",
	"fear":     "mysterious and dark with surprising elements",
	"surprise": "vibrant and unexpected with unique decorations",
	"disgust":  "unusual and exotic with rare ingredients",
	"neutral":  "balanced and harmonious with classic elements",
}

const fallbackStyle = "delightful and appealing"

// ArtworkGenerator produces pixel-art dessert images through the image
// generation API.
type ArtworkGenerator struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewArtworkGenerator creates an artwork generator. An empty model falls back
// to dall-e-3.
func NewArtworkGenerator(apiKey, model string) (*ArtworkGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if model == "" {
		model = "dall-e-3"
	}
	return &ArtworkGenerator{
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://api.openai.com/v1",
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}, nil
}

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *apiError `json:"error"`
}

// Generate creates a dessert image for the given emotion and genres.
func (g *ArtworkGenerator) Generate(ctx context.Context, emotionKey, emotionLabel string, genres []string) (*emotion.Artwork, error) {
	if strings.TrimSpace(emotionKey) == "" {
		return nil, &mood.ValidationError{Field: "emotion", Reason: "emotion is required"}
	}
	if strings.TrimSpace(emotionLabel) == "" {
		return nil, &mood.ValidationError{Field: "emotionLabel", Reason: "emotion label is required"}
	}
	if len(genres) == 0 {
		return nil, &mood.ValidationError{Field: "genres", Reason: "at least one genre is required"}
	}

	prompt := dessertPrompt(emotionKey, emotionLabel, genres)

	reqBody := imageRequest{
		Model:  g.model,
		Prompt: prompt,
		N:      1,
		Size:   "1024x1024",
	}

	var resp imageResponse
	if err := postJSON(ctx, g.httpClient, g.baseURL+"/images/generations", g.apiKey, reqBody, &resp); err != nil {
		return nil, errors.Wrap(err, "image generation failed")
	}
	if resp.Error != nil {
		return nil, errors.Newf("image api error: %s", resp.Error.Message)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return nil, errors.New("image api returned no image")
	}

	return &emotion.Artwork{ImageURL: resp.Data[0].URL, Prompt: prompt}, nil
}

// dessertPrompt builds the image prompt from the emotion and genres.
func dessertPrompt(emotionKey, emotionLabel string, genres []string) string {
	style, ok := emotionStyles[emotionKey]
	if !ok {
		style = fallbackStyle
	}
	return fmt.Sprintf(
		"A pixel_art style dessert representing the emotion of %s (%s). "+
			"The dessert should be %s, inspired by %s music genres. "+
			"Create a beautifully detailed pixel art dessert illustration with vibrant colors and appealing presentation.",
		emotionLabel, emotionKey, style, strings.Join(genres, ", "))
}
