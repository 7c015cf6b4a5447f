// Package openai provides clients for the OpenAI chat-completions and image
// generation APIs, used for emotion classification and artwork generation.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smnm1998/woowacourse-artune/internal/domain/emotion"
	"github.com/smnm1998/woowacourse-artune/internal/domain/mood"
)

const defaultTimeout = 30 * time.Second

// Classifier analyzes free-form emotion text through the chat-completions API
// and returns mood parameters for both listening modes.
type Classifier struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClassifier creates a classifier. An empty model falls back to
// gpt-4.1-mini.
func NewClassifier(apiKey, model string) (*Classifier, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if model == "" {
		model = "gpt-4.1-mini"
	}
	return &Classifier{
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://api.openai.com/v1",
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
	Temperature    float64        `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// analysisPayload mirrors the JSON object the model is instructed to return.
type analysisPayload struct {
	Emotion      string          `json:"emotion"`
	EmotionLabel string          `json:"emotionLabel"`
	Intensity    float64         `json:"intensity"`
	Description  string          `json:"description"`
	Immerse      mood.Parameters `json:"immerse"`
	Soothe       mood.Parameters `json:"soothe"`
}

// Classify analyzes the given text and returns the structured emotion
// analysis. Blank text is rejected before any network call.
func (c *Classifier) Classify(ctx context.Context, text string) (*emotion.Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &mood.ValidationError{Field: "text", Reason: "text to analyze is required"}
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
		Temperature:    0.7,
	}

	var resp chatResponse
	if err := c.post(ctx, "/chat/completions", reqBody, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, errors.Newf("classifier api error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("classifier returned no choices")
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, errors.Wrap(err, "failed to parse classifier output")
	}

	analysis := &emotion.Analysis{
		Emotion:      payload.Emotion,
		EmotionLabel: payload.EmotionLabel,
		Intensity:    payload.Intensity,
		Description:  payload.Description,
		Immerse:      payload.Immerse,
		Soothe:       payload.Soothe,
	}
	if err := validateAnalysis(analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

// validateAnalysis rejects model output that is missing required fields or
// carries out-of-range mood parameters.
func validateAnalysis(a *emotion.Analysis) error {
	if a.Emotion == "" {
		return errors.New("classifier output missing emotion")
	}
	if a.EmotionLabel == "" {
		return errors.New("classifier output missing emotion label")
	}
	if a.Intensity < 0 || a.Intensity > 1 {
		return errors.Newf("classifier intensity out of range: %g", a.Intensity)
	}
	if err := a.Immerse.Validate(); err != nil {
		return errors.Wrap(err, "invalid immerse parameters")
	}
	if err := a.Soothe.Validate(); err != nil {
		return errors.Wrap(err, "invalid soothe parameters")
	}
	return nil
}

// post sends a JSON POST to the given API path and decodes the response into
// out. Non-2xx statuses become errors carrying the API's error message when
// present.
func (c *Classifier) post(ctx context.Context, path string, in, out any) error {
	return postJSON(ctx, c.httpClient, c.baseURL+path, c.apiKey, in, out)
}

func postJSON(ctx context.Context, client *http.Client, url, apiKey string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error *apiError `json:"error"`
		}
		if json.Unmarshal(data, &errBody) == nil && errBody.Error != nil {
			return errors.Newf("openai api error (%d): %s", resp.StatusCode, errBody.Error.Message)
		}
		return errors.Newf("openai api returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "failed to parse response")
	}
	return nil
}
