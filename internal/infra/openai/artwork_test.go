package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smnm1998/woowacourse-artune/internal/domain/mood"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) (*ArtworkGenerator, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	g, err := NewArtworkGenerator("test-key", "")
	require.NoError(t, err)
	g.baseURL = server.URL
	return g, server
}

func TestGenerate(t *testing.T) {
	g, server := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req imageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "dall-e-3", req.Model)
		assert.Equal(t, 1, req.N)
		assert.Equal(t, "1024x1024", req.Size)
		assert.Contains(t, req.Prompt, "기쁨 (joy)")
		assert.Contains(t, req.Prompt, "bright and colorful with sweet toppings")
		assert.Contains(t, req.Prompt, "pop, dance")

		w.Write([]byte(`{"data":[{"url":"https://img.example/dessert.png"}]}`))
	})
	defer server.Close()

	artwork, err := g.Generate(context.Background(), "joy", "기쁨", []string{"pop", "dance"})

	require.NoError(t, err)
	assert.Equal(t, "https://img.example/dessert.png", artwork.ImageURL)
	assert.Contains(t, artwork.Prompt, "pixel_art")
}

func TestGenerate_UnknownEmotionFallsBack(t *testing.T) {
	g, server := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		var req imageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Prompt, "delightful and appealing")
		w.Write([]byte(`{"data":[{"url":"https://img.example/d.png"}]}`))
	})
	defer server.Close()

	_, err := g.Generate(context.Background(), "dreamy", "몽환", []string{"dream pop"})
	require.NoError(t, err)
}

func TestGenerate_ValidatesInput(t *testing.T) {
	g, server := newTestGenerator(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected on invalid input")
	})
	defer server.Close()

	tests := []struct {
		name    string
		emotion string
		label   string
		genres  []string
	}{
		{"Blank emotion", " ", "기쁨", []string{"pop"}},
		{"Blank label", "joy", "", []string{"pop"}},
		{"No genres", "joy", "기쁨", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Generate(context.Background(), tt.emotion, tt.label, tt.genres)
			var verr *mood.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestGenerate_EmptyData(t *testing.T) {
	g, server := newTestGenerator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	})
	defer server.Close()

	_, err := g.Generate(context.Background(), "joy", "기쁨", []string{"pop"})
	assert.ErrorContains(t, err, "no image")
}
