package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio-app/internal/pipeline"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model          string  `json:"model"`
	Temperature    float32 `json:"temperature"`
	ResponseFormat struct {
		Type       string `json:"type"`
		JSONSchema struct {
			Name   string          `json:"name"`
			Strict bool            `json:"strict"`
			Schema json.RawMessage `json:"schema"`
		} `json:"json_schema"`
	} `json:"response_format"`
	Messages []struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"messages"`
}

func completion(content string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-4o",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
}

func newServer(t *testing.T, handler func(chatRequest) map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(handler(req))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateSendsImageAndSchema(t *testing.T) {
	var got chatRequest
	srv := newServer(t, func(req chatRequest) map[string]any {
		got = req
		return completion(`{"artwork_metadata":{}}`)
	})
	g, err := New("test-key", srv.URL+"/v1", "", zerolog.Nop())
	require.NoError(t, err)

	out, err := g.Generate(context.Background(), pipeline.GenerateRequest{
		ImageURL:    "https://img.example.com/a.png",
		Instruction: "Analyse this image.",
		System:      "persona",
		Schema:      pipeline.Schema(),
		Temperature: 0.8,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"artwork_metadata":{}}`, string(out))

	assert.Equal(t, DefaultModel, got.Model)
	assert.InDelta(t, 0.8, got.Temperature, 0.0001)
	assert.Equal(t, "json_schema", got.ResponseFormat.Type)
	assert.Equal(t, "artwork_metadata", got.ResponseFormat.JSONSchema.Name)
	assert.True(t, got.ResponseFormat.JSONSchema.Strict)
	assert.Contains(t, string(got.ResponseFormat.JSONSchema.Schema), "accessibilityDescription")

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	var parts []struct {
		Type     string `json:"type"`
		Text     string `json:"text"`
		ImageURL struct {
			URL string `json:"url"`
		} `json:"image_url"`
	}
	require.NoError(t, json.Unmarshal(got.Messages[1].Content, &parts))
	require.Len(t, parts, 2)
	assert.Equal(t, "Analyse this image.", parts[0].Text)
	assert.Equal(t, "https://img.example.com/a.png", parts[1].ImageURL.URL)
}

func TestGenerateEmptyContent(t *testing.T) {
	srv := newServer(t, func(chatRequest) map[string]any { return completion("  ") })
	g, err := New("test-key", srv.URL+"/v1", "gpt-4o-mini", zerolog.Nop())
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), pipeline.GenerateRequest{Schema: pipeline.Schema()})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerateUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	}))
	defer srv.Close()
	g, err := New("test-key", srv.URL+"/v1", "", zerolog.Nop())
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), pipeline.GenerateRequest{Schema: pipeline.Schema()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion")
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(" ", "", "", zerolog.Nop())
	assert.Error(t, err)
}
