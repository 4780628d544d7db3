package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portfolio-app/internal/pipeline"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

const DefaultModel = openai.GPT4o

var ErrEmptyResponse = errors.New("model returned no content")

// Generator asks a vision-language model for artwork metadata as strict JSON.
type Generator struct {
	client *openai.Client
	model  string
	log    zerolog.Logger
}

// New returns a Generator. baseURL may be empty to use the public API.
func New(apiKey, baseURL, model string, log zerolog.Logger) (*Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Generator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		log:    log.With().Str("component", "openai-generator").Logger(),
	}, nil
}

func (g *Generator) Generate(ctx context.Context, req pipeline.GenerateRequest) ([]byte, error) {
	if req.Schema == nil {
		return nil, errors.New("response schema is required")
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: req.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: req.Instruction},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: req.ImageURL, Detail: openai.ImageURLDetailAuto},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "artwork_metadata",
				Schema: req.Schema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return nil, fmt.Errorf("model refused: %s", msg.Refusal)
	}
	if strings.TrimSpace(msg.Content) == "" {
		return nil, ErrEmptyResponse
	}

	g.log.Debug().
		Str("model", resp.Model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Str("finish_reason", string(resp.Choices[0].FinishReason)).
		Msg("metadata generated")
	return []byte(msg.Content), nil
}
