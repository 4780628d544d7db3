package elevenlabs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio-app/internal/infra/httpclient"
	"portfolio-app/internal/pipeline"

	"github.com/rs/zerolog"
	"resty.dev/v3"
)

const (
	DefaultBaseURL = "https://api.elevenlabs.io"
	DefaultModel   = "eleven_monolingual_v1"
)

var ErrMissingCredentials = errors.New("elevenlabs api key is not configured")

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type apiError struct {
	Detail struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"detail"`
}

// Client narrates review text through the ElevenLabs text-to-speech API.
type Client struct {
	http   *resty.Client
	apiKey string
	voice  string
	model  string
	log    zerolog.Logger
}

type Options struct {
	APIKey  string
	BaseURL string
	Voice   string
	Model   string
	Timeout time.Duration
}

func New(opts Options, log zerolog.Logger) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	hc := httpclient.New("elevenlabs", opts.Timeout, log)
	hc.SetBaseURL(base)
	return &Client{
		http:   hc,
		apiKey: strings.TrimSpace(opts.APIKey),
		voice:  strings.TrimSpace(opts.Voice),
		model:  model,
		log:    log.With().Str("component", "elevenlabs").Logger(),
	}
}

// Synthesize returns mp3 bytes for req.Text. req.Voice overrides the default voice.
func (c *Client) Synthesize(ctx context.Context, req pipeline.SpeechRequest) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredentials
	}
	voice := strings.TrimSpace(req.Voice)
	if voice == "" {
		voice = c.voice
	}
	if voice == "" {
		return nil, errors.New("elevenlabs voice id is not configured")
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.New("nothing to synthesize")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "audio/mpeg").
		SetHeader("xi-api-key", c.apiKey).
		SetPathParam("voice", voice).
		SetBody(speechRequest{
			Text:    req.Text,
			ModelID: c.model,
			VoiceSettings: voiceSettings{
				Stability:       0.5,
				SimilarityBoost: 0.5,
			},
		}).
		Post("/v1/text-to-speech/{voice}")
	if err != nil {
		return nil, fmt.Errorf("text to speech call failed: %w", err)
	}

	body := resp.Bytes()
	if resp.IsError() {
		var apiErr apiError
		if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Detail.Message != "" {
			return nil, fmt.Errorf("text to speech returned status %d: %s", resp.StatusCode(), apiErr.Detail.Message)
		}
		return nil, fmt.Errorf("text to speech returned status %d", resp.StatusCode())
	}
	if len(body) == 0 {
		return nil, errors.New("text to speech returned no audio")
	}

	c.log.Debug().Int("bytes", len(body)).Str("voice", voice).Msg("review narrated")
	return body, nil
}
