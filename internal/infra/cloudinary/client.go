package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"portfolio-app/internal/infra/httpclient"
	"portfolio-app/internal/pipeline"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"resty.dev/v3"
)

const (
	DefaultBaseURL = "https://api.cloudinary.com"
	MaxUploadSize  = 10 << 20
)

var (
	ErrMissingCredentials = errors.New("cloudinary credentials are not configured")
	ErrTooLarge           = errors.New("image exceeds the 10MB upload limit")
	ErrNotImage           = errors.New("file is not an image")
)

type Options struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
	BaseURL      string
	Timeout      time.Duration
}

type uploadResponse struct {
	SecureURL string          `json:"secure_url"`
	Colors    json.RawMessage `json:"colors"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client hosts uploaded images on Cloudinary and returns their dominant colours.
type Client struct {
	http *resty.Client
	opts Options
	now  func() time.Time
	log  zerolog.Logger
}

func New(opts Options, log zerolog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	hc := httpclient.New("cloudinary", opts.Timeout, log)
	hc.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	return &Client{
		http: hc,
		opts: opts,
		now:  time.Now,
		log:  log.With().Str("component", "cloudinary").Logger(),
	}
}

// Upload performs a signed upload with colour extraction enabled.
func (c *Client) Upload(ctx context.Context, req pipeline.IngestRequest) (pipeline.Ingestion, error) {
	if c.opts.CloudName == "" || c.opts.APIKey == "" || c.opts.APISecret == "" {
		return pipeline.Ingestion{}, ErrMissingCredentials
	}
	if len(req.Data) > MaxUploadSize {
		return pipeline.Ingestion{}, ErrTooLarge
	}
	mt := mimetype.Detect(req.Data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return pipeline.Ingestion{}, fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}

	params := map[string]string{
		"colors":    "true",
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	if c.opts.UploadPreset != "" {
		params["upload_preset"] = c.opts.UploadPreset
	}
	fields := map[string]string{
		"api_key":   c.opts.APIKey,
		"signature": Sign(params, c.opts.APISecret),
	}
	for k, v := range params {
		fields[k] = v
	}

	filename := req.Filename
	if filename == "" {
		filename = "upload" + mt.Extension()
	}

	var out uploadResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetPathParam("cloud", c.opts.CloudName).
		SetMultipartField("file", filename, mt.String(), bytes.NewReader(req.Data)).
		SetFormData(fields).
		Post("/v1_1/{cloud}/image/upload")
	if err != nil {
		return pipeline.Ingestion{}, fmt.Errorf("upload call failed: %w", err)
	}

	body := resp.Bytes()
	if jsonErr := json.Unmarshal(body, &out); jsonErr != nil && !resp.IsError() {
		return pipeline.Ingestion{}, fmt.Errorf("decode upload response: %w", jsonErr)
	}
	if resp.IsError() {
		if out.Error != nil && out.Error.Message != "" {
			return pipeline.Ingestion{}, fmt.Errorf("upload returned status %d: %s", resp.StatusCode(), out.Error.Message)
		}
		return pipeline.Ingestion{}, fmt.Errorf("upload returned status %d", resp.StatusCode())
	}
	if out.SecureURL == "" {
		return pipeline.Ingestion{}, errors.New("upload response has no secure_url")
	}

	c.log.Info().Str("url", out.SecureURL).Int("bytes", len(req.Data)).Msg("image uploaded")
	return pipeline.Ingestion{URL: out.SecureURL, Colours: out.Colors}, nil
}

// Sign computes the upload signature: sha1 over the sorted k=v pairs joined
// with '&' followed by the api secret.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
