package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/invopop/jsonschema"
)

// GenerateRequest is one structured-output call to a vision-language model.
type GenerateRequest struct {
	ImageURL    string
	Instruction string
	System      string
	Schema      *jsonschema.Schema
	Temperature float32
}

// Generator produces metadata JSON for an image.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) ([]byte, error)
}

type SpeechRequest struct {
	Text  string
	Voice string
}

// Synthesizer turns review text into audio bytes (mp3).
type Synthesizer interface {
	Synthesize(ctx context.Context, req SpeechRequest) ([]byte, error)
}

// BlobStore persists bytes under key and returns a durable URL.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type IngestRequest struct {
	Filename string
	Data     []byte
}

// Ingestion is what the media host returns for an uploaded image.
// Colours holds the raw [[hex, weight], ...] list.
type Ingestion struct {
	URL     string
	Colours json.RawMessage
}

// Ingestor hosts an uploaded image and extracts its dominant colours.
type Ingestor interface {
	Upload(ctx context.Context, req IngestRequest) (Ingestion, error)
}

// Locker serializes work on one artwork. Lock returns ErrBusy when the key is held.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}
