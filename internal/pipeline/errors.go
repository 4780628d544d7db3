package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrIngestion          = errors.New("ingestion error")
	ErrMetadataGeneration = errors.New("metadata generation error")
	ErrSpeechSynthesis    = errors.New("speech synthesis error")
	ErrStorage            = errors.New("storage error")
	ErrPersistence        = errors.New("persistence error")
	ErrBusy               = errors.New("artwork is already being regenerated")
)

const (
	StageIngest     = "ingest"
	StageGenerate   = "generate"
	StageSynthesize = "synthesize"
	StageStore      = "store"
	StagePersist    = "persist"
)

// wrap tags err with marker so callers can classify it with errors.Is,
// and prefixes the stage for a readable message.
func wrap(marker error, stage, message string, err error) error {
	parts := make([]string, 0, 2)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	detail := strings.Join(parts, ": ")
	if detail == "" {
		detail = "pipeline failure"
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// StageOf reports which stage produced err, or "" if it carries no stage marker.
func StageOf(err error) string {
	switch {
	case errors.Is(err, ErrIngestion):
		return StageIngest
	case errors.Is(err, ErrMetadataGeneration):
		return StageGenerate
	case errors.Is(err, ErrSpeechSynthesis):
		return StageSynthesize
	case errors.Is(err, ErrStorage):
		return StageStore
	case errors.Is(err, ErrPersistence):
		return StagePersist
	default:
		return ""
	}
}
