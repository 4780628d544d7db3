package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio-app/internal/domain/colour"
	"portfolio-app/internal/domain/works"
	"portfolio-app/internal/gallery"
	"portfolio-app/internal/infra/metrics"
	"portfolio-app/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Request describes one pipeline run. An empty ExistingID selects create mode.
type Request struct {
	RequestID    string
	ImageURL     string
	Title        string
	Kind         works.Kind
	OwnerID      uint
	Ingestion    IngestionMeta
	Instructions string
	ExistingID   string
	ParentID     *string
}

// IngestionMeta carries the colour data returned by the media host, either
// as [[hex, weight], ...] pairs or as a pre-serialized JSON string.
type IngestionMeta struct {
	Colours any
}

// Result is the tagged outcome handed back to callers.
type Result struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    *works.Artwork `json:"data"`
	Err     error          `json:"-"`
}

func (r Result) OK() bool { return r.Status == StatusSuccess }

// UploadRequest is the front door for a fresh image upload.
type UploadRequest struct {
	RequestID    string
	Filename     string
	Data         []byte
	Title        string
	Kind         works.Kind
	OwnerID      uint
	Instructions string
	ParentID     *string
}

type Options struct {
	Voice string

	IngestTimeout     time.Duration
	GenerateTimeout   time.Duration
	SynthesizeTimeout time.Duration
	StoreTimeout      time.Duration
	PersistTimeout    time.Duration

	IngestRetry   RetryPolicy
	GenerateRetry RetryPolicy

	LockTTL time.Duration
}

func DefaultOptions() Options {
	return Options{
		IngestTimeout:     60 * time.Second,
		GenerateTimeout:   90 * time.Second,
		SynthesizeTimeout: 60 * time.Second,
		StoreTimeout:      30 * time.Second,
		PersistTimeout:    10 * time.Second,
		IngestRetry:       RetryPolicy{Attempts: 1, InitialDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second, Factor: 2},
		GenerateRetry:     RetryPolicy{Attempts: 1, InitialDelay: time.Second, MaxDelay: 10 * time.Second, Factor: 2},
		LockTTL:           5 * time.Minute,
	}
}

type Deps struct {
	Generator   Generator
	Synthesizer Synthesizer
	Blobs       BlobStore
	Ingestor    Ingestor
	Store       store.ArtworkStore
	Rules       *gallery.Rules
	Locker      Locker
	Logger      zerolog.Logger
}

// Pipeline turns an image into a persisted, fully described artwork.
type Pipeline struct {
	gen    Generator
	speech Synthesizer
	blobs  BlobStore
	ingest Ingestor
	store  store.ArtworkStore
	rules  *gallery.Rules
	locker Locker
	log    zerolog.Logger
	opts   Options
}

func New(d Deps, opts Options) *Pipeline {
	if d.Locker == nil {
		d.Locker = NewLocalLocker()
	}
	if d.Rules == nil {
		d.Rules = gallery.NewRules(d.Store)
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = DefaultOptions().LockTTL
	}
	return &Pipeline{
		gen:    d.Generator,
		speech: d.Synthesizer,
		blobs:  d.Blobs,
		ingest: d.Ingestor,
		store:  d.Store,
		rules:  d.Rules,
		locker: d.Locker,
		log:    d.Logger.With().Str("component", "pipeline").Logger(),
		opts:   opts,
	}
}

// Upload hosts the image, then runs the pipeline in create mode.
func (p *Pipeline) Upload(ctx context.Context, req UploadRequest) (Result, error) {
	if len(req.Data) == 0 {
		return p.fail("create", wrap(ErrInvalidRequest, "", "file is required", nil)), nil
	}
	if err := p.checkCreate(ctx, req.Kind, req.ParentID); err != nil {
		return p.fail("create", err), nil
	}
	if p.ingest == nil {
		return p.fail("create", wrap(ErrIngestion, StageIngest, "no media host configured", nil)), nil
	}

	start := time.Now()
	ing, err := withRetry(ctx, p.log, p.opts.IngestRetry, p.opts.IngestTimeout, StageIngest,
		func(ctx context.Context) (Ingestion, error) {
			return p.ingest.Upload(ctx, IngestRequest{Filename: req.Filename, Data: req.Data})
		})
	if err == nil && ing.URL == "" {
		err = errors.New("media host returned no url")
	}
	metrics.RecordStage(StageIngest, err, time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return p.fail("create", wrap(ErrIngestion, StageIngest, "image upload failed", err)), nil
	}

	return p.Run(ctx, Request{
		RequestID:    req.RequestID,
		ImageURL:     ing.URL,
		Title:        req.Title,
		Kind:         req.Kind,
		OwnerID:      req.OwnerID,
		Ingestion:    IngestionMeta{Colours: ing.Colours},
		Instructions: req.Instructions,
		ParentID:     req.ParentID,
	})
}

// Run executes the pipeline. Stage failures come back as an error Result with
// a nil error; only caller cancellation and lock backend failures are returned
// as errors. No artwork is written unless every upstream stage succeeded.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if req.ExistingID != "" {
		return p.update(ctx, req)
	}
	return p.create(ctx, req)
}

func (p *Pipeline) create(ctx context.Context, req Request) (Result, error) {
	const mode = "create"
	if strings.TrimSpace(req.ImageURL) == "" {
		return p.fail(mode, wrap(ErrInvalidRequest, "", "image url is required", nil)), nil
	}
	if err := p.checkCreate(ctx, req.Kind, req.ParentID); err != nil {
		return p.fail(mode, err), nil
	}
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	reqID := requestID(req.RequestID)
	log := p.log.With().Str("request_id", reqID).Str("mode", mode).Logger()

	md, audioURL, err := p.describe(ctx, log, reqID, req.Kind, req.ImageURL, req.Title, req.Instructions)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return p.fail(mode, err), nil
	}

	colours := colour.ParseColours(req.Ingestion.Colours)
	if len(colours) == 0 && req.Ingestion.Colours != nil {
		log.Warn().Msg("ingestion colours malformed, saving empty palette")
	}

	a := works.Artwork{
		Title:                    md.Title,
		Kind:                     req.Kind,
		ParentID:                 req.ParentID,
		Description:              md.Description,
		AccessibilityDescription: md.AccessibilityDescription,
		MainObjects:              md.MainObjects,
		Tags:                     md.Tags,
		Emotions:                 md.Emotions,
		Review:                   md.Review,
		Colours:                  colours,
		ImageURL:                 req.ImageURL,
		ReviewAudioURL:           audioURL,
		Published:                false,
		UserID:                   req.OwnerID,
	}

	start := time.Now()
	_, err = callWithTimeout(ctx, p.opts.PersistTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.store.CreateArtwork(ctx, &a)
	})
	metrics.RecordStage(StagePersist, err, time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return p.fail(mode, wrap(ErrPersistence, StagePersist, "create artwork", err)), nil
	}

	log.Info().Str("artwork_id", a.ID).Msg("artwork created")
	metrics.RecordRun(mode, nil)
	return Result{
		Status:  StatusSuccess,
		Message: "Artwork metadata generated and saved successfully",
		Data:    &a,
	}, nil
}

func (p *Pipeline) update(ctx context.Context, req Request) (Result, error) {
	const mode = "update"
	id := req.ExistingID

	unlock, err := p.locker.Lock(ctx, "artwork:"+id, p.opts.LockTTL)
	if errors.Is(err, ErrBusy) {
		return p.fail(mode, fmt.Errorf("%w: %s", ErrBusy, id)), nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("lock artwork %s: %w", id, err)
	}
	defer unlock()

	existing, err := p.store.GetArtwork(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return p.fail(mode, wrap(ErrInvalidRequest, "", "artwork not found", err)), nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return p.fail(mode, wrap(ErrPersistence, StagePersist, "load artwork", err)), nil
	}

	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = existing.ImageURL
	}
	if imageURL == "" {
		return p.fail(mode, wrap(ErrInvalidRequest, "", "artwork has no image", nil)), nil
	}
	kind := req.Kind
	if !kind.Valid() {
		kind = existing.Kind
	}

	reqID := requestID(req.RequestID)
	log := p.log.With().Str("request_id", reqID).Str("mode", mode).Str("artwork_id", id).Logger()

	md, audioURL, err := p.describe(ctx, log, reqID, kind, imageURL, req.Title, req.Instructions)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return p.fail(mode, err), nil
	}

	start := time.Now()
	updated, err := callWithTimeout(ctx, p.opts.PersistTimeout, func(ctx context.Context) (works.Artwork, error) {
		return p.store.UpdateArtwork(ctx, id, MetadataPatch(md, audioURL))
	})
	metrics.RecordStage(StagePersist, err, time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return p.fail(mode, wrap(ErrPersistence, StagePersist, "update artwork", err)), nil
	}

	log.Info().Msg("artwork regenerated")
	metrics.RecordRun(mode, nil)
	return Result{
		Status:  StatusSuccess,
		Message: "Artwork metadata updated successfully",
		Data:    &updated,
	}, nil
}

// describe runs generation, speech synthesis and audio storage.
func (p *Pipeline) describe(ctx context.Context, log zerolog.Logger, reqID string, kind works.Kind, imageURL, title, extra string) (Metadata, string, error) {
	if p.gen == nil {
		return Metadata{}, "", wrap(ErrMetadataGeneration, StageGenerate, "no generator configured", nil)
	}

	start := time.Now()
	raw, err := withRetry(ctx, log, p.opts.GenerateRetry, p.opts.GenerateTimeout, StageGenerate,
		func(ctx context.Context) ([]byte, error) {
			return p.gen.Generate(ctx, GenerateRequest{
				ImageURL:    imageURL,
				Instruction: buildInstruction(kind, title, extra),
				System:      persona,
				Schema:      Schema(),
				Temperature: temperature,
			})
		})
	if err != nil {
		metrics.RecordStage(StageGenerate, err, time.Since(start))
		return Metadata{}, "", wrap(ErrMetadataGeneration, StageGenerate, "model call failed", err)
	}
	md, err := parseMetadata(raw, title)
	metrics.RecordStage(StageGenerate, err, time.Since(start))
	if err != nil {
		log.Warn().Err(err).Msg("generator response rejected")
		return Metadata{}, "", wrap(ErrMetadataGeneration, StageGenerate, "response did not match schema", err)
	}

	if p.speech == nil {
		return Metadata{}, "", wrap(ErrSpeechSynthesis, StageSynthesize, "no speech service configured", nil)
	}
	start = time.Now()
	audio, err := callWithTimeout(ctx, p.opts.SynthesizeTimeout, func(ctx context.Context) ([]byte, error) {
		return p.speech.Synthesize(ctx, SpeechRequest{Text: md.Review, Voice: p.opts.Voice})
	})
	if err == nil && len(audio) == 0 {
		err = errors.New("empty audio")
	}
	metrics.RecordStage(StageSynthesize, err, time.Since(start))
	if err != nil {
		return Metadata{}, "", wrap(ErrSpeechSynthesis, StageSynthesize, "review narration failed", err)
	}

	if p.blobs == nil {
		return Metadata{}, "", wrap(ErrStorage, StageStore, "no blob store configured", nil)
	}
	start = time.Now()
	key := audioKey(reqID)
	audioURL, err := callWithTimeout(ctx, p.opts.StoreTimeout, func(ctx context.Context) (string, error) {
		return p.blobs.Put(ctx, key, audio, "audio/mpeg")
	})
	metrics.RecordStage(StageStore, err, time.Since(start))
	if err != nil {
		return Metadata{}, "", wrap(ErrStorage, StageStore, "save review audio", err)
	}

	log.Debug().Str("audio_url", audioURL).Msg("review audio stored")
	return md, audioURL, nil
}

func (p *Pipeline) checkCreate(ctx context.Context, kind works.Kind, parentID *string) error {
	if !kind.Valid() {
		return wrap(ErrInvalidRequest, "", "artwork type must be human or ai", nil)
	}
	if err := p.rules.CheckCreate(ctx, kind, parentID); err != nil {
		if errors.Is(err, works.ErrInvalidDerivation) {
			return wrap(ErrInvalidRequest, "", "invalid parent", err)
		}
		return wrap(ErrPersistence, StagePersist, "check parent", err)
	}
	return nil
}

func (p *Pipeline) fail(mode string, err error) Result {
	metrics.RecordRun(mode, err)
	p.log.Error().Err(err).Str("mode", mode).Str("stage", StageOf(err)).Msg("pipeline failed")
	return Result{
		Status:  StatusError,
		Message: "Failed to generate and save artwork metadata: " + err.Error(),
		Err:     err,
	}
}

func requestID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}

func audioKey(reqID string) string {
	return "reviews/review-" + reqID + ".mp3"
}
