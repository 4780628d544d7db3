package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-app/config"
	"portfolio-app/database"
	audiosapi "portfolio-app/internal/api/audios"
	authapi "portfolio-app/internal/api/auth"
	worksapi "portfolio-app/internal/api/works"
	routes "portfolio-app/internal/app/http"
	"portfolio-app/internal/app/http/middleware"
	"portfolio-app/internal/gallery"
	"portfolio-app/internal/infra/blob"
	"portfolio-app/internal/infra/cloudinary"
	"portfolio-app/internal/infra/elevenlabs"
	"portfolio-app/internal/infra/logger"
	"portfolio-app/internal/infra/openai"
	"portfolio-app/internal/infra/redislock"
	"portfolio-app/internal/pipeline"
	"portfolio-app/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()

	log, err := logger.New(config.LOG_LEVEL, config.LOG_FORMAT)
	if err != nil {
		log = logger.GetLogger()
		log.Warn().Err(err).Msg("invalid log settings, using defaults")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}

	if _, err := authapi.EnsureOwner(ctx, st, config.OWNER_EMAIL, config.OWNER_PASSWORD, config.OWNER_NAME); err != nil {
		log.Fatal().Err(err).Msg("failed to seed owner account")
	}

	pcfg, err := config.LoadPipeline()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load pipeline config")
	}
	pipe, closeLocker, err := buildPipeline(ctx, pcfg, st, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build metadata pipeline")
	}
	defer closeLocker()

	related := gallery.NewResolver(st)
	svc := gallery.NewService(st, gallery.NewRules(st))

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Handlers{
		Auth:     authapi.NewHandler(st, config.OWNER_EMAIL, log),
		Artworks: worksapi.NewHandler(svc, related, pipe, st, log),
		Audios:   audiosapi.NewHandler(st, log),
	})

	srv := &http.Server{
		Addr:              ":" + config.PORT,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", config.STORE_BACKEND).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func openStore() (store.Store, error) {
	switch config.STORE_BACKEND {
	case "memory":
		return store.NewMemoryStore(), nil
	case "postgres":
		db, err := database.InitDB(config.DB_URL)
		if err != nil {
			return nil, err
		}
		return store.NewGormStore(db), nil
	default:
		return nil, errors.New("STORE_BACKEND must be postgres or memory")
	}
}

func buildPipeline(ctx context.Context, cfg *config.Pipeline, st store.ArtworkStore, log zerolog.Logger) (*pipeline.Pipeline, func(), error) {
	gen, err := openai.New(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, log)
	if err != nil {
		return nil, nil, err
	}

	blobs, err := blob.New(ctx, blob.Options{
		Backend:       cfg.BlobBackend,
		Bucket:        cfg.BlobBucket,
		PublicBaseURL: cfg.BlobPublicBaseURL,
		Endpoint:      cfg.BlobEndpoint,
		Region:        cfg.BlobRegion,
		AccessKey:     cfg.BlobAccessKey,
		SecretKey:     cfg.BlobSecretKey,
		UseSSL:        cfg.BlobUseSSL,
		PathStyle:     cfg.BlobPathStyle,
	}, log)
	if err != nil {
		return nil, nil, err
	}

	var locker pipeline.Locker = pipeline.NewLocalLocker()
	closeLocker := func() {}
	if cfg.RedisAddr != "" {
		rl, err := redislock.New(cfg.RedisAddr, cfg.RedisPassword, cfg.LockPrefix, log)
		if err != nil {
			return nil, nil, err
		}
		if err := rl.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis lock backend unreachable at startup")
		}
		locker = rl
		closeLocker = func() { _ = rl.Close() }
	}

	opts := pipeline.DefaultOptions()
	opts.Voice = cfg.ElevenLabsVoice
	opts.IngestTimeout = cfg.IngestTimeout
	opts.GenerateTimeout = cfg.GenerateTimeout
	opts.SynthesizeTimeout = cfg.SynthesizeTimeout
	opts.StoreTimeout = cfg.StoreTimeout
	opts.PersistTimeout = cfg.PersistTimeout
	opts.LockTTL = cfg.LockTTL
	opts.IngestRetry.Attempts = cfg.IngestAttempts
	opts.GenerateRetry.Attempts = cfg.GenerateAttempts
	opts.GenerateRetry.InitialDelay = cfg.RetryDelay
	opts.GenerateRetry.MaxDelay = cfg.RetryMaxDelay

	p := pipeline.New(pipeline.Deps{
		Generator: gen,
		Synthesizer: elevenlabs.New(elevenlabs.Options{
			APIKey:  cfg.ElevenLabsKey,
			BaseURL: cfg.ElevenLabsBaseURL,
			Voice:   cfg.ElevenLabsVoice,
			Model:   cfg.ElevenLabsModel,
			Timeout: cfg.SynthesizeTimeout,
		}, log),
		Blobs: blobs,
		Ingestor: cloudinary.New(cloudinary.Options{
			CloudName:    cfg.CloudinaryCloudName,
			APIKey:       cfg.CloudinaryAPIKey,
			APISecret:    cfg.CloudinaryAPISecret,
			UploadPreset: cfg.CloudinaryUploadPreset,
			BaseURL:      cfg.CloudinaryBaseURL,
			Timeout:      cfg.IngestTimeout,
		}, log),
		Store:  st,
		Locker: locker,
		Logger: log,
	}, opts)
	return p, closeLocker, nil
}
