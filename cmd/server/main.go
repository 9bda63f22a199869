package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/admanager/ad-server-go/internal/config"
	"github.com/admanager/ad-server-go/internal/database"
	"github.com/admanager/ad-server-go/internal/handler"
	"github.com/admanager/ad-server-go/internal/jobs"
	"github.com/admanager/ad-server-go/internal/middleware"
	"github.com/admanager/ad-server-go/internal/redis"
	"github.com/admanager/ad-server-go/internal/repository"
	"github.com/admanager/ad-server-go/internal/service"
	"github.com/admanager/ad-server-go/internal/storage"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}
	cancel()
	log.Info().Msg("database connected")

	ctx, cancel = context.WithTimeout(context.Background(), config.DBPingTimeout)
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	images, err := newImageStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise image store")
	}
	log.Info().Str("backend", cfg.StorageBackend).Msg("image store ready")

	adminAccountRepo := repository.NewAdminAccountRepository(db.DB)
	adRepo := repository.NewAdRepository(db.DB)
	sessionStore := repository.NewSessionStore(redisClient.Client)

	shortLinkService := service.NewShortLinkService(service.ShortLinkConfig{
		Endpoint:     cfg.ShortLinkEndpoint,
		CustomerID:   cfg.ShortLinkCustomerID,
		PartnerAPIID: cfg.ShortLinkPartnerAPIID,
		Timeout:      cfg.ShortLinkTimeout(),
	})
	if !shortLinkService.Enabled() {
		log.Warn().Msg("short link gateway not configured: target URLs will be used as short URLs")
	}
	authService := service.NewAuthService(adminAccountRepo, sessionStore, cfg.SessionTTL())
	adService := service.NewAdService(adRepo, shortLinkService, images, cfg.IframeAllowedHosts)

	cookie := middleware.CookieConfig{
		Name:   cfg.SessionCookieName,
		TTL:    authService.SessionTTL(),
		Secure: cfg.CookieSecure,
	}
	adminSessionMiddleware := middleware.NewAdminSessionMiddleware(authService, cookie)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(cfg.MaxUploadBytes)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(cfg.IsProduction(), cfg.IframeAllowedHosts)

	authHandler := handler.NewAuthHandler(authService, cookie)
	adHandler := handler.NewAdHandler(adService, cfg.MaxUploadBytes)
	publicHandler := handler.NewPublicHandler(adService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)
	r.Use(securityHeadersMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Handle("/static/*", handler.NewStaticHandler(cfg.StaticDir))

	r.Route("/api", func(r chi.Router) {
		r.Post("/admin/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/public/ad", publicHandler.RandomAd)

		r.Group(func(r chi.Router) {
			r.Use(adminSessionMiddleware.Handler)
			r.Get("/admin/me", authHandler.Me)
			r.Mount("/admin/ads", adHandler.Routes())
		})
	})

	if interval := cfg.OrphanSweepInterval(); interval > 0 {
		orphanJob := jobs.NewOrphanImageJob(adRepo, images, interval, config.OrphanGracePeriod)
		orphanJob.Start()
		defer orphanJob.Stop()
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func newImageStore(cfg *config.Config) (storage.ImageStore, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendS3:
		s3cfg := storage.S3Config{
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			UseSSL:        cfg.S3UseSSL,
			PublicBaseURL: cfg.S3PublicBaseURL,
		}
		client, err := storage.NewS3Client(s3cfg)
		if err != nil {
			return nil, err
		}
		store := storage.NewS3Store(client, s3cfg)
		ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
		defer cancel()
		if err := store.EnsureBucket(ctx); err != nil {
			log.Warn().Err(err).Msg("s3 bucket check failed: retrying on first upload")
		}
		return store, nil
	case config.StorageBackendLocal:
		return storage.NewLocalStore(cfg.UploadDir, cfg.StaticURLPrefix)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
