// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/fenwickretail/invpipe/internal/acquisition"
	"github.com/fenwickretail/invpipe/internal/api"
	"github.com/fenwickretail/invpipe/internal/cache"
	"github.com/fenwickretail/invpipe/internal/clean"
	"github.com/fenwickretail/invpipe/internal/config"
	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/llmadvisor"
	"github.com/fenwickretail/invpipe/internal/pipeline"
	"github.com/fenwickretail/invpipe/internal/repository/postgres"
	"github.com/fenwickretail/invpipe/internal/service"
	"github.com/fenwickretail/invpipe/internal/storage"
	"github.com/fenwickretail/invpipe/pkg/logger"
)

func main() {
	cfg := config.Load()

	dbConn, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize database connection")
	}

	sourceRepo := postgres.NewSourceRepository(dbConn)
	variantRepo := postgres.NewVariantRepository(dbConn)
	statsRepo := postgres.NewStatsRepository(dbConn)
	registryRepo := postgres.NewRegistryRepository(dbConn)
	marketplaceRepo := postgres.NewMarketplaceRepository(dbConn)
	stagedFileRepo := postgres.NewStagedFileRepository(dbConn)

	caches, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Falling back to disabled caches")
		caches = &cache.Caches{}
	}

	blobClient, err := storage.NewClient(storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize blob storage client")
	}

	var advisor *llmadvisor.Advisor
	if cfg.LLM.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		advisor, err = llmadvisor.New(ctx, llmadvisor.Config{
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLMTimeout(),
		})
		cancel()
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to initialize color advisor, continuing without it")
			advisor = nil
		}
	}

	cachedRegistry := cache.NewCachedRegistryStore(registryRepo, caches)

	pipelineDeps := pipeline.Deps{
		Variants:           variantRepo,
		Sources:            sourceRepo,
		Stats:              statsRepo,
		Registry:           cachedRegistry,
		Marketplace:        cache.NewCachedMarketplaceStore(marketplaceRepo, caches),
		StagedFiles:        stagedFileRepo,
		SafetyThresholdPct: cfg.Sources.SafetyThresholdPct,
		ReviewSink: func(s clean.ColorSuggestion) {
			if err := cachedRegistry.SuggestColorMapping(context.Background(), s.Bad, s.Good, s.Confidence); err != nil {
				logger.Log.Warn().Err(err).Str("bad", s.Bad).Str("good", s.Good).Msg("failed to persist color suggestion")
			}
		},
	}
	if advisor != nil {
		pipelineDeps.Advisor = advisor
	}

	acqDeps := acquisition.Deps{
		Blob:        blobClient,
		StagedFiles: stagedFileRepo,
	}

	importService := service.NewImportService(pipelineDeps, acqDeps, sourceRepo, cfg.Retry.DefaultIntervalMinutes, cfg.Retry.DefaultCutoffHour)
	sourceService := service.NewSourceService(sourceRepo)
	statsService := service.NewStatsService(statsRepo)

	if err := scheduleActiveSources(context.Background(), sourceService, importService); err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to schedule one or more active sources")
	}

	router := api.NewRouter(&api.Services{
		Sources: sourceService,
		Imports: importService,
		Stats:   statsService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	importService.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// scheduleActiveSources registers the recurring URL-fetch schedule for
// every auto-scheduled source of kind "url" with a configured URL at startup, mirroring the way a
// cron-backed source would be re-armed after a deploy.
func scheduleActiveSources(ctx context.Context, sources *service.SourceService, imports *service.ImportService) error {
	all, err := sources.List(ctx)
	if err != nil {
		return err
	}
	for _, src := range all {
		if src.Kind != domain.SourceKindURL || !src.Schedule.Auto || src.URLFetch.URL == "" {
			continue
		}
		intervalMins := src.Schedule.FrequencyMins
		if intervalMins <= 0 {
			intervalMins = 60
		}
		if err := imports.ScheduleURLFetch(src.ID, intervalMins); err != nil {
			logger.Log.Warn().Err(err).Str("source_id", src.ID).Msg("failed to schedule url fetch source")
		}
	}
	return nil
}
