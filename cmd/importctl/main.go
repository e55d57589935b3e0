// cmd/importctl/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"database/sql"

	"github.com/fenwickretail/invpipe/internal/acquisition"
	"github.com/fenwickretail/invpipe/internal/cache"
	"github.com/fenwickretail/invpipe/internal/clean"
	"github.com/fenwickretail/invpipe/internal/config"
	"github.com/fenwickretail/invpipe/internal/llmadvisor"
	"github.com/fenwickretail/invpipe/internal/parse"
	"github.com/fenwickretail/invpipe/internal/pipeline"
	"github.com/fenwickretail/invpipe/internal/repository/postgres"
	"github.com/fenwickretail/invpipe/internal/service"
)

// cmd/importctl is the one-off CLI operators use to trigger or inspect an
// import without going through the HTTP API, the same role cmd/seed and
// cmd/analytics played for the teacher's PO/stock-health domain: a direct
// pgx connection, plain flag parsing, and no server process.
func main() {
	dbURL := flag.String("db-url", "", "Postgres connection string (required unless -dry-run)")
	sourceID := flag.String("source", "", "source id to operate on")
	manualFile := flag.String("manual-file", "", "path to a file to run as a manual upload against -source")
	list := flag.Bool("list", false, "list configured sources and exit")
	history := flag.Int("history", 0, "print the last N ImportStats rows for -source and exit")
	dryRun := flag.Bool("dry-run", false, "detect format and parse -manual-file only; no database connection, no write")
	flag.Parse()

	if *dryRun {
		if *manualFile == "" {
			log.Fatal("dry-run requires -manual-file")
		}
		runDryParse(*manualFile, *sourceID)
		return
	}

	if *dbURL == "" {
		log.Fatal("database URL is required (use -db-url flag)")
	}

	db, err := sql.Open("pgx", *dbURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	wrapped := postgres.NewFromConn(db)
	sourceRepo := postgres.NewSourceRepository(wrapped)
	variantRepo := postgres.NewVariantRepository(wrapped)
	statsRepo := postgres.NewStatsRepository(wrapped)
	registryRepo := postgres.NewRegistryRepository(wrapped)
	marketplaceRepo := postgres.NewMarketplaceRepository(wrapped)
	stagedFileRepo := postgres.NewStagedFileRepository(wrapped)

	sourceService := service.NewSourceService(sourceRepo)

	if *list {
		runList(sourceService)
		return
	}

	if *sourceID == "" {
		log.Fatal("-source is required unless -list is given")
	}

	if *history > 0 {
		runHistory(service.NewStatsService(statsRepo), *sourceID, *history)
		return
	}

	if *manualFile == "" {
		log.Fatal("nothing to do: pass -manual-file, -history, or -list")
	}

	cfg := config.Load()

	caches, err := cache.New(cfg.Cache)
	if err != nil {
		caches = &cache.Caches{}
	}
	cachedRegistry := cache.NewCachedRegistryStore(registryRepo, caches)

	pipelineDeps := pipeline.Deps{
		Variants:    variantRepo,
		Sources:     sourceRepo,
		Stats:       statsRepo,
		Registry:    cachedRegistry,
		Marketplace: cache.NewCachedMarketplaceStore(marketplaceRepo, caches),
		StagedFiles: stagedFileRepo,
		ReviewSink: func(s clean.ColorSuggestion) {
			if err := cachedRegistry.SuggestColorMapping(context.Background(), s.Bad, s.Good, s.Confidence); err != nil {
				log.Printf("failed to persist color suggestion %s->%s: %v", s.Bad, s.Good, err)
			}
		},
	}
	if cfg.LLM.Enabled {
		actx, acancel := context.WithTimeout(context.Background(), 10*time.Second)
		advisor, err := llmadvisor.New(actx, llmadvisor.Config{APIKey: cfg.LLM.APIKey, Model: cfg.LLM.Model, Timeout: cfg.LLMTimeout()})
		acancel()
		if err != nil {
			log.Printf("color advisor unavailable, continuing without it: %v", err)
		} else {
			pipelineDeps.Advisor = advisor
		}
	}

	acqDeps := acquisition.Deps{StagedFiles: stagedFileRepo}
	importService := service.NewImportService(pipelineDeps, acqDeps, sourceRepo, 30, 18)
	defer importService.Shutdown()

	data, err := os.ReadFile(*manualFile)
	if err != nil {
		log.Fatalf("read %s: %v", *manualFile, err)
	}

	start := time.Now()
	result, err := importService.TriggerManualUpload(context.Background(), *sourceID, map[string][]byte{
		filenameOnly(*manualFile): data,
	})
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("import complete in %v: success=%v items=%d\n", time.Since(start), result.Success, result.ItemCount)
	if result.SafetyBlock != nil {
		fmt.Printf("safety block: %s (drop=%.1f%%)\n", result.SafetyBlock.Message, result.SafetyBlock.DropPercent)
	}
	if result.Validation != nil {
		fmt.Printf("validation accuracy: %.2f\n", result.Validation.Accuracy())
	}
}

func runList(sources *service.SourceService) {
	all, err := sources.List(context.Background())
	if err != nil {
		log.Fatalf("list sources: %v", err)
	}
	for _, s := range all {
		fmt.Printf("%s\t%s\tkind=%s role=%s\n", s.ID, s.DisplayName, s.Kind, s.Role)
	}
}

func runHistory(stats *service.StatsService, sourceID string, n int) {
	rows, err := stats.History(context.Background(), sourceID, n)
	if err != nil {
		log.Fatalf("history for %s: %v", sourceID, err)
	}
	for _, r := range rows {
		fmt.Printf("%s\titems=%d\tstock=%d\tstyles=%d\n", r.Timestamp.Format(time.RFC3339), r.ItemCount, r.TotalStock, r.UniqueStyleCount)
	}
}

// runDryParse exercises only C1 (format detection) and C2 (layout
// parsing) against a local file, with no database connection and no
// write - useful for an operator validating a vendor's file shape before
// wiring up a real source.
func runDryParse(path, sourceName string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}
	g, err := parse.ReadGrid(data, path)
	if err != nil {
		log.Fatalf("parse grid: %v", err)
	}
	format := parse.Detect(g, sourceName, path)
	rows := parse.Parse(format, g, parse.Config{})
	fmt.Printf("detected format: %s\n", format)
	fmt.Printf("parsed %d rows\n", len(rows))
	for i, r := range rows {
		if i >= 10 {
			fmt.Printf("... %d more\n", len(rows)-10)
			break
		}
		fmt.Printf("  %s | %s | %s | stock=%d\n", r.Style, r.Color, r.Size, r.Stock)
	}
}

func filenameOnly(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
