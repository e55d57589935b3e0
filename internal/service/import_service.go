// Package service wires the Pipeline Orchestrator (C10), the Acquisition
// Adapters (C11), the Import-State Coordinator (C14), and the Retry Queue
// (C15) into the single entry point the API layer (and cmd/importctl)
// calls, the way the teacher's internal/service wraps a repository and a
// cache behind one method surface per domain concern.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fenwickretail/invpipe/internal/acquisition"
	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/importstate"
	"github.com/fenwickretail/invpipe/internal/pipeline"
	"github.com/fenwickretail/invpipe/internal/retry"
	"github.com/fenwickretail/invpipe/internal/store"
)

// ImportService is the single surface every acquisition channel and CLI
// entry point drives an import run through; it owns per-source mutual
// exclusion and never lets two callers run the same source concurrently.
type ImportService struct {
	pipelineDeps pipeline.Deps
	acqDeps      acquisition.Deps
	sources      store.SourceStore

	coordinator *importstate.Coordinator
	urlFetcher  *acquisition.URLFetcher
	emailAdapter *acquisition.EmailAdapter
	scheduler   *acquisition.Scheduler
	retryQueue  *retry.Queue

	retryDefaultIntervalMins int
	retryDefaultCutoffHour   int
}

// NewImportService wires every seam together. retryDefaultIntervalMins/
// retryDefaultCutoffHour supply package-level fallbacks when a source
// doesn't configure its own (internal/config.RetryConfig).
func NewImportService(pipelineDeps pipeline.Deps, acqDeps acquisition.Deps, sources store.SourceStore, retryDefaultIntervalMins, retryDefaultCutoffHour int) *ImportService {
	s := &ImportService{
		pipelineDeps:             pipelineDeps,
		acqDeps:                  acqDeps,
		sources:                  sources,
		coordinator:              importstate.New(),
		urlFetcher:               acquisition.NewURLFetcher(),
		emailAdapter:             acquisition.NewEmailAdapter(),
		scheduler:                acquisition.NewScheduler(),
		retryDefaultIntervalMins: retryDefaultIntervalMins,
		retryDefaultCutoffHour:   retryDefaultCutoffHour,
	}
	s.retryQueue = retry.NewQueue(s.retryFire)
	return s
}

// run is the shared "acquire under the source lock, then hand to the
// orchestrator" path every adapter below funnels through (§4.14).
func (s *ImportService) run(ctx context.Context, sourceID string, build func(domain.Source) (pipeline.RunInput, error)) (pipeline.Result, error) {
	source, err := s.sources.Get(ctx, sourceID)
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("load source %s: %w", sourceID, err)
	}

	if err := s.coordinator.StartImport(sourceID); err != nil {
		return pipeline.Result{}, err
	}

	input, err := build(source)
	if err != nil {
		s.coordinator.FailImport(sourceID, err.Error())
		return pipeline.Result{}, err
	}

	result, err := pipeline.Run(ctx, s.pipelineDeps, input)
	if err != nil {
		s.coordinator.FailImport(sourceID, err.Error())
		return result, err
	}
	s.coordinator.CompleteImport(sourceID, result.ItemCount)
	return result, nil
}

// TriggerManualUpload runs the manual acquisition channel against one or
// more uploaded buffers (§4.11 "Manual upload").
func (s *ImportService) TriggerManualUpload(ctx context.Context, sourceID string, files map[string][]byte) (pipeline.Result, error) {
	return s.run(ctx, sourceID, func(source domain.Source) (pipeline.RunInput, error) {
		return acquisition.ManualUpload(source, files)
	})
}

// StageManualFile parks one uploaded file for a later combine instead of
// running it immediately.
func (s *ImportService) StageManualFile(ctx context.Context, sourceID, fileName string, data []byte) (domain.StagedFile, error) {
	source, err := s.sources.Get(ctx, sourceID)
	if err != nil {
		return domain.StagedFile{}, fmt.Errorf("load source %s: %w", sourceID, err)
	}
	return acquisition.StageManualFile(ctx, s.acqDeps, source, fileName, data)
}

// TriggerURLFetch runs the scheduled-GET acquisition channel (§4.11 "URL
// fetch").
func (s *ImportService) TriggerURLFetch(ctx context.Context, sourceID string) (pipeline.Result, error) {
	return s.run(ctx, sourceID, func(source domain.Source) (pipeline.RunInput, error) {
		buf, err := s.urlFetcher.Fetch(ctx, source)
		if err != nil {
			return pipeline.RunInput{}, err
		}
		return pipeline.RunInput{Source: source, Buffers: []pipeline.Buffer{buf}}, nil
	})
}

// ScheduleURLFetch registers source's recurring pull per its Schedule
// config, replacing any existing schedule for it.
func (s *ImportService) ScheduleURLFetch(sourceID string, intervalMins int) error {
	return s.scheduler.ScheduleEvery(sourceID, intervalMins, func() {
		ctx := context.Background()
		if _, err := s.TriggerURLFetch(ctx, sourceID); err != nil {
			log.Error().Err(err).Str("source_id", sourceID).Msg("scheduled url fetch failed")
		}
	})
}

// PollEmail runs the IMAP acquisition channel (§4.11 "Email"): poll for
// matching mail, run immediately against any harvested single-file
// buffers, and either auto-combine or schedule a retry depending on what
// was found.
func (s *ImportService) PollEmail(ctx context.Context, sourceID string) (*pipeline.Result, error) {
	source, err := s.sources.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("load source %s: %w", sourceID, err)
	}

	poll, err := s.emailAdapter.Poll(ctx, s.acqDeps, source)
	if err != nil {
		return nil, err
	}

	if len(poll.Buffers) == 0 && len(poll.Staged) == 0 {
		if source.RetryIfNoEmail {
			interval, cutoff := source.RetryIntervalMinutes, source.RetryCutoffHour
			if interval <= 0 {
				interval = s.retryDefaultIntervalMins
			}
			if cutoff <= 0 {
				cutoff = s.retryDefaultCutoffHour
			}
			runID := uuid.NewString()
			s.retryQueue.Schedule(sourceID, runID, interval, cutoff, time.Now())
		}
		return nil, nil
	}

	if len(poll.Buffers) > 0 {
		result, err := s.run(ctx, sourceID, func(src domain.Source) (pipeline.RunInput, error) {
			return pipeline.RunInput{Source: src, Buffers: poll.Buffers}, nil
		})
		if err != nil {
			return nil, err
		}
		return &result, nil
	}

	ready, err := acquisition.CombineReady(ctx, s.acqDeps, source)
	if err != nil {
		log.Warn().Err(err).Str("source_id", sourceID).Msg("combine-readiness check failed")
	}
	if ready {
		result, err := s.Combine(ctx, sourceID)
		if err != nil {
			return nil, err
		}
		return &result, nil
	}
	return nil, nil
}

// retryFire is the retry.Queue handler: re-poll the mailbox for the
// original logical run (runID is accepted for downstream correlation only
// — this core has no caller that consumes it yet).
func (s *ImportService) retryFire(sourceID, runID string) {
	ctx := context.Background()
	if _, err := s.PollEmail(ctx, sourceID); err != nil {
		log.Error().Err(err).Str("source_id", sourceID).Str("run_id", runID).Msg("retried email poll failed")
	}
}

// Combine runs the staged-file combine channel (§4.11 "Combine").
func (s *ImportService) Combine(ctx context.Context, sourceID string) (pipeline.Result, error) {
	return s.run(ctx, sourceID, func(source domain.Source) (pipeline.RunInput, error) {
		return acquisition.Combine(ctx, s.acqDeps, source)
	})
}

// StagedFiles lists the staged-but-not-yet-combined files for a source,
// backing the staged-file browse endpoint.
func (s *ImportService) StagedFiles(ctx context.Context, sourceID string) ([]domain.StagedFile, error) {
	return s.acqDeps.StagedFiles.ListBySource(ctx, sourceID, domain.StagedFileStaged)
}

// Shutdown stops the URL-fetch scheduler and retry queue's cron drivers.
func (s *ImportService) Shutdown() {
	s.scheduler.Stop()
	s.retryQueue.Stop()
}
