package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quantmind-br/repolens/internal/manifest"
	"github.com/quantmind-br/repolens/internal/report"
	"github.com/quantmind-br/repolens/internal/utils"
)

// ErrSkipped marks manifest sources that never started because an earlier
// source failed or the context was cancelled
var ErrSkipped = errors.New("skipped")

// ReportSink receives the report of manifest source i
type ReportSink func(ctx context.Context, i int, source manifest.Source, r report.Report) error

// ManifestResult represents the result of processing one manifest source
type ManifestResult struct {
	Source   manifest.Source
	Error    error
	Duration time.Duration
}

// RunManifest examines every source of the manifest, Options.Concurrency
// at a time, and hands each report to sink. Each source is an independent
// run with its own backends and clone.
//
// Unless ContinueOnError is set, the first failure cancels sources not yet
// started and is returned. Otherwise all sources run and the error reports
// how many failed.
func (o *Orchestrator) RunManifest(ctx context.Context, cfg *manifest.Config, sink ReportSink) ([]ManifestResult, error) {
	startTime := time.Now()
	total := len(cfg.Sources)

	o.logger.Info().
		Int("sources", total).
		Bool("continue_on_error", cfg.Options.ContinueOnError).
		Int("concurrency", cfg.Options.Concurrency).
		Msg("Starting manifest execution")

	results := make([]ManifestResult, total)
	for i, source := range cfg.Sources {
		results[i] = ManifestResult{Source: source, Error: ErrSkipped}
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if !cfg.Options.ContinueOnError {
		runCtx, cancel = context.WithCancel(ctx)
		defer cancel()
	}

	indexes := make([]int, total)
	for i := range indexes {
		indexes[i] = i
	}

	errs := utils.ParallelForEach(runCtx, indexes, cfg.Options.Concurrency, func(ctx context.Context, i int) error {
		source := cfg.Sources[i]
		sourceStart := time.Now()

		o.logger.Info().
			Int("source_idx", i).
			Str("target", source.Target).
			Str("reference", source.Reference).
			Msg("Processing source")

		r, err := o.Examine(ctx, source.Target, Options{
			Reference: source.Reference,
			Plugins:   source.Plugins,
		})
		if err == nil {
			err = sink(ctx, i, source, r)
		}

		results[i] = ManifestResult{
			Source:   source,
			Error:    err,
			Duration: time.Since(sourceStart),
		}

		if err != nil {
			o.logger.Error().
				Err(err).
				Int("source_idx", i).
				Str("target", source.Target).
				Msg("Source examination failed")
			if cancel != nil {
				cancel()
			}
			return fmt.Errorf("source %s failed: %w", source.Target, err)
		}

		o.logger.Info().
			Int("source_idx", i).
			Str("target", source.Target).
			Dur("duration", results[i].Duration).
			Msg("Source examination completed")
		return nil
	})

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}

	o.logger.Info().
		Dur("total_duration", time.Since(startTime)).
		Int("total", total).
		Int("success", total-failed).
		Int("failed", failed).
		Msg("Manifest execution completed")

	if err := ctx.Err(); err != nil {
		return results, err
	}

	firstErr := utils.FirstError(errs)
	if firstErr == nil {
		return results, nil
	}
	if !cfg.Options.ContinueOnError {
		return results, firstErr
	}
	return results, fmt.Errorf("manifest completed with %d/%d failures: %w", failed, total, firstErr)
}
