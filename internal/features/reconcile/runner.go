// Package reconcile re-checks local visa state against the NFT API on a schedule.
package reconcile

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"

	"business-visa-backend/internal/common/logger"
	"business-visa-backend/internal/common/metrics"
)

// Outcome is what processing one record did.
type Outcome int

const (
	// Unchanged records matched the scan but needed no transition.
	Unchanged Outcome = iota
	Updated
)

// RecordError is the failure of a single record in a run.
type RecordError struct {
	Key string
	Err error
}

// RunReport summarises one run. Matched = Updated + Unchanged + Failed.
type RunReport struct {
	Job       string
	Matched   int
	Updated   int
	Unchanged int
	Failed    int
	Errors    []RecordError
	Took      time.Duration
}

// Task is a named run the scheduler can fire.
type Task interface {
	Name() string
	Run(ctx context.Context) (RunReport, error)
}

// Runner scans for records of type T and processes each one in its own failure boundary.
type Runner[T any] struct {
	name    string
	scan    func(ctx context.Context) ([]T, error)
	key     func(T) string
	process func(ctx context.Context, rec T) (Outcome, error)
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewRunner[T any](
	name string,
	scan func(ctx context.Context) ([]T, error),
	key func(T) string,
	process func(ctx context.Context, rec T) (Outcome, error),
	m *metrics.Metrics,
) *Runner[T] {
	return &Runner[T]{
		name:    name,
		scan:    scan,
		key:     key,
		process: process,
		metrics: m,
		log:     logger.With("reconcile").With().Str("job", name).Logger(),
	}
}

func (r *Runner[T]) Name() string {
	return r.name
}

// Run scans once and processes every match. A scan failure aborts the run; a record
// failure, including a panic, is logged and counted and the run moves on.
func (r *Runner[T]) Run(ctx context.Context) (RunReport, error) {
	start := time.Now()
	report := RunReport{Job: r.name}
	r.log.Info().Msg("Reconciliation run started")

	records, err := r.scan(ctx)
	if err != nil {
		report.Took = time.Since(start)
		r.log.Error().Err(err).Msg("Reconciliation scan failed, run aborted")
		r.observe("scan_error", report)
		return report, fmt.Errorf("%s scan: %w", r.name, err)
	}
	report.Matched = len(records)

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			// shutting down; the rest is picked up by the next run
			r.log.Warn().Err(err).Int("remaining", report.Matched-report.Updated-report.Unchanged-report.Failed).
				Msg("Reconciliation run interrupted")
			break
		}

		key := r.key(rec)
		outcome, err := r.processOne(ctx, rec)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, RecordError{Key: key, Err: err})
			r.log.Error().Err(err).Str("record", key).Msg("Reconciliation record failed")
			continue
		}
		switch outcome {
		case Updated:
			report.Updated++
		default:
			report.Unchanged++
		}
	}

	report.Took = time.Since(start)
	outcome := "ok"
	if report.Failed > 0 {
		outcome = "partial"
	}
	r.observe(outcome, report)
	r.log.Info().
		Int("matched", report.Matched).
		Int("updated", report.Updated).
		Int("unchanged", report.Unchanged).
		Int("failed", report.Failed).
		Dur("took", report.Took).
		Msg("Reconciliation run finished")
	return report, nil
}

func (r *Runner[T]) processOne(ctx context.Context, rec T) (outcome Outcome, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error().Str("stack", string(debug.Stack())).Msg("Reconciliation record panicked")
			outcome, err = Unchanged, fmt.Errorf("panic: %v", p)
		}
	}()
	return r.process(ctx, rec)
}

func (r *Runner[T]) observe(outcome string, report RunReport) {
	if r.metrics != nil {
		r.metrics.ObserveRun(r.name, outcome, report.Took, report.Updated, report.Failed)
	}
}
