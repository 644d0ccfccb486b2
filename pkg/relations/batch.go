package relations

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dd0wney/biocatalog/pkg/logging"
	"github.com/dd0wney/biocatalog/pkg/parallel"
	"github.com/dd0wney/biocatalog/pkg/visualization"
	"github.com/google/uuid"
)

// BatchReport summarises one LayoutAll run
type BatchReport struct {
	RunID     string        `json:"run_id"`
	Total     int           `json:"total"`
	Converged int           `json:"converged"`
	Capped    int           `json:"capped"`
	Empty     int           `json:"empty"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// LayoutAll computes a relation map for every article in the catalog on
// the worker pool. Maps are returned in Articles() order; an article whose
// layout failed has a nil slot and is counted in Failed. Cancelling ctx
// stops submission and returns the context error with a partial report.
func (s *Service) LayoutAll(ctx context.Context, opts Options) ([]*visualization.RelationMap, BatchReport, error) {
	report := BatchReport{RunID: uuid.NewString()}
	logger := s.logger.With(logging.RunID(report.RunID))
	start := time.Now()

	ids := s.catalog.Articles()
	results := make([]*visualization.RelationMap, len(ids))

	pool, err := parallel.NewWorkerPool(s.workers, logger)
	if err != nil {
		return nil, report, err
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	logger.Info("batch started", logging.Count(len(ids)), logging.Int("workers", pool.Workers()))

	for i, id := range ids {
		submitErr := pool.SubmitContext(ctx, func() {
			fail := func(err error) {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			defer func() {
				if r := recover(); r != nil {
					results[i] = nil
					fail(fmt.Errorf("%s: panic: %v", id, r))
				}
			}()

			m, err := s.RelationMap(ctx, id, opts)
			if err != nil {
				fail(fmt.Errorf("%s: %w", id, err))
				return
			}
			results[i] = m
		})
		if submitErr != nil {
			break
		}
	}
	pool.Close()

	for _, m := range results {
		if m == nil {
			report.Failed++
			continue
		}
		report.Total++
		switch {
		case len(m.Positions) == 0:
			report.Empty++
		case m.Diagnostics.Converged:
			report.Converged++
		default:
			report.Capped++
		}
	}
	report.Duration = time.Since(start)

	runErr := ctx.Err()
	if runErr == nil && len(errs) > 0 {
		runErr = errors.Join(errs...)
	}
	if s.metrics != nil {
		s.metrics.RecordBatch(report.Total, runErr, report.Duration)
	}

	fields := []logging.Field{
		logging.Count(report.Total),
		logging.Int("converged", report.Converged),
		logging.Int("capped", report.Capped),
		logging.Int("empty", report.Empty),
		logging.Int("failed", report.Failed),
		logging.Latency(report.Duration),
	}
	if runErr != nil {
		logger.Error("batch finished with errors", append(fields, logging.Error(runErr))...)
		return results, report, runErr
	}
	logger.Info("batch finished", fields...)
	return results, report, nil
}
