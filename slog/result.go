package slog

import (
	"context"
	"log/slog"
	"time"

	webscraper "github.com/dmtanner/authenticated-webscraper"
)

// Ensure LoggingResultService implements webscraper.ResultService.
var _ webscraper.ResultService = (*LoggingResultService)(nil)

// LoggingResultService wraps a ResultService with logging.
type LoggingResultService struct {
	next   webscraper.ResultService
	logger *slog.Logger
}

// NewLoggingResultService creates a new LoggingResultService.
func NewLoggingResultService(next webscraper.ResultService, logger *slog.Logger) *LoggingResultService {
	return &LoggingResultService{next: next, logger: logger}
}

func (s *LoggingResultService) CreateRun(ctx context.Context, run *webscraper.Run) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create run",
			"id", run.ID,
			"input", run.Input,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateRun(ctx, run)
}

func (s *LoggingResultService) FinishRun(ctx context.Context, id string, total, failed int) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("finish run",
			"id", id,
			"total", total,
			"failed", failed,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FinishRun(ctx, id, total, failed)
}

func (s *LoggingResultService) FindRunByID(ctx context.Context, id string) (run *webscraper.Run, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find run",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRunByID(ctx, id)
}

func (s *LoggingResultService) CreateResult(ctx context.Context, result *webscraper.Result) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create result",
			"run_id", result.RunID,
			"position", result.Position,
			"status", result.Status,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateResult(ctx, result)
}

func (s *LoggingResultService) FindResults(ctx context.Context, filter webscraper.ResultFilter) (results []*webscraper.Result, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find results",
			"count", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindResults(ctx, filter)
}
