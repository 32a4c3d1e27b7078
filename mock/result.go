package mock

import (
	"context"

	webscraper "github.com/dmtanner/authenticated-webscraper"
)

var _ webscraper.ResultService = (*ResultService)(nil)

// ResultService is a mock implementation of webscraper.ResultService.
type ResultService struct {
	CreateRunFn    func(ctx context.Context, run *webscraper.Run) error
	FinishRunFn    func(ctx context.Context, id string, total, failed int) error
	FindRunByIDFn  func(ctx context.Context, id string) (*webscraper.Run, error)
	CreateResultFn func(ctx context.Context, result *webscraper.Result) error
	FindResultsFn  func(ctx context.Context, filter webscraper.ResultFilter) ([]*webscraper.Result, error)
}

func (s *ResultService) CreateRun(ctx context.Context, run *webscraper.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *ResultService) FinishRun(ctx context.Context, id string, total, failed int) error {
	return s.FinishRunFn(ctx, id, total, failed)
}

func (s *ResultService) FindRunByID(ctx context.Context, id string) (*webscraper.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *ResultService) CreateResult(ctx context.Context, result *webscraper.Result) error {
	return s.CreateResultFn(ctx, result)
}

func (s *ResultService) FindResults(ctx context.Context, filter webscraper.ResultFilter) ([]*webscraper.Result, error) {
	return s.FindResultsFn(ctx, filter)
}
