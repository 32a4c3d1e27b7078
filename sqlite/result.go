package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	webscraper "github.com/dmtanner/authenticated-webscraper"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ webscraper.ResultService = (*ResultService)(nil)

// ResultService implements webscraper.ResultService using SQLite.
type ResultService struct {
	db *DB
}

// NewResultService creates a new ResultService.
func NewResultService(db *DB) *ResultService {
	return &ResultService{db: db}
}

// CreateRun creates a new run.
func (s *ResultService) CreateRun(ctx context.Context, run *webscraper.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.StartedAt = time.Now().UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, input, output, total, failed, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Input, run.Output, run.Total, run.Failed, run.StartedAt.Format(time.RFC3339))

	return err
}

// FinishRun records the totals and finish time of a run.
func (s *ResultService) FinishRun(ctx context.Context, id string, total, failed int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE runs SET total = ?, failed = ?, finished_at = ? WHERE id = ?
	`, total, failed, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return webscraper.Errorf(webscraper.ENOTFOUND, "run not found")
	}

	return nil
}

// FindRunByID retrieves a run by ID.
func (s *ResultService) FindRunByID(ctx context.Context, id string) (*webscraper.Run, error) {
	var run webscraper.Run
	var startedAt, finishedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, input, output, total, failed, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.Input, &run.Output, &run.Total, &run.Failed, &startedAt, &finishedAt)

	if err == sql.ErrNoRows {
		return nil, webscraper.Errorf(webscraper.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if finishedAt != "" {
		if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, err
		}
	}

	return &run, nil
}

// CreateResult stores one row outcome. Absent fields are stored as NULL.
func (s *ResultService) CreateResult(ctx context.Context, res *webscraper.Result) error {
	if res.RunID == "" {
		return webscraper.Errorf(webscraper.EINVALID, "result run ID required")
	}

	res.ID = uuid.New().String()
	res.CreatedAt = time.Now().UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (id, run_id, position, reference, status, error,
			grand_total, discount, term_length, trial_period, auto_renew, basic, text_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, res.ID, res.RunID, res.Position, res.Reference, res.Status, res.Error,
		nullString(res.GrandTotal), nullString(res.Discount), nullString(res.TermLength), nullString(res.TrialPeriod),
		boolInt(res.AutoRenew), boolInt(res.Basic), res.TextHash, res.CreatedAt.Format(time.RFC3339))

	return err
}

// FindResults retrieves results matching the filter, ordered by run and position.
func (s *ResultService) FindResults(ctx context.Context, filter webscraper.ResultFilter) ([]*webscraper.Result, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, run_id, position, reference, status, error,
		grand_total, discount, term_length, trial_period, auto_renew, basic, text_hash, created_at
		FROM results WHERE 1=1`)

	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, *filter.Status)
	}

	query.WriteString(" ORDER BY run_id, position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*webscraper.Result
	for rows.Next() {
		var res webscraper.Result
		var grandTotal, discount, termLength, trialPeriod sql.NullString
		var createdAt string

		if err := rows.Scan(&res.ID, &res.RunID, &res.Position, &res.Reference, &res.Status, &res.Error,
			&grandTotal, &discount, &termLength, &trialPeriod, &res.AutoRenew, &res.Basic, &res.TextHash, &createdAt); err != nil {
			return nil, err
		}

		res.GrandTotal = valueOf(grandTotal)
		res.Discount = valueOf(discount)
		res.TermLength = valueOf(termLength)
		res.TrialPeriod = valueOf(trialPeriod)
		if res.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}

		results = append(results, &res)
	}

	return results, rows.Err()
}
