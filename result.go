package webscraper

import (
	"context"
	"strconv"
	"time"
)

// Row statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// ResultColumns are the header names appended to every input row.
var ResultColumns = []string{
	"Grand Total",
	"Discount",
	"Term Length",
	"Auto Renew",
	"Basic",
	"Trial Period",
	"Status",
	"Error",
}

// RowResult is the outcome of processing one input row.
type RowResult struct {
	Position  int
	Reference string
	URL       string

	// Proposal is nil when the row failed before interpretation.
	Proposal *Proposal

	// TextHash identifies the converted document text without keeping it.
	TextHash string

	// Err is the failure that stopped the row, if any.
	Err error

	// Issues reports fields that could not be extracted cleanly.
	// A row with issues still succeeds.
	Issues error
}

// Status returns StatusFailed if the row failed and StatusOK otherwise.
func (r *RowResult) Status() string {
	if r.Err != nil {
		return StatusFailed
	}
	return StatusOK
}

// Message returns the failure reason, or the field issues of a row that
// succeeded, or "".
func (r *RowResult) Message() string {
	switch {
	case r.Err != nil:
		return messageOf(r.Err)
	case r.Issues != nil:
		return messageOf(r.Issues)
	}
	return ""
}

// Cells returns the cells matching ResultColumns. Absent values and the
// fields of failed rows are empty.
func (r *RowResult) Cells() []string {
	cells := make([]string, len(ResultColumns))
	if p := r.Proposal; p != nil && r.Err == nil {
		cells[0] = p.GrandTotal.String()
		cells[1] = p.Discount.String()
		cells[2] = p.TermLength.String()
		cells[3] = strconv.FormatBool(p.AutoRenew)
		cells[4] = strconv.FormatBool(p.Basic)
		cells[5] = p.TrialPeriod.String()
	}
	cells[6] = r.Status()
	cells[7] = r.Message()
	return cells
}

// messageOf prefers the application message and falls back to err.Error()
// for errors that carry no code.
func messageOf(err error) string {
	if ErrorCode(err) == EINTERNAL {
		return err.Error()
	}
	return ErrorMessage(err)
}

// Run records one batch invocation.
type Run struct {
	ID         string    `json:"id"`
	Input      string    `json:"input"`
	Output     string    `json:"output"`
	Total      int       `json:"total"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.Input == "" {
		return Errorf(EINVALID, "run input required")
	}
	return nil
}

// Result is a stored row outcome.
type Result struct {
	ID          string    `json:"id"`
	RunID       string    `json:"runId"`
	Position    int       `json:"position"`
	Reference   string    `json:"reference"`
	Status      string    `json:"status"`
	Error       string    `json:"error"`
	GrandTotal  Value     `json:"-"`
	Discount    Value     `json:"-"`
	TermLength  Value     `json:"-"`
	TrialPeriod Value     `json:"-"`
	AutoRenew   bool      `json:"autoRenew"`
	Basic       bool      `json:"basic"`
	TextHash    string    `json:"textHash"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewResult flattens a row outcome for storage.
func NewResult(runID string, r *RowResult) *Result {
	res := &Result{
		RunID:     runID,
		Position:  r.Position,
		Reference: r.Reference,
		Status:    r.Status(),
		Error:     r.Message(),
		TextHash:  r.TextHash,
	}
	if p := r.Proposal; p != nil && r.Err == nil {
		res.GrandTotal = p.GrandTotal
		res.Discount = p.Discount
		res.TermLength = p.TermLength
		res.TrialPeriod = p.TrialPeriod
		res.AutoRenew = p.AutoRenew
		res.Basic = p.Basic
	}
	return res
}

// Cells returns the stored cells matching ResultColumns.
func (r *Result) Cells() []string {
	cells := make([]string, len(ResultColumns))
	if r.Status == StatusOK {
		cells[0] = r.GrandTotal.String()
		cells[1] = r.Discount.String()
		cells[2] = r.TermLength.String()
		cells[3] = strconv.FormatBool(r.AutoRenew)
		cells[4] = strconv.FormatBool(r.Basic)
		cells[5] = r.TrialPeriod.String()
	}
	cells[6] = r.Status
	cells[7] = r.Error
	return cells
}

// ResultService persists run history.
type ResultService interface {
	// CreateRun creates a new run and assigns its ID and start time.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun records the totals of a run.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, id string, total, failed int) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// CreateResult stores one row outcome of a run.
	CreateResult(ctx context.Context, result *Result) error

	// FindResults retrieves stored results matching the filter,
	// ordered by position.
	FindResults(ctx context.Context, filter ResultFilter) ([]*Result, error)
}

// ResultFilter represents a filter for FindResults.
type ResultFilter struct {
	RunID  *string `json:"runId"`
	Status *string `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
