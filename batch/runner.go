// Package batch drives the interpretation of every row of an input table:
// resolve the row's document reference, download it, convert it to text and
// interpret the proposal fields. A failing row is recorded and never stops
// the rows after it.
package batch

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	webscraper "github.com/dmtanner/authenticated-webscraper"
	"golang.org/x/sync/errgroup"
)

// DefaultRowTimeout bounds the fetch and conversion of a single row.
const DefaultRowTimeout = 30 * time.Second

// Progress reports the outcome of one row.
type Progress struct {
	Position  int
	Reference string
	URL       string
	Completed int
	Total     int
	Err       error
}

// ProgressFunc is called once per row as rows finish. Calls are serialized.
type ProgressFunc func(Progress)

// Runner processes rows through injected collaborators.
type Runner struct {
	Fetcher   webscraper.Fetcher
	Converter webscraper.Converter

	// Limiter, when set, is waited on per document host before each fetch.
	Limiter webscraper.DomainLimiter

	// Prefix and Suffix rewrite references into download URLs.
	// See webscraper.ResolveReference.
	Prefix string
	Suffix string

	// Timeout bounds each row. Defaults to DefaultRowTimeout;
	// negative disables the bound.
	Timeout time.Duration

	// Concurrency is the number of rows processed at once.
	// Zero or one processes rows strictly in order.
	Concurrency int
}

// Run processes refs, one per input row, and returns one result per ref in
// the same order. Canceling ctx fails the rows that have not finished but
// still returns a result for every row.
func (r *Runner) Run(ctx context.Context, refs []string, progress ProgressFunc) []*webscraper.RowResult {
	results := make([]*webscraper.RowResult, len(refs))

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	var mu sync.Mutex
	var completed int
	total := len(refs)

	// A plain group: one row's failure must not cancel its siblings.
	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, ref := range refs {
		g.Go(func() error {
			res := r.processRow(ctx, i, ref)
			results[i] = res

			mu.Lock()
			defer mu.Unlock()
			completed++
			if progress != nil {
				progress(Progress{
					Position:  i,
					Reference: ref,
					URL:       res.URL,
					Completed: completed,
					Total:     total,
					Err:       res.Err,
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *Runner) processRow(ctx context.Context, pos int, ref string) (res *webscraper.RowResult) {
	res = &webscraper.RowResult{Position: pos, Reference: ref}

	defer func() {
		if p := recover(); p != nil {
			res.Proposal = nil
			res.Err = webscraper.Errorf(webscraper.EINTERNAL, "row %d: %v", pos+1, p)
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	u, err := webscraper.ResolveReference(ref, r.Prefix, r.Suffix)
	if err != nil {
		res.Err = err
		return res
	}
	res.URL = u

	timeout := r.Timeout
	if timeout == 0 {
		timeout = DefaultRowTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx, hostOf(u)); err != nil {
			res.Err = fmt.Errorf("rate limit: %w", err)
			return res
		}
	}

	d, err := r.Fetcher.Fetch(ctx, u)
	if err != nil {
		res.Err = err
		return res
	}

	text, err := r.Converter.Convert(d)
	if err != nil {
		res.Err = err
		return res
	}

	res.TextHash = computeHash(text)
	res.Proposal, res.Issues = webscraper.InterpretProposal(text)
	return res
}

// Failed counts the failed results.
func Failed(results []*webscraper.RowResult) int {
	var n int
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}

// computeHash computes a hash of the content using xxhash.
func computeHash(content string) string {
	h := xxhash.Sum64String(content)
	return fmt.Sprintf("%x", h)
}
