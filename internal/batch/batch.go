// Package batch parses many jdbc urls concurrently, one failing url never aborts the others.
package batch

import (
	"context"

	"github.com/zeebo/errs"
	"golang.org/x/sync/errgroup"

	"jdbcurl/pkg/jdbc"
)

// Error is an error class that indicates batch failure.
var Error = errs.Class("batch")

// Config contains configuration for batch parsing.
type Config struct {
	// Workers is a max number of urls parsed at the same time.
	Workers int `env:"WORKERS" envDefault:"4"`
}

// Result is an outcome of parsing single url.
type Result struct {
	URL        string
	Descriptor *jdbc.Descriptor
	Err        error
}

// OK reports whether url was parsed.
func (result Result) OK() bool {
	return result.Err == nil && result.Descriptor != nil
}

// Parse parses urls and returns results in input order.
// Error is returned only when ctx is cancelled before all urls are processed,
// unprocessed urls then carry the cancellation error.
func Parse(ctx context.Context, urls []string, config Config) ([]Result, error) {
	results := make([]Result, len(urls))
	for i, url := range urls {
		results[i] = Result{URL: url, Err: Error.New("not processed")}
	}

	workers := config.Workers
	if workers < 1 {
		workers = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i, url := range urls {
		if groupCtx.Err() != nil {
			break
		}

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			results[i] = parse(url)
			return nil
		})
	}

	err := group.Wait()
	if err == nil {
		err = ctx.Err()
	}

	var unprocessed int
	for i := range results {
		if Error.Has(results[i].Err) {
			results[i].Err = Error.Wrap(err)
			unprocessed++
		}
	}

	if unprocessed > 0 {
		return results, Error.New("%d of %d urls not processed: %v", unprocessed, len(urls), err)
	}

	return results, nil
}

// Failed returns number of results with error.
func Failed(results []Result) int {
	var failed int
	for _, result := range results {
		if !result.OK() {
			failed++
		}
	}

	return failed
}

func parse(url string) Result {
	descriptor, err := jdbc.Parse(url)
	if err != nil {
		return Result{URL: url, Err: err}
	}

	return Result{URL: url, Descriptor: &descriptor}
}
