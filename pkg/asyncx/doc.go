// Package asyncx holds the small set of concurrency helpers the extraction
// service relies on: a bounded, order-preserving worker pool used to run
// independent documents side by side, and retry helpers with exponential
// backoff used around storage uploads.
//
// # Worker pool
//
// [Pool] runs fn over items with at most workers goroutines and returns the
// results in input order:
//
//	aggs, err := asyncx.Pool(ctx, 4, files, func(ctx context.Context, f string) (extract.Aggregate, error) {
//	    return driver.Handle(ctx, extract.Request{Source: f, Mode: extract.ModeAll}), nil
//	})
//
// # Retry
//
// [RetryWithBackoff] retries fn, doubling the delay after each failure and
// stopping early when the context is cancelled:
//
//	_, err := asyncx.RetryWithBackoff(ctx, 3, 200*time.Millisecond, func(ctx context.Context) (struct{}, error) {
//	    return struct{}{}, fs.WriteFile(ctx, key, data)
//	})
package asyncx
