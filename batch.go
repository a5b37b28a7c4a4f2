package gtrans

import (
	"context"
	"errors"
	"sync"
)

// DefaultBatchConcurrency is the number of in-flight requests TranslateBatch
// uses when concurrency is not positive.
const DefaultBatchConcurrency = 4

// TranslateBatch translates texts concurrently with at most concurrency calls
// in flight. Results are in input order. On failure the first failing item,
// by index, is returned as a *BatchError and the remaining calls are
// cancelled.
func TranslateBatch(ctx context.Context, t Translator, texts []string, src, dest string, concurrency int) ([]*Translated, error) {
	if len(texts) == 0 {
		return []*Translated{}, nil
	}
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*Translated, len(texts))
	errs := make([]error, len(texts))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			defer func() { <-sem }()

			result, err := t.Translate(ctx, text, src, dest)
			if err != nil {
				errs[i] = err
				cancel()
				return
			}
			results[i] = result
		}(i, text)
	}

	wg.Wait()

	// Prefer the error that caused the cancellation over the context errors
	// it produced in the other items.
	var first *BatchError
	for i, err := range errs {
		if err == nil {
			continue
		}
		if first == nil {
			first = &BatchError{Index: i, Cause: err}
		}
		if !errors.Is(err, context.Canceled) {
			return nil, &BatchError{Index: i, Cause: err}
		}
	}
	if first != nil {
		return nil, first
	}

	return results, nil
}
