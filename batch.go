package wordtable

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// ConvertBatch converts paths concurrently, at most MaxConcurrency at a
// time. Each document gets its own Timeout. Failures are handled by the
// ErrorStrategy; results keep input order.
func (c *Converter) ConvertBatch(ctx context.Context, paths []string) *BatchResult {
	start := time.Now()
	results := make([]*Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.opts.MaxConcurrency, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				res := newResult(path)
				res.fail(&ConversionError{Path: path, Op: "convert", Err: err})
				results[i] = res
				return nil
			}

			res, err := c.Convert(gctx, path)
			results[i] = res
			if err == nil {
				return nil
			}
			switch c.opts.ErrorStrategy {
			case FailFast:
				return err
			case LogAndContinue:
				c.log.Warn().Err(err).Str("path", path).Msg("document conversion failed")
			}
			return nil
		})
	}
	err := g.Wait()

	batch := &BatchResult{Total: len(paths), Err: err}
	for _, res := range results {
		if res.Success {
			batch.SuccessCount++
		} else {
			batch.ErrorCount++
			if c.opts.ErrorStrategy == SkipErrors {
				continue
			}
		}
		batch.Results = append(batch.Results, res)
	}
	batch.Duration = time.Since(start)

	c.log.Info().
		Int("total", batch.Total).
		Int("success", batch.SuccessCount).
		Int("errors", batch.ErrorCount).
		Dur("duration", batch.Duration).
		Msg("batch finished")
	return batch
}
