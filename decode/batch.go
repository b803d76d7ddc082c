package decode

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DecodeAll decodes every value concurrently and returns the results in input
// order. The first failure cancels the remaining work and is returned with the
// index of the offending value.
func (d *Decoder) DecodeAll(ctx context.Context, values []any) ([]any, error) {
	out := make([]any, len(values))
	if len(values) == 0 {
		return out, nil
	}

	limit := d.limit
	if limit < 1 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, v := range values {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			dv, err := d.Decode(v)
			if err != nil {
				return fmt.Errorf("DecodeAll[%d]: %w", i, err)
			}
			out[i] = dv
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
