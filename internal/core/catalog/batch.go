package catalog

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/appscope/appscope/internal/core"
)

// Chunk splits ids into groups of at most size, dropping blank ids.
func Chunk(ids []string, size int) [][]string {
	if size <= 0 {
		size = MaxLookupBatchSize
	}

	var (
		chunks  [][]string
		current []string
	)
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		current = append(current, id)
		if len(current) == size {
			chunks = append(chunks, current)
			current = nil
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

// LookupAll runs Lookup over MaxLookupBatchSize chunks with at most workers
// in flight. Every chunk goes through the client's limiter, so the ceiling
// holds for the whole fan-out. Results keep the chunk order; the first error
// cancels the remaining chunks.
func (c *Client) LookupAll(ctx context.Context, ids []string, opts LookupOptions, workers int) ([]core.App, error) {
	chunks := Chunk(ids, MaxLookupBatchSize)
	if len(chunks) == 0 {
		return nil, &ArgumentError{Field: "ids", Message: "at least one id is required"}
	}
	if len(chunks) == 1 {
		return c.Lookup(ctx, chunks[0], opts)
	}
	if workers <= 0 {
		workers = 1
	}

	results := make([][]core.App, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, chunk := range chunks {
		g.Go(func() error {
			apps, err := c.Lookup(gctx, chunk, opts)
			if err != nil {
				return err
			}
			results[i] = apps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, apps := range results {
		total += len(apps)
	}
	merged := make([]core.App, 0, total)
	for _, apps := range results {
		merged = append(merged, apps...)
	}
	return merged, nil
}
