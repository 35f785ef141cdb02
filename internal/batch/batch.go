// Package batch encodes many begin-extension records concurrently. Every
// worker owns one scratch buffer and reuses it for each record it takes.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danmuck/tcpspec/internal/logging"
	"github.com/danmuck/tcpspec/internal/observability"
	"github.com/danmuck/tcpspec/internal/protocol/beginex"
	"github.com/danmuck/tcpspec/internal/protocol/scratch"
)

// EncodeAll encodes configs with up to workers goroutines; workers <= 0 means
// one per CPU. Results are in input order. The first failure cancels the
// remaining work and is returned as "record <i>: <err>".
func EncodeAll(ctx context.Context, configs []beginex.Config, workers int) ([][]byte, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(configs) {
		workers = len(configs)
	}
	out := make([][]byte, len(configs))
	if len(configs) == 0 {
		return out, nil
	}

	logger := logging.Component("batch")
	start := time.Now()

	jobs := make(chan int)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range configs {
			if err := gctx.Err(); err != nil {
				return err
			}
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			s := scratch.New(scratch.DefaultSize)
			for i := range jobs {
				rec, err := configs[i].Encode(s)
				observability.RecordEncode(configs[i].Shape, len(rec), err)
				if err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				out[i] = rec
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn().Err(err).Int("records", len(configs)).Msg("batch encode failed")
		return nil, err
	}

	elapsed := time.Since(start)
	observability.RecordBatch(elapsed)
	logger.Debug().
		Int("records", len(configs)).
		Int("workers", workers).
		Dur("elapsed", elapsed).
		Msg("batch encoded")
	return out, nil
}
