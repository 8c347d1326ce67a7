package sound

import (
	"context"
	"errors"
	"sync"

	"github.com/dgnsrekt/clatter/internal/queue"
	"golang.org/x/sync/errgroup"
)

// Prefetch warms the cache for every word in q using workers goroutines,
// calling report after each word. It returns when q is closed and drained or
// ctx ends. Words that fail are reported and skipped.
func (p *Player) Prefetch(ctx context.Context, q *queue.WordQueue, workers int, report func(Report)) error {
	if workers < 1 {
		workers = 1
	}

	var (
		eg errgroup.Group
		mu sync.Mutex
	)
	for range workers {
		eg.Go(func() error {
			for {
				word, err := q.Dequeue(ctx)
				if errors.Is(err, queue.ErrQueueClosed) {
					return nil
				}
				if err != nil {
					return err //nolint:wrapcheck
				}

				r := p.Warm(ctx, word)
				if report != nil {
					mu.Lock()
					report(r)
					mu.Unlock()
				}
			}
		})
	}
	return eg.Wait() //nolint:wrapcheck
}
