package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordQueue_BasicOperations(t *testing.T) {
	q := New()
	defer q.Close()

	assert.Zero(t, q.Size())

	_, err := q.Peek()
	assert.ErrorIs(t, err, ErrQueueEmpty)

	require.NoError(t, q.Enqueue("Splash", false))
	assert.Equal(t, 1, q.Size())

	peeked, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, "Splash", peeked)

	word, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Splash", word)
	assert.Zero(t, q.Size())
}

func TestWordQueue_PriorityHandling(t *testing.T) {
	q := New()
	defer q.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(fmt.Sprintf("regular-%d", i), false))
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(fmt.Sprintf("priority-%d", i), true))
	}

	var got []string
	for i := 0; i < 8; i++ {
		w, err := q.Dequeue(context.Background())
		require.NoError(t, err)
		got = append(got, w)
	}

	assert.Equal(t, []string{
		"priority-0", "priority-1", "priority-2",
		"regular-0", "regular-1", "regular-2", "regular-3", "regular-4",
	}, got)
}

func TestWordQueue_SkipsDuplicatesAndBlanks(t *testing.T) {
	q := New()
	defer q.Close()

	require.NoError(t, q.EnqueueBatch([]string{"Boom", " boom ", "", "  ", "Pop"}, false))
	require.NoError(t, q.Enqueue("BOOM", true))

	assert.Equal(t, 2, q.Size())
	stats := q.GetStats()
	assert.EqualValues(t, 2, stats.TotalEnqueued)
	assert.EqualValues(t, 2, stats.TotalDuplicates)

	// Once dequeued, a word may be queued again.
	w, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Boom", w)
	require.NoError(t, q.Enqueue("boom", true))
	assert.Equal(t, 2, q.Size())
}

func TestWordQueue_DequeueBlocksUntilEnqueue(t *testing.T) {
	q := New()
	defer q.Close()

	got := make(chan string, 1)
	go func() {
		w, err := q.Dequeue(context.Background())
		if err == nil {
			got <- w
		}
	}()

	select {
	case <-got:
		t.Fatal("Dequeue should block on an empty queue")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, q.Enqueue("Whoosh", false))

	select {
	case w := <-got:
		assert.Equal(t, "Whoosh", w)
	case <-time.After(time.Second):
		t.Fatal("Dequeue did not wake up")
	}
}

func TestWordQueue_DequeueHonoursContext(t *testing.T) {
	q := New()
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWordQueue_CloseDrains(t *testing.T) {
	q := New()
	require.NoError(t, q.EnqueueBatch([]string{"a", "b"}, false))
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())

	assert.ErrorIs(t, q.Enqueue("c", false), ErrQueueClosed)

	for _, want := range []string{"a", "b"} {
		w, err := q.Dequeue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, w)
	}

	_, err := q.Dequeue(context.Background())
	assert.ErrorIs(t, err, ErrQueueClosed)
	_, err = q.Peek()
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestWordQueue_CloseWakesConsumers(t *testing.T) {
	q := New()

	var wg sync.WaitGroup
	errs := make(chan error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := q.Dequeue(context.Background())
			errs <- err
		}()
	}

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, q.Close())
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.ErrorIs(t, err, ErrQueueClosed)
	}
}

func TestWordQueue_ConcurrentConsumers(t *testing.T) {
	q := New()

	const n = 100
	for i := 0; i < n; i++ {
		require.NoError(t, q.Enqueue(fmt.Sprintf("w%d", i), i%3 == 0))
	}
	require.NoError(t, q.Close())

	var (
		mu   sync.Mutex
		seen = map[string]int{}
		wg   sync.WaitGroup
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				w, err := q.Dequeue(context.Background())
				if err != nil {
					return
				}
				mu.Lock()
				seen[w]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	for w, c := range seen {
		assert.Equal(t, 1, c, w)
	}

	stats := q.GetStats()
	assert.EqualValues(t, n, stats.TotalDequeued)
	assert.Equal(t, n, stats.PeakSize)
	assert.Zero(t, stats.CurrentSize)
}

func TestWordQueue_Clear(t *testing.T) {
	q := New()
	defer q.Close()

	require.NoError(t, q.EnqueueBatch([]string{"a", "b"}, true))
	require.NoError(t, q.Enqueue("c", false))
	q.Clear()

	assert.Zero(t, q.Size())
	require.NoError(t, q.Enqueue("a", false))
	assert.Equal(t, 1, q.Size())
}
