package queue

import (
	"container/heap"
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	// ErrQueueClosed is returned once a closed queue has been drained.
	ErrQueueClosed = errors.New("queue is closed")

	// ErrQueueEmpty is returned by Peek when nothing is waiting.
	ErrQueueEmpty = errors.New("queue is empty")
)

// WordQueue orders words waiting to be fetched. Priority words (asked for by
// name) come out before regular ones (the rest of the catalog); each group is
// first in, first out. A word already waiting is not added twice.
type WordQueue struct {
	priorityQueue *priorityQueue
	regularQueue  []string
	queued        map[string]bool
	seq           int

	mu       sync.Mutex
	notEmpty *sync.Cond

	closed bool
	stats  Stats
}

// Stats tracks queue activity.
type Stats struct {
	TotalEnqueued     int64
	TotalDequeued     int64
	TotalDuplicates   int64
	HighPriorityCount int64
	CurrentSize       int
	PeakSize          int
	LastEnqueue       time.Time
	LastDequeue       time.Time
}

// New creates an empty queue.
func New() *WordQueue {
	q := &WordQueue{
		priorityQueue: &priorityQueue{},
		queued:        make(map[string]bool),
	}
	heap.Init(q.priorityQueue)
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Enqueue adds a word. Blank words are ignored.
func (q *WordQueue) Enqueue(word string, priority bool) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.enqueueLocked(word, priority)
}

// EnqueueBatch adds several words under one lock.
func (q *WordQueue) EnqueueBatch(words []string, priority bool) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, w := range words {
		if err := q.enqueueLocked(w, priority); err != nil {
			return err
		}
	}
	return nil
}

func (q *WordQueue) enqueueLocked(word string, priority bool) error {
	if q.closed {
		return ErrQueueClosed
	}

	key := strings.ToLower(strings.TrimSpace(word))
	if key == "" {
		return nil
	}
	if q.queued[key] {
		q.stats.TotalDuplicates++
		return nil
	}
	q.queued[key] = true

	if priority {
		heap.Push(q.priorityQueue, &queueItem{word: word, seq: q.seq})
		q.seq++
		q.stats.HighPriorityCount++
	} else {
		q.regularQueue = append(q.regularQueue, word)
	}

	q.stats.TotalEnqueued++
	q.stats.LastEnqueue = time.Now()

	currentSize := q.sizeLocked()
	if currentSize > q.stats.PeakSize {
		q.stats.PeakSize = currentSize
	}
	q.stats.CurrentSize = currentSize

	q.notEmpty.Signal()
	return nil
}

// Dequeue removes and returns the next word, blocking while the queue is
// empty. After Close, the words still waiting are handed out before
// ErrQueueClosed is returned.
func (q *WordQueue) Dequeue(ctx context.Context) (string, error) {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		q.notEmpty.Broadcast()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for q.sizeLocked() == 0 {
		if q.closed {
			return "", ErrQueueClosed
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		q.notEmpty.Wait()
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var word string
	if q.priorityQueue.Len() > 0 {
		word = heap.Pop(q.priorityQueue).(*queueItem).word
	} else {
		word = q.regularQueue[0]
		q.regularQueue = q.regularQueue[1:]
	}
	delete(q.queued, strings.ToLower(strings.TrimSpace(word)))

	q.stats.TotalDequeued++
	q.stats.LastDequeue = time.Now()
	q.stats.CurrentSize = q.sizeLocked()

	return word, nil
}

// Peek returns the next word without removing it.
func (q *WordQueue) Peek() (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.priorityQueue.Len() > 0 {
		return (*q.priorityQueue)[0].word, nil
	}
	if len(q.regularQueue) > 0 {
		return q.regularQueue[0], nil
	}
	if q.closed {
		return "", ErrQueueClosed
	}
	return "", ErrQueueEmpty
}

// Size returns the number of words waiting.
func (q *WordQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.sizeLocked()
}

func (q *WordQueue) sizeLocked() int {
	return q.priorityQueue.Len() + len(q.regularQueue)
}

// Clear drops every waiting word.
func (q *WordQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.priorityQueue = &priorityQueue{}
	heap.Init(q.priorityQueue)
	q.regularQueue = nil
	q.queued = make(map[string]bool)
	q.stats.CurrentSize = 0
}

// GetStats returns current queue statistics.
func (q *WordQueue) GetStats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	stats := q.stats
	stats.CurrentSize = q.sizeLocked()
	return stats
}

// Close stops new words from being added and wakes blocked consumers.
func (q *WordQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	q.notEmpty.Broadcast()
	return nil
}

// Priority words keep their arrival order.
type queueItem struct {
	word  string
	seq   int
	index int
}

type priorityQueue []*queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	n := len(*pq)
	item := x.(*queueItem)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[0 : n-1]
	return item
}
