package synth

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultMaxRetries gives four attempts in total.
	DefaultMaxRetries = 3
	// MaxRetriesLimit is the largest retry budget accepted from users.
	MaxRetriesLimit = 10
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Backoff returns the wait before retry number attempt+1: 1s, 2s, 4s...
// The doubling stops at MaxRetriesLimit.
func Backoff(attempt int) time.Duration {
	attempt = min(max(attempt, 0), MaxRetriesLimit)
	return time.Duration(1<<uint(attempt)) * time.Second
}

// Outcome describes a finished retry sequence.
type Outcome struct {
	Final    Result          // Result of the last attempt
	Attempts int             // Calls made to the synthesizer
	Delays   []time.Duration // Waits taken between attempts
}

// Payload returns the synthesized payload, if any.
func (o Outcome) Payload() (string, bool) {
	if o.Final.OK() {
		return o.Final.Payload, true
	}
	return "", false
}

// Retrier retries quota failures with exponential backoff. Empty results and
// any other failure end the sequence at once.
type Retrier struct {
	MaxRetries int
	Sleep      SleepFunc
	Logger     *log.Logger
}

// NewRetrier creates a retrier using the real clock.
func NewRetrier(maxRetries int, logger *log.Logger) *Retrier {
	return &Retrier{MaxRetries: maxRetries, Sleep: Sleep, Logger: logger}
}

// Run calls s.Synthesize(word) until it succeeds or the sequence ends.
func (r *Retrier) Run(ctx context.Context, s Synthesizer, word string) Outcome {
	sleep := r.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	maxRetries := r.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	var out Outcome
	for attempt := 0; ; attempt++ {
		out.Final = s.Synthesize(ctx, word)
		out.Attempts++

		if !out.Final.IsQuota() {
			return out
		}
		if attempt >= maxRetries {
			logger.Warn("quota retries exhausted", "word", word, "attempts", out.Attempts)
			return out
		}

		delay := Backoff(attempt)
		logger.Info("rate limited, retrying", "word", word, "attempt", attempt+1, "wait", delay)
		out.Delays = append(out.Delays, delay)

		if err := sleep(ctx, delay); err != nil {
			out.Final = Failure(err)
			return out
		}
	}
}
