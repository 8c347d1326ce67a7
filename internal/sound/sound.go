// Package sound resolves a word to audio and plays it: from the local cache
// when possible, otherwise from the synthesis service, and as a last resort by
// having a narrator say the word.
package sound

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/clatter/internal/audio"
	"github.com/dgnsrekt/clatter/internal/cache"
	"github.com/dgnsrekt/clatter/internal/narrate"
	"github.com/dgnsrekt/clatter/internal/synth"
)

// ErrNoSynthesizer is reported by Warm when no synthesis service is
// configured.
var ErrNoSynthesizer = errors.New("no sound synthesis service configured")

// Cache is the best-effort store of synthesized payloads.
type Cache interface {
	Get(ctx context.Context, word string) (string, bool)
	Put(ctx context.Context, word, payload string)
}

// Tier names where the audio that was heard came from.
type Tier int

const (
	TierNone Tier = iota
	TierCache
	TierRemote
	TierFallback
)

func (t Tier) String() string {
	switch t {
	case TierCache:
		return "cache"
	case TierRemote:
		return "remote"
	case TierFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Report describes one PlaySound call.
type Report struct {
	Word string // As requested
	Key  string // Normalized

	Tier     Tier
	CacheHit bool

	Attempts int             // Calls made to the synthesis service
	Delays   []time.Duration // Backoff waits between them
	Remote   synth.ResultKind

	// Err is the last problem encountered. It is always set when the tier
	// is TierNone for a non-empty word.
	Err     error
	Elapsed time.Duration
}

// Options configures a Player.
type Options struct {
	Cache       Cache
	Synthesizer synth.Synthesizer // nil skips straight to the narrator
	Output      audio.Output
	Narrator    narrate.Narrator

	MaxRetries int
	Sleep      synth.SleepFunc
	Logger     *log.Logger
}

// Player owns the audio output handle and runs the resolution sequence.
// Calls are independent; concurrent calls for the same word are not merged.
type Player struct {
	cache    Cache
	synth    synth.Synthesizer
	out      audio.Output
	narrator narrate.Narrator

	maxRetries int
	sleep      synth.SleepFunc
	logger     *log.Logger
}

// New creates a player. The output is created by the caller once and reused
// for every call.
func New(opts Options) *Player {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = synth.Sleep
	}
	narrator := opts.Narrator
	if narrator == nil {
		narrator = narrate.NewChain(logger)
	}

	return &Player{
		cache:      opts.Cache,
		synth:      opts.Synthesizer,
		out:        opts.Output,
		narrator:   narrator,
		maxRetries: opts.MaxRetries,
		sleep:      sleep,
		logger:     logger.WithPrefix("sound"),
	}
}

// PlaySound plays word with the configured retry budget.
func (p *Player) PlaySound(ctx context.Context, word string) Report {
	return p.PlaySoundWithRetries(ctx, word, p.maxRetries)
}

// PlaySoundWithRetries plays word, retrying rate-limited synthesis up to
// maxRetries times. It never fails; the report says what was heard.
func (p *Player) PlaySoundWithRetries(ctx context.Context, word string, maxRetries int) (report Report) {
	start := time.Now()
	report = Report{Word: word, Key: cache.Key(word)}
	defer func() {
		report.Elapsed = time.Since(start)
		p.logger.Debug("play finished", "word", report.Key, "tier", report.Tier, "attempts", report.Attempts, "took", report.Elapsed.Round(time.Millisecond))
	}()

	if report.Key == "" {
		p.logger.Warn("nothing to play for empty word")
		return report
	}

	p.ensureOutput()

	if p.playCached(ctx, &report) {
		return report
	}

	if p.synth != nil {
		retrier := &synth.Retrier{MaxRetries: maxRetries, Sleep: p.sleep, Logger: p.logger}
		outcome := retrier.Run(ctx, p.synth, word)
		report.Attempts = outcome.Attempts
		report.Delays = outcome.Delays
		report.Remote = outcome.Final.Kind

		if payload, ok := outcome.Payload(); ok {
			if p.cache != nil {
				p.cache.Put(ctx, report.Key, payload)
			}
			err := p.playPayload(ctx, payload)
			if err == nil {
				report.Tier = TierRemote
				return report
			}
			p.logger.Warn("could not play synthesized sound", "word", report.Key, "err", err)
			report.Err = err
		} else if outcome.Final.Err != nil {
			p.logger.Warn("sound synthesis failed", "word", report.Key, "attempts", outcome.Attempts, "err", outcome.Final.Err)
			report.Err = outcome.Final.Err
		} else {
			p.logger.Info("synthesis returned no audio", "word", report.Key)
		}
	}

	p.fallback(ctx, &report)
	return report
}

// Warm fetches word into the cache without playing anything. A cached word
// reports TierCache; a fresh one TierRemote. Nothing is narrated on failure.
func (p *Player) Warm(ctx context.Context, word string) (report Report) {
	start := time.Now()
	report = Report{Word: word, Key: cache.Key(word)}
	defer func() { report.Elapsed = time.Since(start) }()

	if report.Key == "" {
		return report
	}

	if p.cache != nil {
		if payload, ok := p.cache.Get(ctx, report.Key); ok {
			if _, err := audio.DecodePayload(payload, audio.SampleRate, audio.Channels); err == nil {
				report.CacheHit = true
				report.Tier = TierCache
				return report
			}
		}
	}

	if p.synth == nil {
		report.Err = ErrNoSynthesizer
		return report
	}

	retrier := &synth.Retrier{MaxRetries: p.maxRetries, Sleep: p.sleep, Logger: p.logger}
	outcome := retrier.Run(ctx, p.synth, word)
	report.Attempts = outcome.Attempts
	report.Delays = outcome.Delays
	report.Remote = outcome.Final.Kind

	payload, ok := outcome.Payload()
	switch {
	case ok:
		if p.cache != nil {
			p.cache.Put(ctx, report.Key, payload)
		}
		report.Tier = TierRemote
	case outcome.Final.Err != nil:
		report.Err = outcome.Final.Err
	default:
		report.Err = errors.New("synthesis returned no audio")
	}
	return report
}

// ensureOutput resumes a suspended output. Failures are logged; playback
// will fail later and route to the narrator.
func (p *Player) ensureOutput() {
	if p.out == nil {
		return
	}
	if p.out.State() == audio.StateSuspended {
		if err := p.out.Resume(); err != nil {
			p.logger.Warn("could not resume audio output", "err", err)
		}
	}
}

func (p *Player) playCached(ctx context.Context, report *Report) bool {
	if p.cache == nil {
		return false
	}

	payload, ok := p.cache.Get(ctx, report.Key)
	if !ok {
		return false
	}
	report.CacheHit = true

	buf, err := audio.DecodePayload(payload, audio.SampleRate, audio.Channels)
	if err != nil {
		p.logger.Warn("cached sound is unreadable, fetching again", "word", report.Key, "err", err)
		return false
	}

	if err := p.play(ctx, buf); err != nil {
		p.logger.Warn("could not play cached sound", "word", report.Key, "err", err)
		report.Err = err
		p.fallback(ctx, report)
		return true
	}

	report.Tier = TierCache
	return true
}

func (p *Player) playPayload(ctx context.Context, payload string) error {
	buf, err := audio.DecodePayload(payload, audio.SampleRate, audio.Channels)
	if err != nil {
		return err
	}
	return p.play(ctx, buf)
}

func (p *Player) play(ctx context.Context, buf *audio.Buffer) error {
	if p.out == nil {
		return audio.ErrClosed
	}
	return p.out.Play(ctx, buf)
}

func (p *Player) fallback(ctx context.Context, report *Report) {
	report.Tier = TierFallback
	if err := p.narrator.Speak(ctx, report.Word); err != nil {
		p.logger.Error("fallback narration failed", "word", report.Key, "narrator", p.narrator.Name(), "err", err)
		report.Tier = TierNone
		report.Err = err
	}
}
