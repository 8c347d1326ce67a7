// Package narrate speaks words aloud when no generated sound effect is
// available. Narrators shell out to local speech engines.
package narrate

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/clatter/internal/audio"
)

// ErrUnavailable is returned by narrators whose engine is not installed.
var ErrUnavailable = errors.New("speech engine not available")

// Narrator speaks text aloud, returning once it has been heard.
type Narrator interface {
	Name() string
	Speak(ctx context.Context, text string) error
}

// Config selects and configures the narrators in a chain.
type Config struct {
	PiperBinary     string
	PiperModel      string
	PiperSampleRate int

	GTTS         bool
	GTTSLanguage string

	// Command is a platform speech command; empty picks the first one found.
	Command string
}

// Build assembles the narrators that are usable on this machine, best first:
// piper, then gTTS, then a platform speech command.
func Build(cfg Config, out audio.Output, logger *log.Logger) *Chain {
	return build(cfg, out, logger, exec.LookPath, execRun)
}

func build(cfg Config, out audio.Output, logger *log.Logger, lookPath LookPathFunc, run Runner) *Chain {
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("narrate")

	var narrators []Narrator

	if cfg.PiperModel != "" {
		p, err := NewPiperNarrator(PiperConfig{
			Binary:     cfg.PiperBinary,
			ModelPath:  cfg.PiperModel,
			SampleRate: cfg.PiperSampleRate,
		}, out)
		switch {
		case err != nil:
			logger.Warn("piper disabled", "err", err)
		case !p.available(lookPath):
			logger.Debug("piper not found in PATH", "binary", p.binary)
		default:
			p.run = run
			narrators = append(narrators, p)
		}
	}

	if cfg.GTTS {
		g := NewGTTSNarrator(GTTSConfig{Language: cfg.GTTSLanguage}, out)
		if g.available(lookPath) {
			g.run = run
			narrators = append(narrators, g)
		} else {
			logger.Debug("gtts-cli or ffmpeg not found in PATH")
		}
	}

	if c, err := DetectCommand(cfg.Command, lookPath); err == nil {
		c.run = run
		narrators = append(narrators, c)
	} else {
		logger.Debug("no speech command found", "err", err)
	}

	names := make([]string, len(narrators))
	for i, n := range narrators {
		names[i] = n.Name()
	}
	logger.Debug("fallback narrators", "chain", strings.Join(names, ","))

	return NewChain(logger, narrators...)
}

// Chain tries narrators in order until one succeeds.
type Chain struct {
	narrators []Narrator
	logger    *log.Logger
}

// NewChain creates a chain over narrators.
func NewChain(logger *log.Logger, narrators ...Narrator) *Chain {
	if logger == nil {
		logger = log.Default()
	}
	return &Chain{narrators: narrators, logger: logger}
}

// Name lists the narrators in the chain.
func (c *Chain) Name() string {
	names := make([]string, len(c.narrators))
	for i, n := range c.narrators {
		names[i] = n.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// Len returns the number of narrators in the chain.
func (c *Chain) Len() int {
	return len(c.narrators)
}

// Speak implements Narrator.
func (c *Chain) Speak(ctx context.Context, text string) error {
	if len(c.narrators) == 0 {
		return ErrUnavailable
	}

	var errs []error
	for _, n := range c.narrators {
		err := n.Speak(ctx, text)
		if err == nil {
			return nil
		}
		c.logger.Debug("narrator failed", "narrator", n.Name(), "err", err)
		errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}
	return errors.Join(errs...)
}
