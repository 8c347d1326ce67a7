package narrate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgnsrekt/clatter/internal/audio"
	"golang.org/x/time/rate"
)

// GTTSConfig holds configuration for the gTTS narrator.
type GTTSConfig struct {
	// Language code (e.g., "en", "es", "fr") - defaults to "en"
	Language string

	// Slow speech (--slow flag)
	Slow bool

	// Rate limit requests per minute to avoid being blocked (defaults to 50)
	RequestsPerMinute int
}

// GTTSNarrator speaks through gtts-cli (Google Translate TTS) and converts
// its MP3 output to PCM with ffmpeg. It needs network access but no API key.
type GTTSNarrator struct {
	language    string
	slow        bool
	sampleRate  int
	rateLimiter *rate.Limiter

	out audio.Output
	run Runner
}

// NewGTTSNarrator creates a gTTS narrator.
func NewGTTSNarrator(config GTTSConfig, out audio.Output) *GTTSNarrator {
	if config.Language == "" {
		config.Language = "en"
	}
	if config.RequestsPerMinute == 0 {
		config.RequestsPerMinute = 50 // Conservative default
	}

	return &GTTSNarrator{
		language:    config.Language,
		slow:        config.Slow,
		sampleRate:  audio.SampleRate,
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), 1),
		out:         out,
		run:         execRun,
	}
}

// Name implements Narrator.
func (g *GTTSNarrator) Name() string { return "gtts" }

func (g *GTTSNarrator) available(lookPath LookPathFunc) bool {
	for _, bin := range []string{"gtts-cli", "ffmpeg"} {
		if _, err := lookPath(bin); err != nil {
			return false
		}
	}
	return true
}

// Speak implements Narrator.
func (g *GTTSNarrator) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("text cannot be empty")
	}
	if g.out == nil {
		return errors.New("audio output is required")
	}

	if err := g.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	mp3, err := g.synthesizeToMP3(ctx, text)
	if err != nil {
		return fmt.Errorf("MP3 generation failed: %w", err)
	}

	raw, err := g.convertMP3ToPCM(ctx, mp3)
	if err != nil {
		return fmt.Errorf("MP3 to PCM conversion failed: %w", err)
	}

	buf, err := audio.Decode(raw, g.sampleRate, 1)
	if err != nil {
		return err
	}
	return g.out.Play(ctx, buf)
}

func (g *GTTSNarrator) synthesizeToMP3(ctx context.Context, text string) ([]byte, error) {
	args := []string{text, "-l", g.language}
	if g.slow {
		args = append(args, "--slow")
	}
	args = append(args, "-o", "-")

	// Longer timeout for network
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	mp3, err := g.run(ctx, "gtts-cli", args, nil)
	if err != nil {
		return nil, err
	}
	if len(mp3) == 0 {
		return nil, errors.New("gtts-cli produced no MP3 output")
	}
	return mp3, nil
}

func (g *GTTSNarrator) convertMP3ToPCM(ctx context.Context, mp3 []byte) ([]byte, error) {
	args := []string{
		"-loglevel", "error",
		"-i", "pipe:0",
		"-f", "s16le", // signed 16-bit little-endian
		"-ar", strconv.Itoa(g.sampleRate),
		"-ac", "1",
		"pipe:1",
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	raw, err := g.run(ctx, "ffmpeg", args, bytes.NewReader(mp3))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("ffmpeg produced no audio")
	}
	return raw, nil
}
