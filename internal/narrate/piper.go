package narrate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgnsrekt/clatter/internal/audio"
)

const (
	piperTimeout      = 10 * time.Second
	defaultPiperRate  = 22050
	maxNarrationBytes = 10 * 1024 * 1024
	maxTextSize       = 500
)

// PiperConfig holds configuration for the Piper narrator.
type PiperConfig struct {
	// Binary is the piper executable, defaults to "piper".
	Binary string

	// Model file path (required)
	ModelPath string

	// Config file path (optional, defaults to model path with .json extension)
	ConfigPath string

	// Speaker id for multi-speaker models (optional)
	Speaker string

	// Sample rate of the model's output (optional, defaults to 22050)
	SampleRate int
}

// PiperNarrator speaks through Piper, an offline neural TTS engine. Piper's
// raw PCM output is decoded and played on the shared audio output.
type PiperNarrator struct {
	binary     string
	modelPath  string
	configPath string
	speaker    string
	sampleRate int

	out audio.Output
	run Runner
}

// NewPiperNarrator validates config and creates the narrator.
func NewPiperNarrator(config PiperConfig, out audio.Output) (*PiperNarrator, error) {
	if config.ModelPath == "" {
		return nil, errors.New("model path is required")
	}
	if _, err := os.Stat(config.ModelPath); err != nil {
		return nil, fmt.Errorf("model file not found: %w", err)
	}
	if out == nil {
		return nil, errors.New("audio output is required")
	}

	if config.Binary == "" {
		config.Binary = "piper"
	}
	if config.ConfigPath == "" {
		config.ConfigPath = strings.TrimSuffix(config.ModelPath, filepath.Ext(config.ModelPath)) + ".json"
	}
	if config.SampleRate == 0 {
		config.SampleRate = defaultPiperRate
	}

	return &PiperNarrator{
		binary:     config.Binary,
		modelPath:  config.ModelPath,
		configPath: config.ConfigPath,
		speaker:    config.Speaker,
		sampleRate: config.SampleRate,
		out:        out,
		run:        execRun,
	}, nil
}

// Name implements Narrator.
func (p *PiperNarrator) Name() string { return "piper" }

func (p *PiperNarrator) available(lookPath LookPathFunc) bool {
	_, err := lookPath(p.binary)
	return err == nil
}

func (p *PiperNarrator) args() []string {
	args := []string{
		"--model", p.modelPath,
		"--output-raw",
	}
	if _, err := os.Stat(p.configPath); err == nil {
		args = append(args, "--config", p.configPath)
	}
	if p.speaker != "" {
		args = append(args, "--speaker", p.speaker)
	}
	return args
}

// Speak implements Narrator.
func (p *PiperNarrator) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("text cannot be empty")
	}
	if len(text) > maxTextSize {
		return fmt.Errorf("text too long: %d characters (max %d)", len(text), maxTextSize)
	}

	runCtx, cancel := context.WithTimeout(ctx, piperTimeout)
	defer cancel()

	raw, err := p.run(runCtx, p.binary, p.args(), strings.NewReader(text))
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return errors.New("piper produced no audio output")
	}
	if len(raw) > maxNarrationBytes {
		return fmt.Errorf("piper output too large: %d bytes (max %d)", len(raw), maxNarrationBytes)
	}

	buf, err := audio.Decode(raw, p.sampleRate, 1)
	if err != nil {
		return fmt.Errorf("decode piper output: %w", err)
	}
	return p.out.Play(ctx, buf)
}
