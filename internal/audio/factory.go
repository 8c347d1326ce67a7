package audio

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// Mode selects which kind of output NewOutput builds.
type Mode int

const (
	// ModeAuto uses the device unless mock audio was requested through
	// CLATTER_MOCK_AUDIO. When the device cannot be opened every Play fails,
	// so callers fall back to something that can speak without it.
	ModeAuto Mode = iota
	ModeDevice
	ModeMock
)

// ErrNoDevice is returned by Play when no audio device could be opened.
var ErrNoDevice = errors.New("no audio device")

// mockRequested reports whether silent output was asked for explicitly.
func mockRequested() bool {
	return os.Getenv("CLATTER_MOCK_AUDIO") == "true"
}

// NewOutput creates the audio output for the process.
func NewOutput(mode Mode, config OutputConfig, logger *log.Logger) (Output, error) {
	if logger == nil {
		logger = log.Default()
	}

	switch mode {
	case ModeMock:
		logger.Debug("Creating mock audio output")
		return NewMockOutput(), nil

	case ModeDevice:
		logger.Debug("Creating device audio output", "rate", config.SampleRate, "channels", config.Channels)
		out, err := NewOtoOutput(config)
		if err != nil {
			return nil, err
		}
		return out, nil
	}

	if mockRequested() {
		logger.Debug("Mock audio selected by environment")
		return NewMockOutput(), nil
	}

	out, err := NewOtoOutput(config)
	if err != nil {
		logger.Warn("Audio device unavailable, words will be narrated", "err", err)
		return &deviceless{cause: err}, nil
	}
	return out, nil
}

// deviceless stands in for a device that failed to open. It never plays.
type deviceless struct {
	cause error
}

func (d *deviceless) State() State { return StateClosed }

func (d *deviceless) Resume() error { return d.err() }

func (d *deviceless) Play(context.Context, *Buffer) error { return d.err() }

func (d *deviceless) Close() error { return nil }

func (d *deviceless) err() error {
	return fmt.Errorf("%w: %w", ErrNoDevice, d.cause)
}
