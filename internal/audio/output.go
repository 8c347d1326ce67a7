package audio

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// State is the lifecycle state of an audio output.
type State int32

const (
	StateRunning State = iota
	StateSuspended
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ErrClosed is returned when playing on a closed output.
var ErrClosed = errors.New("audio output is closed")

// Output is an audio device sounds are played through.
type Output interface {
	// State reports whether the output is running.
	State() State
	// Resume brings a suspended output back to running.
	Resume() error
	// Play blocks until buf has been played or ctx is done.
	Play(ctx context.Context, buf *Buffer) error
	// Close releases the device.
	Close() error
}

// OutputConfig contains configuration for the device output.
type OutputConfig struct {
	SampleRate int           // Device rate; buffers are converted to it
	Channels   int           // 1 = mono, 2 = stereo
	BufferSize time.Duration // Device buffer latency, 0 for the driver default
}

// DefaultOutputConfig matches the format of synthesized payloads.
func DefaultOutputConfig() OutputConfig {
	return OutputConfig{
		SampleRate: SampleRate,
		Channels:   Channels,
		BufferSize: 100 * time.Millisecond,
	}
}

func validateConfig(config OutputConfig) error {
	if config.SampleRate < 8000 || config.SampleRate > 192000 {
		return fmt.Errorf("sample rate must be between 8000 and 192000 Hz, got %d", config.SampleRate)
	}

	if config.Channels != 1 && config.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", config.Channels)
	}

	if config.BufferSize < 0 {
		return errors.New("buffer size must not be negative")
	}

	return nil
}
