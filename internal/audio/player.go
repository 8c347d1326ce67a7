//go:build !nocgo

package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

// OtoOutput plays buffers through the system audio device using oto. Only one
// may exist per process; oto refuses a second context.
type OtoOutput struct {
	context *oto.Context

	state atomic.Int32

	// Players currently sounding. Kept referenced until they finish so their
	// data is not collected mid-playback.
	mu      sync.Mutex
	players map[*oto.Player]struct{}

	sampleRate int
	channels   int
}

// NewOtoOutput creates the device context and waits for it to be ready.
func NewOtoOutput(config OutputConfig) (*OtoOutput, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	op := &oto.NewContextOptions{
		SampleRate:   config.SampleRate,
		ChannelCount: config.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   config.BufferSize,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}

	// Wait for context to be ready
	<-readyChan

	out := &OtoOutput{
		context:    ctx,
		players:    make(map[*oto.Player]struct{}),
		sampleRate: config.SampleRate,
		channels:   config.Channels,
	}
	out.state.Store(int32(StateRunning))

	return out, nil
}

// State implements Output.
func (o *OtoOutput) State() State {
	return State(o.state.Load())
}

// Suspend pauses the device. Players keep their position.
func (o *OtoOutput) Suspend() error {
	if o.State() != StateRunning {
		return nil
	}
	if err := o.context.Suspend(); err != nil {
		return fmt.Errorf("suspend audio context: %w", err)
	}
	o.state.Store(int32(StateSuspended))
	return nil
}

// Resume implements Output.
func (o *OtoOutput) Resume() error {
	switch o.State() {
	case StateRunning:
		return nil
	case StateClosed:
		return ErrClosed
	}
	if err := o.context.Resume(); err != nil {
		return fmt.Errorf("resume audio context: %w", err)
	}
	o.state.Store(int32(StateRunning))
	return nil
}

// Play implements Output. Each call gets its own oto player, so overlapping
// calls mix on the device.
func (o *OtoOutput) Play(ctx context.Context, buf *Buffer) error {
	if o.State() == StateClosed {
		return ErrClosed
	}
	if buf.Frames() == 0 {
		return errors.New("audio buffer is empty")
	}
	if err := o.context.Err(); err != nil {
		return fmt.Errorf("audio context failed: %w", err)
	}

	data := buf.Convert(o.sampleRate, o.channels).Interleave()
	player := o.context.NewPlayer(bytes.NewReader(data))

	o.mu.Lock()
	o.players[player] = struct{}{}
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		delete(o.players, player)
		o.mu.Unlock()
		_ = player.Close()
	}()

	player.Play()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return nil
}

// Playing reports how many buffers are sounding right now.
func (o *OtoOutput) Playing() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.players)
}

// Close stops every player. The oto context itself lives until the process
// exits.
func (o *OtoOutput) Close() error {
	if State(o.state.Swap(int32(StateClosed))) == StateClosed {
		return nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	for p := range o.players {
		p.Pause()
	}
	return nil
}
