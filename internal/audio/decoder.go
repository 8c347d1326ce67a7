package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	// SampleRate is the rate of every payload produced by the synthesis service.
	SampleRate = 24000

	// Channels is the channel count of synthesized payloads.
	Channels = 1

	bytesPerSample = 2
)

// ErrCorruptPayload is returned when an encoded payload is not valid base64.
var ErrCorruptPayload = errors.New("corrupt audio payload")

// Buffer holds de-interleaved PCM audio normalized to [-1, 1).
// Every channel has the same number of frames.
type Buffer struct {
	SampleRate int
	Channels   [][]float32
}

// Frames returns the number of samples per channel.
func (b *Buffer) Frames() int {
	if b == nil || len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns how long the buffer takes to play.
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// Decode converts raw little-endian signed 16-bit PCM into a Buffer.
//
// Samples are interleaved by channel. A trailing odd byte and a trailing
// partial frame are dropped.
func Decode(raw []byte, sampleRate, channels int) (*Buffer, error) {
	if sampleRate < 1 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if channels < 1 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}

	sampleCount := len(raw) / bytesPerSample
	frameCount := sampleCount / channels

	buf := &Buffer{
		SampleRate: sampleRate,
		Channels:   make([][]float32, channels),
	}
	for ch := range buf.Channels {
		buf.Channels[ch] = make([]float32, frameCount)
	}

	for i := 0; i < frameCount; i++ {
		for ch := 0; ch < channels; ch++ {
			off := (i*channels + ch) * bytesPerSample
			sample := int16(binary.LittleEndian.Uint16(raw[off:]))
			buf.Channels[ch][i] = float32(sample) / 32768.0
		}
	}

	return buf, nil
}

// DecodePayload base64-decodes an encoded payload and decodes the PCM inside.
func DecodePayload(encoded string, sampleRate, channels int) (*Buffer, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	return Decode(raw, sampleRate, channels)
}

// EncodePayload is the inverse of the base64 step of DecodePayload.
func EncodePayload(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// Convert returns a buffer at the given rate and channel count. Channels are
// duplicated or averaged down; the rate is changed by linear interpolation.
func (b *Buffer) Convert(sampleRate, channels int) *Buffer {
	out := b.mix(channels)
	if out.SampleRate == sampleRate || sampleRate <= 0 {
		return out
	}

	ratio := float64(out.SampleRate) / float64(sampleRate)
	frames := int(float64(out.Frames()) / ratio)
	resampled := &Buffer{SampleRate: sampleRate, Channels: make([][]float32, len(out.Channels))}

	for ch, src := range out.Channels {
		dst := make([]float32, frames)
		for i := range dst {
			pos := float64(i) * ratio
			j := int(pos)
			if j+1 >= len(src) {
				dst[i] = src[len(src)-1]
				continue
			}
			frac := float32(pos - float64(j))
			dst[i] = src[j]*(1-frac) + src[j+1]*frac
		}
		resampled.Channels[ch] = dst
	}

	return resampled
}

func (b *Buffer) mix(channels int) *Buffer {
	if channels <= 0 || channels == len(b.Channels) || len(b.Channels) == 0 {
		return b
	}

	frames := b.Frames()
	out := &Buffer{SampleRate: b.SampleRate, Channels: make([][]float32, channels)}

	if len(b.Channels) == 1 {
		for ch := range out.Channels {
			out.Channels[ch] = b.Channels[0]
		}
		return out
	}

	// Downmix to mono, then spread.
	mono := make([]float32, frames)
	for _, src := range b.Channels {
		for i, s := range src {
			mono[i] += s
		}
	}
	n := float32(len(b.Channels))
	for i := range mono {
		mono[i] /= n
	}
	for ch := range out.Channels {
		out.Channels[ch] = mono
	}
	return out
}

// Interleave encodes the buffer as interleaved 32-bit float little-endian
// frames, the layout the output device consumes.
func (b *Buffer) Interleave() []byte {
	frames := b.Frames()
	channels := len(b.Channels)
	out := make([]byte, frames*channels*4)

	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			off := (i*channels + ch) * 4
			binary.LittleEndian.PutUint32(out[off:], math.Float32bits(b.Channels[ch][i]))
		}
	}
	return out
}
