package audio

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pcm encodes samples as little-endian signed 16-bit.
func pcm(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestDecode_TwoChannels(t *testing.T) {
	raw := pcm(0, 32767, -32768, 16384, -16384, 0, 1, -1)

	buf, err := Decode(raw, 24000, 2)
	require.NoError(t, err)

	assert.Equal(t, 24000, buf.SampleRate)
	require.Len(t, buf.Channels, 2)
	assert.Equal(t, 4, buf.Frames())

	assert.Equal(t, []float32{0, -1, -0.5, 1.0 / 32768}, buf.Channels[0])
	assert.Equal(t, []float32{32767.0 / 32768, 0.5, 0, -1.0 / 32768}, buf.Channels[1])
}

func TestDecode_Truncation(t *testing.T) {
	tests := []struct {
		name     string
		raw      []byte
		channels int
		frames   int
	}{
		{"empty", nil, 1, 0},
		{"odd trailing byte", append(pcm(100, 200), 0x7f), 1, 2},
		{"partial frame", pcm(1, 2, 3), 2, 1},
		{"partial frame and odd byte", append(pcm(1, 2, 3), 0x01), 2, 1},
		{"single byte", []byte{0x01}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := Decode(tt.raw, SampleRate, tt.channels)
			require.NoError(t, err)
			require.Len(t, buf.Channels, tt.channels)
			for _, ch := range buf.Channels {
				assert.Len(t, ch, tt.frames)
			}
		})
	}
}

func TestDecode_InvalidParameters(t *testing.T) {
	_, err := Decode(pcm(1), 0, 1)
	assert.Error(t, err)

	_, err = Decode(pcm(1), 24000, 0)
	assert.Error(t, err)
}

func TestDecode_Range(t *testing.T) {
	buf, err := Decode(pcm(math.MinInt16, math.MaxInt16), 24000, 1)
	require.NoError(t, err)

	for _, s := range buf.Channels[0] {
		assert.GreaterOrEqual(t, s, float32(-1))
		assert.Less(t, s, float32(1))
	}
}

func TestDecodePayload(t *testing.T) {
	// "QUJD" is base64 for "ABC": one full sample and an odd byte.
	buf, err := DecodePayload("QUJD", SampleRate, Channels)
	require.NoError(t, err)
	assert.Equal(t, 1, buf.Frames())
	assert.Equal(t, float32(int16(0x4241))/32768, buf.Channels[0][0])

	_, err = DecodePayload("not base64!!", SampleRate, Channels)
	assert.ErrorIs(t, err, ErrCorruptPayload)
}

func TestEncodePayload(t *testing.T) {
	assert.Equal(t, "QUJD", EncodePayload([]byte("ABC")))
}

func TestBuffer_Duration(t *testing.T) {
	buf, err := Decode(make([]byte, 24000*2), 24000, 1)
	require.NoError(t, err)
	assert.Equal(t, time.Second, buf.Duration())

	var empty *Buffer
	assert.Zero(t, empty.Duration())
	assert.Zero(t, empty.Frames())
}

func TestBuffer_Interleave(t *testing.T) {
	buf := &Buffer{
		SampleRate: 24000,
		Channels:   [][]float32{{0.25, -0.5}, {1, 0}},
	}

	out := buf.Interleave()
	require.Len(t, out, 16)

	want := []float32{0.25, 1, -0.5, 0}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(out[i*4:]))
		assert.Equal(t, w, got)
	}
}

func TestBuffer_Convert(t *testing.T) {
	t.Run("mono to stereo", func(t *testing.T) {
		buf := &Buffer{SampleRate: 24000, Channels: [][]float32{{0.1, 0.2}}}
		out := buf.Convert(24000, 2)
		require.Len(t, out.Channels, 2)
		assert.Equal(t, out.Channels[0], out.Channels[1])
	})

	t.Run("stereo to mono", func(t *testing.T) {
		buf := &Buffer{SampleRate: 24000, Channels: [][]float32{{1, 0}, {0, 0.5}}}
		out := buf.Convert(24000, 1)
		require.Len(t, out.Channels, 1)
		assert.Equal(t, []float32{0.5, 0.25}, out.Channels[0])
	})

	t.Run("resample", func(t *testing.T) {
		buf := &Buffer{SampleRate: 12000, Channels: [][]float32{{0, 1, 0, 1}}}
		out := buf.Convert(24000, 1)
		assert.Equal(t, 24000, out.SampleRate)
		assert.Equal(t, 8, out.Frames())
		assert.InDelta(t, 0.5, out.Channels[0][1], 0.0001)
	})

	t.Run("identity", func(t *testing.T) {
		buf := &Buffer{SampleRate: 24000, Channels: [][]float32{{0.3}}}
		assert.Same(t, buf, buf.Convert(24000, 1))
	})
}
