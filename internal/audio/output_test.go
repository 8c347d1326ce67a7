package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOutputConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  OutputConfig
		wantErr bool
	}{
		{"default", DefaultOutputConfig(), false},
		{"stereo 48k", OutputConfig{SampleRate: 48000, Channels: 2}, false},
		{"rate too low", OutputConfig{SampleRate: 4000, Channels: 1}, true},
		{"rate too high", OutputConfig{SampleRate: 384000, Channels: 1}, true},
		{"no channels", OutputConfig{SampleRate: 24000, Channels: 0}, true},
		{"surround", OutputConfig{SampleRate: 24000, Channels: 6}, true},
		{"negative buffer", OutputConfig{SampleRate: 24000, Channels: 1, BufferSize: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultOutputConfig(t *testing.T) {
	config := DefaultOutputConfig()
	assert.Equal(t, 24000, config.SampleRate)
	assert.Equal(t, 1, config.Channels)
}
