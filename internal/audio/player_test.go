//go:build !nocgo

package audio

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oto allows a single context per process.
var (
	testOutput     *OtoOutput
	testOutputOnce sync.Once
	testOutputErr  error
)

func getTestOutput(t *testing.T) *OtoOutput {
	t.Helper()
	if isCI() {
		t.Skip("Skipping test: no audio device in CI")
	}
	testOutputOnce.Do(func() {
		testOutput, testOutputErr = NewOtoOutput(DefaultOutputConfig())
	})

	if testOutputErr != nil {
		t.Skipf("Skipping test: cannot create audio output (no audio device?): %v", testOutputErr)
	}
	return testOutput
}

func TestOtoOutput_PlayAndSuspend(t *testing.T) {
	out := getTestOutput(t)

	buf, err := Decode(make([]byte, SampleRate*2/20), SampleRate, Channels) // 50ms of silence
	require.NoError(t, err)

	require.NoError(t, out.Play(context.Background(), buf))
	assert.Zero(t, out.Playing())

	require.NoError(t, out.Suspend())
	assert.Equal(t, StateSuspended, out.State())
	require.NoError(t, out.Resume())
	assert.Equal(t, StateRunning, out.State())
}

func TestOtoOutput_PlayEmpty(t *testing.T) {
	out := getTestOutput(t)

	assert.Error(t, out.Play(context.Background(), &Buffer{SampleRate: SampleRate}))
}
