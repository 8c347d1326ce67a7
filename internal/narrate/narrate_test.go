package narrate

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dgnsrekt/clatter/internal/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name  string
	args  []string
	stdin string
}

// fakeRunner records invocations and answers from a table keyed by program.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []call
	outputs map[string][]byte
	errs    map[string]error
}

func (f *fakeRunner) run(_ context.Context, name string, args []string, stdin io.Reader) ([]byte, error) {
	var in []byte
	if stdin != nil {
		in, _ = io.ReadAll(stdin)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{name: filepath.Base(name), args: args, stdin: string(in)})

	base := filepath.Base(name)
	if err := f.errs[base]; err != nil {
		return nil, err
	}
	return f.outputs[base], nil
}

func lookPathIn(found ...string) LookPathFunc {
	return func(file string) (string, error) {
		for _, f := range found {
			if f == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", errors.New("not found")
	}
}

type stubNarrator struct {
	name  string
	err   error
	spoke []string
}

func (s *stubNarrator) Name() string { return s.name }

func (s *stubNarrator) Speak(_ context.Context, text string) error {
	s.spoke = append(s.spoke, text)
	return s.err
}

func writeModel(t *testing.T) string {
	t.Helper()
	model := filepath.Join(t.TempDir(), "en_US-test.onnx")
	require.NoError(t, os.WriteFile(model, []byte("fake model"), 0o644))
	return model
}

func TestChain_FirstSuccessWins(t *testing.T) {
	first := &stubNarrator{name: "a", err: errors.New("broken")}
	second := &stubNarrator{name: "b"}
	third := &stubNarrator{name: "c"}

	chain := NewChain(nil, first, second, third)
	require.NoError(t, chain.Speak(context.Background(), "moo"))

	assert.Equal(t, []string{"moo"}, first.spoke)
	assert.Equal(t, []string{"moo"}, second.spoke)
	assert.Empty(t, third.spoke)
	assert.Equal(t, "chain(a,b,c)", chain.Name())
}

func TestChain_AllFail(t *testing.T) {
	chain := NewChain(nil,
		&stubNarrator{name: "a", err: errors.New("one")},
		&stubNarrator{name: "b", err: errors.New("two")},
	)

	err := chain.Speak(context.Background(), "moo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a: one")
	assert.Contains(t, err.Error(), "b: two")
}

func TestChain_Empty(t *testing.T) {
	err := NewChain(nil).Speak(context.Background(), "moo")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPiperNarrator_Speak(t *testing.T) {
	model := writeModel(t)
	out := audio.NewMockOutput()

	p, err := NewPiperNarrator(PiperConfig{ModelPath: model}, out)
	require.NoError(t, err)

	runner := &fakeRunner{outputs: map[string][]byte{"piper": {0x00, 0x40, 0x00, 0xc0}}}
	p.run = runner.run

	require.NoError(t, p.Speak(context.Background(), " Woof "))

	require.Len(t, runner.calls, 1)
	c := runner.calls[0]
	assert.Equal(t, "piper", c.name)
	assert.Equal(t, "Woof", c.stdin)
	assert.Contains(t, c.args, "--output-raw")
	assert.Contains(t, c.args, model)
	assert.NotContains(t, c.args, "--config", "config file does not exist")

	played := out.Played()
	require.Len(t, played, 1)
	assert.Equal(t, 22050, played[0].SampleRate)
	assert.Equal(t, []float32{0.5, -0.5}, played[0].Channels[0])
}

func TestPiperNarrator_Errors(t *testing.T) {
	model := writeModel(t)
	out := audio.NewMockOutput()

	_, err := NewPiperNarrator(PiperConfig{}, out)
	assert.Error(t, err)

	_, err = NewPiperNarrator(PiperConfig{ModelPath: "/non/existent/model.onnx"}, out)
	assert.Error(t, err)

	p, err := NewPiperNarrator(PiperConfig{ModelPath: model}, out)
	require.NoError(t, err)

	p.run = (&fakeRunner{}).run
	assert.Error(t, p.Speak(context.Background(), "woof"), "no output")
	assert.Error(t, p.Speak(context.Background(), "  "), "empty text")

	p.run = (&fakeRunner{errs: map[string]error{"piper": errors.New("exit status 1")}}).run
	assert.Error(t, p.Speak(context.Background(), "woof"))
	assert.Empty(t, out.Played())
}

func TestGTTSNarrator_Speak(t *testing.T) {
	out := audio.NewMockOutput()
	g := NewGTTSNarrator(GTTSConfig{Language: "en", Slow: true}, out)

	runner := &fakeRunner{outputs: map[string][]byte{
		"gtts-cli": []byte("ID3 fake mp3"),
		"ffmpeg":   {0x00, 0x40},
	}}
	g.run = runner.run

	require.NoError(t, g.Speak(context.Background(), "sizzle"))

	require.Len(t, runner.calls, 2)
	assert.Equal(t, []string{"sizzle", "-l", "en", "--slow", "-o", "-"}, runner.calls[0].args)
	assert.Equal(t, "ffmpeg", runner.calls[1].name)
	assert.Equal(t, "ID3 fake mp3", runner.calls[1].stdin)
	assert.Contains(t, runner.calls[1].args, "24000")

	require.Len(t, out.Played(), 1)
	assert.Equal(t, audio.SampleRate, out.Played()[0].SampleRate)
}

func TestDetectCommand(t *testing.T) {
	c, err := DetectCommand("", lookPathIn("say", "spd-say"))
	require.NoError(t, err)
	assert.Equal(t, "say", c.Name())

	c, err = DetectCommand("spd-say", lookPathIn("say", "spd-say"))
	require.NoError(t, err)
	assert.Equal(t, "spd-say", c.Name())

	_, err = DetectCommand("", lookPathIn())
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = DetectCommand("festival", lookPathIn("say"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCommandNarrator_Speak(t *testing.T) {
	tests := []struct {
		command string
		want    []string
	}{
		{"espeak-ng", []string{"Boing"}},
		{"say", []string{"Boing"}},
		{"spd-say", []string{"--wait", "Boing"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			c, err := DetectCommand(tt.command, lookPathIn(tt.command))
			require.NoError(t, err)

			runner := &fakeRunner{}
			c.run = runner.run

			require.NoError(t, c.Speak(context.Background(), "Boing"))
			require.Len(t, runner.calls, 1)
			assert.Equal(t, tt.command, runner.calls[0].name)
			assert.Equal(t, tt.want, runner.calls[0].args)
		})
	}
}

func TestBuild(t *testing.T) {
	model := writeModel(t)
	out := audio.NewMockOutput()
	runner := &fakeRunner{}

	cfg := Config{PiperModel: model, GTTS: true}

	chain := build(cfg, out, nil, lookPathIn("piper", "gtts-cli", "ffmpeg", "espeak-ng"), runner.run)
	assert.Equal(t, "chain(piper,gtts,espeak-ng)", chain.Name())

	chain = build(cfg, out, nil, lookPathIn("say"), runner.run)
	assert.Equal(t, "chain(say)", chain.Name())

	chain = build(Config{}, out, nil, lookPathIn(), runner.run)
	assert.Zero(t, chain.Len())
}
