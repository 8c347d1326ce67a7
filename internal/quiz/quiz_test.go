package quiz

import (
	"math/rand"
	"testing"

	"github.com/dgnsrekt/clatter/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRound(t *testing.T) {
	words := catalog.Default().Words()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		r, err := NewRound(words, rng)
		require.NoError(t, err)

		require.Len(t, r.Options, Options)
		assert.Contains(t, r.Options, r.Answer.Word)

		seen := map[string]bool{}
		for _, o := range r.Options {
			assert.False(t, seen[o], "duplicate option %q", o)
			seen[o] = true
		}
		assert.False(t, r.Answered())
	}
}

func TestNewRound_Shuffles(t *testing.T) {
	words := catalog.Default().Words()
	rng := rand.New(rand.NewSource(7))

	positions := map[int]bool{}
	for i := 0; i < 100; i++ {
		r, err := NewRound(words, rng)
		require.NoError(t, err)
		for idx, o := range r.Options {
			if o == r.Answer.Word {
				positions[idx] = true
			}
		}
	}
	assert.Len(t, positions, Options, "answer should appear in every position")
}

func TestNewRound_TooFewWords(t *testing.T) {
	words := catalog.Default().Words()[:3]
	_, err := NewRound(words, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrTooFewWords)
}

func TestNewRound_ExactlyFourWords(t *testing.T) {
	words := catalog.Default().Words()[:4]
	r, err := NewRound(words, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{words[0].Word, words[1].Word, words[2].Word, words[3].Word}, r.Options)
}

func TestGame_Answer(t *testing.T) {
	g, err := NewGame(catalog.Default().Words(), rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	assert.True(t, g.Answer(g.Round.Answer.Word))
	assert.Equal(t, 1, g.Score)
	assert.Equal(t, 1, g.Played)

	// A second answer to the same round changes nothing.
	assert.True(t, g.Answer("nonsense"))
	assert.Equal(t, 1, g.Score)
	assert.Equal(t, 1, g.Played)

	require.NoError(t, g.Next())

	var wrong string
	for _, o := range g.Round.Options {
		if o != g.Round.Answer.Word {
			wrong = o
			break
		}
	}
	assert.False(t, g.Answer(wrong))
	assert.Equal(t, wrong, g.Round.Picked())
	assert.False(t, g.Round.Correct())
	assert.Equal(t, 1, g.Score)
	assert.Equal(t, 2, g.Played)
}

func TestNewGame_TooFewWords(t *testing.T) {
	_, err := NewGame(nil, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrTooFewWords)
}

func TestGame_SetWords(t *testing.T) {
	all := catalog.Default().Words()
	g, err := NewGame(all, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	g.Answer(g.Round.Answer.Word)

	g.SetWords(all[:4])
	require.NoError(t, g.Next())
	assert.ElementsMatch(t, words(all[:4]), g.Round.Options)
	assert.Equal(t, 1, g.Score, "score carries over")

	g.SetWords(all[:2])
	assert.ErrorIs(t, g.Next(), ErrTooFewWords)
}

func words(ws []catalog.Word) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Word
	}
	return out
}
