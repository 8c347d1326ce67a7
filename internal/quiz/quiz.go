// Package quiz runs the Crunch Test: hear a sound, pick the word that makes
// it from four options.
package quiz

import (
	"errors"
	"math/rand"

	"github.com/dgnsrekt/clatter/internal/catalog"
)

// Options is the number of choices offered per round.
const Options = 4

// ErrTooFewWords is returned when the catalog cannot fill a round.
var ErrTooFewWords = errors.New("need at least 4 words for a quiz round")

// Round is one question.
type Round struct {
	Answer  catalog.Word
	Options []string // Answer.Word plus three distractors, shuffled

	answered bool
	picked   string
}

// NewRound picks a random answer and three distinct distractors.
func NewRound(words []catalog.Word, rng *rand.Rand) (*Round, error) {
	if len(words) < Options {
		return nil, ErrTooFewWords
	}

	answer := words[rng.Intn(len(words))]

	others := make([]catalog.Word, 0, len(words)-1)
	for _, w := range words {
		if w.ID != answer.ID {
			others = append(others, w)
		}
	}
	rng.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

	options := []string{answer.Word}
	for _, w := range others[:Options-1] {
		options = append(options, w.Word)
	}
	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	return &Round{Answer: answer, Options: options}, nil
}

// Answered reports whether an answer was given.
func (r *Round) Answered() bool { return r.answered }

// Picked returns the option chosen, if any.
func (r *Round) Picked() string { return r.picked }

// Correct reports whether the chosen option was the answer.
func (r *Round) Correct() bool { return r.answered && r.picked == r.Answer.Word }

// Game keeps score across rounds.
type Game struct {
	words []catalog.Word
	rng   *rand.Rand

	Round  *Round
	Score  int
	Played int
}

// NewGame starts a game with its first round.
func NewGame(words []catalog.Word, rng *rand.Rand) (*Game, error) {
	g := &Game{words: words, rng: rng}
	if err := g.Next(); err != nil {
		return nil, err
	}
	return g, nil
}

// Next moves to a fresh round. Score carries over.
func (g *Game) Next() error {
	r, err := NewRound(g.words, g.rng)
	if err != nil {
		return err
	}
	g.Round = r
	return nil
}

// SetWords replaces the word pool used from the next round on.
func (g *Game) SetWords(words []catalog.Word) {
	g.words = words
}

// Answer records option for the current round. Only the first answer counts;
// later calls return the original verdict without changing the score.
func (g *Game) Answer(option string) bool {
	r := g.Round
	if r.answered {
		return r.Correct()
	}

	r.answered = true
	r.picked = option
	g.Played++
	if r.Correct() {
		g.Score++
	}
	return r.Correct()
}
