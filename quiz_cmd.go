package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/dgnsrekt/clatter/internal/quiz"
	"github.com/dgnsrekt/clatter/internal/sound"
	"github.com/spf13/cobra"
)

var (
	quizRounds int

	quizCmd = &cobra.Command{
		Use:     "quiz",
		Short:   "Take the Crunch Test in the terminal",
		Long:    paragraph(fmt.Sprintf("\nListen to a sound and %s from four options.", keyword("pick the word that makes it"))),
		Example: paragraph("clatter quiz\nclatter quiz --rounds 10"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			rng := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec
			game, err := quiz.NewGame(a.catalog.Words(), rng)
			if err != nil {
				return err //nolint:wrapcheck
			}

			play := func(ctx context.Context, word string) {
				if r := a.player.PlaySound(ctx, word); r.Tier == sound.TierNone {
					printReport(cmd.ErrOrStderr(), r)
				}
			}
			return runQuiz(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), game, play, quizRounds)
		},
	}
)

func init() {
	quizCmd.Flags().IntVarP(&quizRounds, "rounds", "n", 5, "number of rounds, 0 to play until you quit")
}

// errQuit ends the quiz early.
var errQuit = errors.New("quit")

// runQuiz plays rounds of the game, reading answers line by line from in.
func runQuiz(ctx context.Context, in io.Reader, out io.Writer, game *quiz.Game, play func(context.Context, string), rounds int) error {
	scanner := bufio.NewScanner(in)

	for round := 1; rounds <= 0 || round <= rounds; round++ {
		if round > 1 {
			if err := game.Next(); err != nil {
				return err //nolint:wrapcheck
			}
		}

		err := quizRound(ctx, scanner, out, game, play, round)
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(out, "\nScore: %d  Played: %d\n", game.Score, game.Played)
	return nil
}

func quizRound(ctx context.Context, scanner *bufio.Scanner, out io.Writer, game *quiz.Game, play func(context.Context, string), round int) error {
	r := game.Round

	_, _ = fmt.Fprintf(out, "\n%s\n", keyword(fmt.Sprintf("Round %d", round)))
	play(ctx, r.Answer.Word)
	for i, o := range r.Options {
		_, _ = fmt.Fprintf(out, "  %d. %s\n", i+1, o)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err //nolint:wrapcheck
		}
		_, _ = fmt.Fprint(out, subtle("Your answer (1-4, r to replay, q to quit): "))
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("unable to read answer: %w", err)
			}
			return io.EOF
		}

		input := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch input {
		case "q", "quit":
			return errQuit
		case "r", "":
			play(ctx, r.Answer.Word)
			continue
		}

		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(r.Options) {
			_, _ = fmt.Fprintln(out, "Pick a number from 1 to", len(r.Options))
			continue
		}

		if game.Answer(r.Options[n-1]) {
			_, _ = fmt.Fprintln(out, "Sweet! Correct!")
		} else {
			_, _ = fmt.Fprintf(out, "Oops! That was '%s'\n", r.Answer.Word)
		}
		return nil
	}
}
