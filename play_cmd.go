package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dgnsrekt/clatter/internal/config"
	"github.com/dgnsrekt/clatter/internal/sound"
	"github.com/spf13/cobra"
)

var playRetries int

var playCmd = &cobra.Command{
	Use:     "play WORD...",
	Short:   "Play the sound a word makes",
	Long:    paragraph(fmt.Sprintf("\n%s the sound of each word: from the cache, freshly generated, or read aloud when nothing else works.", keyword("Play"))),
	Example: paragraph("clatter play splash\nclatter play woof meow --retries 0"),
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		retries := cfg.Synth.MaxRetries
		if cmd.Flags().Changed("retries") {
			if err := config.ValidateRetries(playRetries); err != nil {
				return fmt.Errorf("--retries %w", err)
			}
			retries = playRetries
		}

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		var failed int
		for _, word := range args {
			r := a.player.PlaySoundWithRetries(cmd.Context(), word, retries)
			printReport(cmd.OutOrStdout(), r)
			if r.Tier == sound.TierNone {
				failed++
			}
			if err := cmd.Context().Err(); err != nil {
				return err //nolint:wrapcheck
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d words could not be played", failed, len(args))
		}
		return nil
	},
}

func init() {
	playCmd.Flags().IntVarP(&playRetries, "retries", "r", 0, "retries after a quota error (default from config)")
}

// printReport writes one line describing where a word's sound came from.
func printReport(w io.Writer, r sound.Report) {
	var detail string
	switch r.Tier {
	case sound.TierCache:
		detail = "from cache"
	case sound.TierRemote:
		detail = fmt.Sprintf("generated, %s", plural(r.Attempts, "attempt"))
	case sound.TierFallback:
		detail = "read aloud"
		if r.Err != nil {
			detail += fmt.Sprintf(" (%v)", r.Err)
		}
	default:
		detail = "not played"
		if r.Err != nil {
			detail += fmt.Sprintf(": %v", r.Err)
		}
	}

	mark := "♪"
	if r.Tier == sound.TierNone {
		mark = "✗"
	}
	_, _ = fmt.Fprintf(w, "%s %s %s %s\n", mark, keyword(r.Word), detail, subtle(r.Elapsed.Round(time.Millisecond).String()))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
