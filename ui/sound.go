package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dgnsrekt/clatter/internal/sound"
)

// SoundPlayer plays the sound for a word. *sound.Player implements it.
type SoundPlayer interface {
	PlaySound(ctx context.Context, word string) sound.Report
}

// soundPlayedMsg is sent once a word has been heard, or not.
type soundPlayedMsg struct {
	report sound.Report
}

// playSoundCmd runs the whole resolution sequence off the UI goroutine.
func playSoundCmd(ctx context.Context, p SoundPlayer, word string) tea.Cmd {
	return func() tea.Msg {
		if p == nil {
			return soundPlayedMsg{sound.Report{Word: word, Err: fmt.Errorf("sound is disabled")}}
		}
		return soundPlayedMsg{p.PlaySound(ctx, word)}
	}
}

// describeReport turns a report into a status line and whether it is an
// error.
func describeReport(r sound.Report) (string, bool) {
	switch r.Tier {
	case sound.TierCache:
		return fmt.Sprintf("♪ %s (from the cake tin)", r.Word), false
	case sound.TierRemote:
		if r.Attempts > 1 {
			return fmt.Sprintf("♪ %s (fresh from the oven after %d tries)", r.Word, r.Attempts), false
		}
		return fmt.Sprintf("♪ %s (fresh from the oven)", r.Word), false
	case sound.TierFallback:
		return fmt.Sprintf("Said %q aloud, no sound effect available", r.Word), false
	default:
		if r.Err != nil {
			return fmt.Sprintf("Could not play %q: %v", r.Word, r.Err), true
		}
		return "Nothing to play", true
	}
}
