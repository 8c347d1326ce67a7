package narrate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// speechCommands are tried in order when no command is configured.
var speechCommands = []string{"espeak-ng", "espeak", "say", "spd-say"}

// CommandNarrator speaks through a platform speech command that drives the
// sound card itself.
type CommandNarrator struct {
	command string
	path    string
	run     Runner
}

// DetectCommand returns a narrator for command, or for the first known speech
// command on PATH when command is empty.
func DetectCommand(command string, lookPath LookPathFunc) (*CommandNarrator, error) {
	candidates := speechCommands
	if command != "" {
		candidates = []string{command}
	}

	for _, c := range candidates {
		if path, err := lookPath(c); err == nil {
			return &CommandNarrator{command: c, path: path, run: execRun}, nil
		}
	}
	return nil, fmt.Errorf("%w: tried %s", ErrUnavailable, strings.Join(candidates, ", "))
}

// Name implements Narrator.
func (c *CommandNarrator) Name() string { return c.command }

func (c *CommandNarrator) args(text string) []string {
	switch c.command {
	case "spd-say":
		// Wait for the utterance so the call returns once it was heard.
		return []string{"--wait", text}
	default:
		return []string{text}
	}
}

// Speak implements Narrator.
func (c *CommandNarrator) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("text cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := c.run(ctx, c.path, c.args(text), nil)
	return err
}
