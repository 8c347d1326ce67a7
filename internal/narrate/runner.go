package narrate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Runner runs an external program and returns its standard output.
type Runner func(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error)

// LookPathFunc reports where an executable lives.
type LookPathFunc func(file string) (string, error)

// execRun is the real Runner. On cancellation the process gets an interrupt
// first and is killed if it does not exit promptly.
func execRun(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error) {
	cmd := exec.Command(name, args...)

	// Pre-configure stdin so the process never races us for it.
	if stdin == nil {
		stdin = bytes.NewReader(nil)
	}
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("%s failed: %w, stderr: %s", name, err, bytes.TrimSpace(stderr.Bytes()))
		}

	case <-ctx.Done():
		// Try graceful shutdown first
		_ = cmd.Process.Signal(os.Interrupt)

		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
			_ = cmd.Process.Kill()
			<-done
		}

		return nil, fmt.Errorf("%s: %w", name, ctx.Err())
	}

	return stdout.Bytes(), nil
}
