package audio

import (
	"context"
	"sync"
)

// MockOutput implements Output for testing purposes.
// It records what would have been played without producing sound.
type MockOutput struct {
	mu sync.Mutex

	state   State
	played  []*Buffer
	resumes int

	// PlayErr, when set, is returned by every Play call.
	PlayErr error
	// ResumeErr, when set, is returned by Resume.
	ResumeErr error
	// OnPlay is called with each buffer handed to Play.
	OnPlay func(buf *Buffer)
}

// NewMockOutput creates a running mock output.
func NewMockOutput() *MockOutput {
	return &MockOutput{state: StateRunning}
}

// State implements Output.
func (m *MockOutput) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Suspend puts the mock into the suspended state.
func (m *MockOutput) Suspend() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateSuspended
}

// Resume implements Output.
func (m *MockOutput) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resumes++
	if m.ResumeErr != nil {
		return m.ResumeErr
	}
	if m.state == StateClosed {
		return ErrClosed
	}
	m.state = StateRunning
	return nil
}

// Play implements Output.
func (m *MockOutput) Play(ctx context.Context, buf *Buffer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.PlayErr != nil {
		m.mu.Unlock()
		return m.PlayErr
	}
	m.played = append(m.played, buf)
	onPlay := m.OnPlay
	m.mu.Unlock()

	if onPlay != nil {
		onPlay(buf)
	}
	return nil
}

// Close implements Output.
func (m *MockOutput) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateClosed
	return nil
}

// Played returns the buffers played so far.
func (m *MockOutput) Played() []*Buffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Buffer, len(m.played))
	copy(out, m.played)
	return out
}

// Resumes returns how many times Resume was called.
func (m *MockOutput) Resumes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resumes
}
