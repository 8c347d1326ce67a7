package ui

import (
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	maxBites         = 4
	biteHealDelay    = 2 * time.Second
	surprisedFor     = 1200 * time.Millisecond
	mascotIdleEvery  = 8 * time.Second
	mascotWinkChance = 0.2
)

var mascotComments = []string{
	"Tap b to take a bite!",
	"Every word has a flavour.",
	"Crunch, munch, scrummy!",
	"Sprinkles make everything louder.",
	"Pick a word, hear a sound.",
	"Try the Crunch Test!",
	"Nom nom... onomatopoeia!",
}

type emotion int

const (
	happy emotion = iota
	wink
	surprised
)

type (
	mascotHealMsg struct{ seq int }
	mascotCalmMsg struct{ seq int }
	mascotIdleMsg struct{}
)

// mascotModel is the cupcake in the corner. Bites heal two seconds after the
// last one.
type mascotModel struct {
	bites   int
	emotion emotion
	comment string

	biteSeq int
	rng     *rand.Rand
}

func newMascotModel(rng *rand.Rand) mascotModel {
	return mascotModel{comment: mascotComments[0], rng: rng}
}

func (m mascotModel) init() tea.Cmd {
	return mascotIdleTick()
}

// bite takes a chunk out, wrapping to one after the fourth.
func (m *mascotModel) bite() tea.Cmd {
	if m.bites >= maxBites {
		m.bites = 1
	} else {
		m.bites++
	}
	m.emotion = surprised
	m.biteSeq++

	seq := m.biteSeq
	return tea.Batch(
		tea.Tick(biteHealDelay, func(time.Time) tea.Msg { return mascotHealMsg{seq} }),
		tea.Tick(surprisedFor, func(time.Time) tea.Msg { return mascotCalmMsg{seq} }),
	)
}

func (m mascotModel) update(msg tea.Msg) (mascotModel, tea.Cmd) {
	switch msg := msg.(type) {
	case mascotHealMsg:
		// Only the timer of the most recent bite heals.
		if msg.seq == m.biteSeq {
			m.bites = 0
		}
	case mascotCalmMsg:
		if msg.seq == m.biteSeq && m.emotion == surprised {
			m.emotion = happy
		}
	case mascotIdleMsg:
		m.comment = mascotComments[m.rng.Intn(len(mascotComments))]
		if m.emotion != surprised {
			m.emotion = happy
			if m.rng.Float64() < mascotWinkChance {
				m.emotion = wink
			}
		}
		return m, mascotIdleTick()
	}
	return m, nil
}

func mascotIdleTick() tea.Cmd {
	return tea.Tick(mascotIdleEvery, func(time.Time) tea.Msg { return mascotIdleMsg{} })
}

func (m mascotModel) face() string {
	switch m.emotion {
	case wink:
		return "( ^ ‿ - )"
	case surprised:
		return "( ° o ° )"
	default:
		return "( ^ ‿ ^ )"
	}
}

// frosting returns the top of the cupcake with one chunk missing per bite,
// eaten from the right.
func (m mascotModel) frosting() string {
	const top = "_.-~~~~-._"
	eaten := m.bites * 2
	if eaten > len(top) {
		eaten = len(top)
	}
	return top[:len(top)-eaten] + strings.Repeat(" ", eaten)
}

func (m mascotModel) view() string {
	cake := strings.Join([]string{
		"    " + m.frosting(),
		"   " + m.face() + "  ",
		"    \\|/|\\|/|\\/ ",
		"     \\______/  ",
	}, "\n")

	bubble := mascotBubble.Render(m.comment)
	return lipgloss.JoinHorizontal(lipgloss.Center, bubble, " ", lipgloss.NewStyle().Foreground(rose).Render(cake))
}
