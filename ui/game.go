package ui

import (
	"fmt"
	"math/rand"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dgnsrekt/clatter/internal/quiz"
)

const gridColumns = 2

// gameModel is the Crunch Test tab.
type gameModel struct {
	common *commonModel

	game   *quiz.Game
	err    error
	cursor int
}

func newGameModel(common *commonModel, rng *rand.Rand) gameModel {
	g, err := quiz.NewGame(common.catalog.Words(), rng)
	return gameModel{common: common, game: g, err: err}
}

// setWords swaps the word pool after a catalog reload. A game that could not
// start before gets another chance.
func (m *gameModel) setWords(rng *rand.Rand) {
	words := m.common.catalog.Words()
	if m.game == nil {
		m.game, m.err = quiz.NewGame(words, rng)
		m.cursor = 0
		return
	}
	m.game.SetWords(words)
}

func (m *gameModel) next() tea.Cmd {
	if err := m.game.Next(); err != nil {
		m.err = err
		return statusCmd(err.Error(), true)
	}
	m.err = nil
	m.cursor = 0
	return m.playAnswer()
}

func (m gameModel) playAnswer() tea.Cmd {
	return requestPlay(m.game.Round.Answer.Word)
}

func (m *gameModel) moveCursor(dx, dy int) {
	n := len(m.game.Round.Options)
	col := m.cursor%gridColumns + dx
	row := m.cursor/gridColumns + dy
	if col < 0 || col >= gridColumns {
		return
	}
	i := row*gridColumns + col
	if row < 0 || i >= n {
		return
	}
	m.cursor = i
}

func (m *gameModel) answer(i int) {
	r := m.game.Round
	if r.Answered() || i < 0 || i >= len(r.Options) {
		return
	}
	m.cursor = i
	m.game.Answer(r.Options[i])
}

func (m gameModel) update(msg tea.Msg) (gameModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.game == nil {
		return m, nil
	}

	var cmd tea.Cmd
	switch key := keyMsg.String(); key {
	case " ", "p":
		cmd = m.playAnswer()

	case "1", "2", "3", "4":
		m.answer(int(key[0] - '1'))

	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)
	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)

	case "enter":
		if m.game.Round.Answered() {
			cmd = m.next()
		} else {
			m.answer(m.cursor)
		}

	case "n":
		cmd = m.next()
	}
	return m, cmd
}

func (m gameModel) view(width int) string {
	var b strings.Builder

	b.WriteString(titleStyle("The Crunch Test"))
	b.WriteString("\n")
	b.WriteString(subtleStyle("Listen to the sound and pick the most accurate word!"))
	b.WriteString("\n\n")

	if m.game == nil {
		if m.err != nil {
			b.WriteString(wrongStyle(m.err.Error()))
		}
		return b.String()
	}

	b.WriteString(m.gridView(width))
	b.WriteString("\n\n")

	r := m.game.Round
	switch {
	case !r.Answered():
		b.WriteString(subtleStyle("space replay • 1-4 or enter to answer"))
	case r.Correct():
		b.WriteString(correctStyle("Sweet! Correct!"))
		b.WriteString(dimStyle("  enter for the next one"))
	default:
		b.WriteString(wrongStyle(fmt.Sprintf("Oops! That was '%s'", r.Answer.Word)))
		b.WriteString(dimStyle("  enter for the next one"))
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Score: %d  Played: %d", m.game.Score, m.game.Played)

	return b.String()
}

func (m gameModel) gridView(width int) string {
	r := m.game.Round
	boxWidth := max(12, min(24, width/gridColumns-4))

	var rows []string
	for start := 0; start < len(r.Options); start += gridColumns {
		var cells []string
		for i := start; i < min(start+gridColumns, len(r.Options)); i++ {
			cells = append(cells, m.optionView(i, boxWidth), " ")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m gameModel) optionView(i, width int) string {
	r := m.game.Round
	option := r.Options[i]
	label := fmt.Sprintf("%d. %s", i+1, option)

	box := optionBox.Width(width)
	switch {
	case r.Answered() && option == r.Answer.Word:
		box = box.BorderForeground(green).Foreground(green)
	case r.Answered() && option == r.Picked():
		box = box.BorderForeground(rose).Foreground(rose)
	case r.Answered():
		box = box.Foreground(gray)
	case i == m.cursor:
		box = box.BorderForeground(rose).Bold(true)
	}
	return box.Render(label)
}
