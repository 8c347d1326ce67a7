package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/clatter/internal/catalog"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
)

const (
	maxListWidth = 28
	cardGap      = 3
)

// learnCategories is the category picker order: All first.
var learnCategories = append([]string{catalog.CategoryAll}, catalog.Categories...)

// learnModel is the word gallery: search, category filter and a card for the
// selected word.
type learnModel struct {
	common *commonModel

	input    textinput.Model
	category int // index into learnCategories
	fuzzy    bool

	words  []catalog.Word
	cursor int

	cards *cardRenderer
}

func newLearnModel(common *commonModel) learnModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "Find a sound..."
	ti.CharLimit = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(rose)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(rose)

	m := learnModel{
		common: common,
		input:  ti,
		cards:  newCardRenderer(common.cfg.GlamourStyle, common.cfg.GlamourEnabled),
	}
	m.refilter()
	return m
}

func (m learnModel) categoryName() string {
	return learnCategories[m.category]
}

// refilter recomputes the visible words, keeping the selection in range.
func (m *learnModel) refilter() {
	query := strings.TrimSpace(m.input.Value())
	category := m.categoryName()

	if m.fuzzy && query != "" {
		var words []catalog.Word
		for _, w := range m.common.catalog.Search(query) {
			if category == catalog.CategoryAll || w.Category == category {
				words = append(words, w)
			}
		}
		m.words = words
	} else {
		m.words = m.common.catalog.Filter(query, category)
	}

	if m.cursor >= len(m.words) {
		m.cursor = max(0, len(m.words)-1)
	}
}

func (m learnModel) selected() (catalog.Word, bool) {
	if len(m.words) == 0 {
		return catalog.Word{}, false
	}
	return m.words[m.cursor], true
}

func (m *learnModel) moveCursor(delta int) {
	if len(m.words) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.words)-1, m.cursor+delta))
}

func (m *learnModel) cycleCategory(delta int) {
	n := len(learnCategories)
	m.category = ((m.category+delta)%n + n) % n
	m.cursor = 0
	m.refilter()
}

func (m learnModel) searching() bool {
	return m.input.Focused()
}

func (m learnModel) update(msg tea.Msg) (learnModel, tea.Cmd) {
	var cmds []tea.Cmd

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if m.searching() {
		switch keyMsg.String() {
		case keyEsc, "enter", "tab":
			m.input.Blur()
			return m, nil
		case "up":
			m.moveCursor(-1)
			return m, nil
		case "down":
			m.moveCursor(1)
			return m, nil
		case "ctrl+f":
			m.fuzzy = !m.fuzzy
			m.refilter()
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.cursor = 0
		m.refilter()
		return m, cmd
	}

	switch keyMsg.String() {
	case "/":
		m.input.CursorEnd()
		cmds = append(cmds, m.input.Focus())

	case keyEsc:
		if m.input.Value() != "" {
			m.input.Reset()
			m.refilter()
		}

	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-10)
	case "pgdown":
		m.moveCursor(10)
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.moveCursor(len(m.words))

	case "left", "h", "[":
		m.cycleCategory(-1)
	case "right", "l", "]":
		m.cycleCategory(1)

	case "z":
		m.fuzzy = !m.fuzzy
		m.refilter()
		mode := "substring"
		if m.fuzzy {
			mode = "fuzzy"
		}
		cmds = append(cmds, statusCmd("Search mode: "+mode, false))

	case "enter", " ", "p":
		if w, ok := m.selected(); ok {
			cmds = append(cmds, requestPlay(w.Word))
		}

	case "c":
		if w, ok := m.selected(); ok && w.Example != "" {
			// Copy using OSC 52
			termenv.Copy(w.Example)
			// Copy using native system clipboard
			if err := clipboard.WriteAll(w.Example); err != nil {
				log.Debug("clipboard unavailable", "error", err)
			}
			cmds = append(cmds, statusCmd("Copied example", false))
		}
	}

	return m, tea.Batch(cmds...)
}

func (m learnModel) view(width, height int) string {
	var b strings.Builder

	pill := categoryStyle(fmt.Sprintf("◀ %s ▶", m.categoryName()))
	mode := ""
	if m.fuzzy {
		mode = subtleStyle(" fuzzy")
	}
	m.input.Width = max(10, width-lipgloss.Width(pill)-lipgloss.Width(mode)-6)
	fmt.Fprintf(&b, "%s  %s%s\n\n", m.input.View(), pill, mode)

	if len(m.words) == 0 {
		b.WriteString(subtleStyle("  No sounds found! 🧁"))
		return b.String()
	}

	rows := max(1, height-2)
	listWidth := min(maxListWidth, max(12, width/3))
	list := m.listView(listWidth, rows)

	cardWidth := width - listWidth - cardGap
	if m.common.cfg.GlamourMaxWidth > 0 {
		cardWidth = min(cardWidth, int(m.common.cfg.GlamourMaxWidth)) //nolint:gosec
	}
	card := m.cardView(cardWidth, rows)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, strings.Repeat(" ", cardGap), card))
	return b.String()
}

func (m learnModel) listView(width, rows int) string {
	offset := max(0, m.cursor-rows+1)
	end := min(len(m.words), offset+rows)

	lines := make([]string, 0, rows)
	for i := offset; i < end; i++ {
		name := truncate.StringWithTail(m.words[i].Word, uint(max(0, width-2)), ellipsis) //nolint:gosec
		if i == m.cursor {
			lines = append(lines, selectedItemStyle("▸ "+name))
		} else {
			lines = append(lines, itemStyle("  "+name))
		}
	}
	if len(m.words) > rows {
		lines = append(lines, subtleStyle(fmt.Sprintf("  %d/%d", m.cursor+1, len(m.words))))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (m learnModel) cardView(width, rows int) string {
	w, ok := m.selected()
	if !ok || width < 10 {
		return ""
	}
	card, err := m.cards.render(w, width)
	if err != nil {
		log.Error("error rendering word card", "error", err)
		card = w.Markdown()
	}
	return lipgloss.NewStyle().MaxHeight(rows).Render(card)
}
