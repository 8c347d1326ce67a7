// Package ui provides the interactive terminal interface for clatter.
package ui

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/clatter/internal/catalog"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	te "github.com/muesli/termenv"
)

const (
	statusMessageTimeout = time.Second * 3 // how long to show status messages like "copied!"
	ellipsis             = "…"
	keyEsc               = "esc"

	// Below this width the mascot is hidden.
	mascotMinWidth = 90
)

// NewProgram returns a new Tea program.
func NewProgram(ctx context.Context, cfg Config, player SoundPlayer, cat *catalog.Catalog) *tea.Program {
	log.Debug(
		"Starting clatter",
		"glamour",
		cfg.GlamourEnabled,
		"mascot",
		cfg.ShowMascot,
		"catalog",
		cfg.CatalogFile,
	)

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec
	m := newModel(ctx, cfg, player, cat, rng)
	return tea.NewProgram(m, opts...)
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type (
	playRequestMsg struct{ word string }
	statusMsg      struct {
		text    string
		isError bool
	}
	statusMessageTimeoutMsg struct{ seq int }
)

// requestPlay asks the top-level model to play word.
func requestPlay(word string) tea.Cmd {
	return func() tea.Msg {
		return playRequestMsg{word: word}
	}
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

// tab is the top-level screen.
type tab int

const (
	learnTab tab = iota
	gameTab
)

func (t tab) String() string {
	return map[tab]string{
		learnTab: "Learn",
		gameTab:  "Crunch Test",
	}[t]
}

var tabs = []tab{learnTab, gameTab}

// Common stuff we'll need to access in all models.
type commonModel struct {
	cfg     Config
	ctx     context.Context
	player  SoundPlayer
	catalog *catalog.Catalog
	width   int
	height  int
}

type model struct {
	common   *commonModel
	tab      tab
	fatalErr error
	rng      *rand.Rand

	// Sub-models
	learn  learnModel
	game   gameModel
	mascot mascotModel

	watcher *catalogWatcher

	spinner  spinner.Model
	playing  int
	showHelp bool

	statusMessage string
	statusIsError bool
	statusSeq     int
}

func newModel(ctx context.Context, cfg Config, player SoundPlayer, cat *catalog.Catalog, rng *rand.Rand) model {
	if cfg.GlamourStyle == styles.AutoStyle {
		if te.HasDarkBackground() {
			cfg.GlamourStyle = styles.DarkStyle
		} else {
			cfg.GlamourStyle = styles.LightStyle
		}
	}
	if cat == nil {
		cat = catalog.Default()
	}

	common := commonModel{
		cfg:     cfg,
		ctx:     ctx,
		player:  player,
		catalog: cat,
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(rose)

	return model{
		common:  &common,
		rng:     rng,
		learn:   newLearnModel(&common),
		game:    newGameModel(&common, rng),
		mascot:  newMascotModel(rng),
		watcher: newCatalogWatcher(cfg.CatalogFile),
		spinner: sp,
	}
}

func (m model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.common.cfg.ShowMascot {
		cmds = append(cmds, m.mascot.init())
	}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.wait)
	}
	return tea.Batch(cmds...)
}

func (m *model) quit() tea.Cmd {
	m.watcher.close()
	return tea.Quit
}

func (m *model) setStatus(text string, isError bool) tea.Cmd {
	m.statusMessage = text
	m.statusIsError = isError
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusMessageTimeoutMsg{seq: seq}
	})
}

func (m *model) switchTab(delta int) {
	n := len(tabs)
	m.tab = tabs[((int(m.tab)+delta)%n+n)%n]
	m.showHelp = false
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If there's been an error, any key exits
	if m.fatalErr != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, m.quit()
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		// Ctrl+C always quits no matter where in the application you are.
		case "ctrl+c":
			return m, m.quit()

		case "ctrl+z":
			return m, tea.Suspend
		}

		// pass through all keys if we're editing the search
		if m.tab == learnTab && m.learn.searching() {
			var cmd tea.Cmd
			m.learn, cmd = m.learn.update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q":
			return m, m.quit()

		case "tab":
			m.switchTab(1)
			return m, nil

		case "shift+tab":
			m.switchTab(-1)
			return m, nil

		case "b":
			if m.common.cfg.ShowMascot {
				return m, m.mascot.bite()
			}

		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		}

	case tea.MouseMsg:
		if m.tab == learnTab && msg.Action == tea.MouseActionPress {
			switch msg.Button { //nolint:exhaustive
			case tea.MouseButtonWheelUp:
				m.learn.moveCursor(-1)
			case tea.MouseButtonWheelDown:
				m.learn.moveCursor(1)
			}
		}
		return m, nil

	// Window size is received when starting up and on every resize
	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height
		return m, nil

	case errMsg:
		m.fatalErr = msg
		return m, nil

	case playRequestMsg:
		m.playing++
		cmds = append(cmds, playSoundCmd(m.common.ctx, m.common.player, msg.word))
		if m.playing == 1 {
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case soundPlayedMsg:
		m.playing = max(0, m.playing-1)
		text, isError := describeReport(msg.report)
		if isError {
			log.Debug("sound failed", "word", msg.report.Word, "error", msg.report.Err)
		}
		return m, m.setStatus(text, isError)

	case spinner.TickMsg:
		if m.playing > 0 {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case statusMsg:
		return m, m.setStatus(msg.text, msg.isError)

	case statusMessageTimeoutMsg:
		if msg.seq == m.statusSeq {
			m.statusMessage = ""
			m.statusIsError = false
		}
		return m, nil

	case catalogChangedMsg:
		log.Info("catalog changed, reloading", "file", m.common.cfg.CatalogFile)
		return m, tea.Batch(loadCatalogCmd(m.common.cfg.CatalogFile), m.watcher.wait)

	case catalogLoadedMsg:
		if msg.err != nil {
			log.Error("unable to reload catalog", "error", msg.err)
			return m, m.setStatus("Catalog not reloaded: "+msg.err.Error(), true)
		}
		m.common.catalog = msg.catalog
		m.learn.refilter()
		m.game.setWords(m.rng)
		return m, m.setStatus(fmt.Sprintf("Catalog reloaded (%d words)", msg.catalog.Len()), false)

	case mascotHealMsg, mascotCalmMsg, mascotIdleMsg:
		var cmd tea.Cmd
		m.mascot, cmd = m.mascot.update(msg)
		return m, cmd
	}

	// Process children
	var cmd tea.Cmd
	switch m.tab {
	case learnTab:
		m.learn, cmd = m.learn.update(msg)
	case gameTab:
		m.game, cmd = m.game.update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.fatalErr != nil {
		return errorView(m.fatalErr, true)
	}

	width := m.common.width
	header := m.headerView()
	if m.common.cfg.ShowMascot && width >= mascotMinWidth {
		mascot := m.mascot.view()
		gap := max(1, width-lipgloss.Width(header)-lipgloss.Width(mascot)-2)
		header = lipgloss.JoinHorizontal(lipgloss.Bottom, header, strings.Repeat(" ", gap), mascot)
	}

	var footer strings.Builder
	m.statusBarView(&footer)
	if m.showHelp {
		fmt.Fprint(&footer, "\n"+m.helpView())
	}

	contentWidth := max(0, width-4)
	contentHeight := max(3, m.common.height-lipgloss.Height(header)-lipgloss.Height(footer.String())-3)

	var content string
	switch m.tab {
	case learnTab:
		content = m.learn.view(contentWidth, contentHeight)
	case gameTab:
		content = m.game.view(contentWidth)
	}
	content = lipgloss.NewStyle().
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(strings.TrimRight(indent(content, 2), "\n"))

	return strings.Join([]string{header, "", content, footer.String()}, "\n")
}

func (m model) headerView() string {
	title := titleStyle("Cupcake Clatter") + "  " + subtleStyle("A Scrummy Guide to Onomatopoeia 🍰")

	tabViews := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t == m.tab {
			tabViews = append(tabViews, activeTabStyle(t.String()))
		} else {
			tabViews = append(tabViews, inactiveTabStyle(t.String()))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabViews...)

	return "\n" + indent(title, 2) + "\n" + strings.TrimRight(indent(row, 2), "\n")
}

func (m model) statusBarView(b *strings.Builder) {
	showStatusMessage := m.statusMessage != ""

	// Logo
	logo := logoStyle(" 🧁 Clatter ")

	// "Help" note
	helpNote := statusBarHelpStyle(" ? Help ")

	// Note
	var note string
	switch {
	case showStatusMessage:
		note = m.statusMessage
	case m.playing > 0:
		note = m.spinner.View() + " Baking a sound..."
	default:
		note = fmt.Sprintf("%d words", m.common.catalog.Len())
		if m.tab == learnTab {
			note += " • " + m.learn.categoryName()
		}
	}
	note = truncate.StringWithTail(" "+note+" ", uint(max(0, //nolint:gosec
		m.common.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(helpNote),
	)), ellipsis)

	style := statusBarNoteStyle
	switch {
	case showStatusMessage && m.statusIsError:
		style = statusBarErrorStyle
	case showStatusMessage:
		style = statusBarMessageStyle
	}
	note = style(note)

	// Empty space
	padding := max(0,
		m.common.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(note)-
			ansi.PrintableRuneWidth(helpNote),
	)
	emptySpace := style(strings.Repeat(" ", padding))

	fmt.Fprintf(b, "%s%s%s%s",
		logo,
		note,
		emptySpace,
		helpNote,
	)
}

func (m model) helpView() (s string) {
	var lines []string
	switch m.tab {
	case learnTab:
		lines = []string{
			"k/↑      up                  /        search",
			"j/↓      down                z        fuzzy search",
			"h/←      previous category   enter    play sound",
			"l/→      next category       c        copy example",
			"g/home   go to top           tab      crunch test",
			"G/end    go to bottom        q        quit",
		}
	case gameTab:
		lines = []string{
			"space    replay sound        ←↑↓→     move",
			"1-4      answer              n        skip",
			"enter    answer / next       tab      learn",
			"                             q        quit",
		}
	}
	if m.common.cfg.ShowMascot {
		lines = append(lines, "", "b        feed the cupcake")
	}

	s = indent("\n"+strings.Join(lines, "\n"), 2)

	// Fill up empty cells with spaces for background coloring
	if m.common.width > 0 {
		lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
		for i := 0; i < len(lines); i++ {
			l := runewidth.StringWidth(lines[i])
			n := max(m.common.width-l, 0)
			lines[i] += strings.Repeat(" ", n)
		}

		s = strings.Join(lines, "\n")
	}

	return helpViewStyle(s)
}

func errorView(err error, fatal bool) string {
	exitMsg := "press any key to "
	if fatal {
		exitMsg += "exit"
	} else {
		exitMsg += "return"
	}
	s := fmt.Sprintf("%s\n\n%v\n\n%s",
		errorTitleStyle("ERROR"),
		err,
		subtleStyle(exitMsg),
	)
	return "\n" + indent(s, 3)
}

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for _, v := range l {
		fmt.Fprintf(&b, "%s%s\n", i, v)
	}
	return b.String()
}
