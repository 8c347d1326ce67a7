package ui

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dgnsrekt/clatter/internal/catalog"
	"github.com/dgnsrekt/clatter/internal/quiz"
	"github.com/dgnsrekt/clatter/internal/sound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
words:
  - {id: 1, word: Woof, meaning: "A dog's bark.", example: "The dog said woof.", category: Animal Noises}
  - {id: 2, word: Moo, meaning: "A cow's call.", category: Animal Noises}
  - {id: 3, word: Bang, meaning: "A sudden loud noise.", category: Collision or Explosive Sounds}
  - {id: 4, word: Boom, meaning: "A deep explosion.", category: Collision or Explosive Sounds}
  - {id: 5, word: Splash, meaning: "Water hitting something.", category: "Movement of Water, Air, or Objects"}
  - {id: 6, word: Hiccup, meaning: "A sudden gulp.", category: Human Sounds}
`

type fakePlayer struct {
	words  []string
	report sound.Report
}

func (f *fakePlayer) PlaySound(_ context.Context, word string) sound.Report {
	f.words = append(f.words, word)
	r := f.report
	r.Word = word
	return r
}

func testConfig() Config {
	return Config{
		GlamourStyle:   "dark",
		GlamourEnabled: false,
		ShowMascot:     true,
	}
}

func parseCatalog(t *testing.T, data string) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(data))
	require.NoError(t, err)
	return c
}

func newTestModel(t *testing.T, player SoundPlayer) model {
	t.Helper()
	return newModel(context.Background(), testConfig(), player, parseCatalog(t, testCatalog), rand.New(rand.NewSource(1)))
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case keyEsc:
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(model)
	require.True(t, ok)
	return mm, cmd
}

func wordNames(words []catalog.Word) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, w.Word)
	}
	return out
}

func TestDescribeReport(t *testing.T) {
	tests := []struct {
		name    string
		report  sound.Report
		want    string
		isError bool
	}{
		{"cache", sound.Report{Word: "Woof", Tier: sound.TierCache}, "♪ Woof (from the cake tin)", false},
		{"remote", sound.Report{Word: "Woof", Tier: sound.TierRemote, Attempts: 1}, "♪ Woof (fresh from the oven)", false},
		{"remote retried", sound.Report{Word: "Woof", Tier: sound.TierRemote, Attempts: 3}, "♪ Woof (fresh from the oven after 3 tries)", false},
		{"fallback", sound.Report{Word: "Woof", Tier: sound.TierFallback}, `Said "Woof" aloud, no sound effect available`, false},
		{"failed", sound.Report{Word: "Woof", Err: errors.New("boom")}, `Could not play "Woof": boom`, true},
		{"empty", sound.Report{}, "Nothing to play", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, isError := describeReport(tt.report)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.isError, isError)
		})
	}
}

func TestPlaySoundCmd(t *testing.T) {
	p := &fakePlayer{report: sound.Report{Tier: sound.TierCache}}
	msg := playSoundCmd(context.Background(), p, "Woof")()

	played, ok := msg.(soundPlayedMsg)
	require.True(t, ok)
	assert.Equal(t, sound.TierCache, played.report.Tier)
	assert.Equal(t, []string{"Woof"}, p.words)

	msg = playSoundCmd(context.Background(), nil, "Woof")()
	played, ok = msg.(soundPlayedMsg)
	require.True(t, ok)
	assert.Equal(t, sound.TierNone, played.report.Tier)
	assert.EqualError(t, played.report.Err, "sound is disabled")
}

func TestCardRenderer_Disabled(t *testing.T) {
	w := catalog.Word{Word: "Moo", Category: catalog.CategoryAnimals}
	out, err := newCardRenderer("dark", false).render(w, 40)
	require.NoError(t, err)
	assert.Equal(t, w.Markdown(), out)
}

func TestCardRenderer_Glamour(t *testing.T) {
	w := catalog.Word{Word: "Moo", Meaning: "A cow's call.", Category: catalog.CategoryAnimals}
	r := newCardRenderer("notty", true)

	out, err := r.render(w, 40)
	require.NoError(t, err)
	assert.Contains(t, out, "Moo")
	assert.Contains(t, out, "A cow's call.")

	first := r.renderer
	_, err = r.render(w, 40)
	require.NoError(t, err)
	assert.Same(t, first, r.renderer)

	_, err = r.render(w, 60)
	require.NoError(t, err)
	assert.NotSame(t, first, r.renderer)
}

func TestLearn_Search(t *testing.T) {
	m := newTestModel(t, nil)
	assert.Len(t, m.learn.words, 6)

	m, _ = update(t, m, key("/"))
	require.True(t, m.learn.searching())

	m, _ = update(t, m, key("o"))
	m, _ = update(t, m, key("o"))
	assert.Equal(t, "oo", m.learn.input.Value())
	assert.Equal(t, []string{"Woof", "Moo", "Boom"}, wordNames(m.learn.words))

	// q is typed, not quit
	m, _ = update(t, m, key("q"))
	assert.Equal(t, learnTab, m.tab)
	assert.Equal(t, "ooq", m.learn.input.Value())
	assert.Empty(t, m.learn.words)

	m, _ = update(t, m, key(keyEsc))
	assert.False(t, m.learn.searching())
	assert.Equal(t, "ooq", m.learn.input.Value())

	m, _ = update(t, m, key(keyEsc))
	assert.Empty(t, m.learn.input.Value())
	assert.Len(t, m.learn.words, 6)
}

func TestLearn_Categories(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, key("l"))
	assert.Equal(t, catalog.CategoryAnimals, m.learn.categoryName())
	assert.Equal(t, []string{"Woof", "Moo"}, wordNames(m.learn.words))

	m, _ = update(t, m, key("h"))
	assert.Equal(t, catalog.CategoryAll, m.learn.categoryName())

	m, _ = update(t, m, key("h"))
	assert.Equal(t, catalog.CategoryMisc, m.learn.categoryName())
	assert.Empty(t, m.learn.words)
	_, ok := m.learn.selected()
	assert.False(t, ok)
}

func TestLearn_CursorAndPlay(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, key("j"))
	m, _ = update(t, m, key("j"))
	w, ok := m.learn.selected()
	require.True(t, ok)
	assert.Equal(t, "Bang", w.Word)

	m, _ = update(t, m, key("G"))
	w, _ = m.learn.selected()
	assert.Equal(t, "Hiccup", w.Word)

	m, _ = update(t, m, key("j"))
	assert.Equal(t, 5, m.learn.cursor)

	m, _ = update(t, m, key("g"))
	assert.Equal(t, 0, m.learn.cursor)

	_, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, playRequestMsg{word: "Woof"}, cmd())
}

func TestLearn_FuzzyToggle(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := update(t, m, key("z"))
	assert.True(t, m.learn.fuzzy)
	require.NotNil(t, cmd)
	assert.Equal(t, statusMsg{text: "Search mode: fuzzy"}, cmd())

	m.learn.input.SetValue("bng")
	m.learn.refilter()
	assert.Equal(t, []string{"Bang"}, wordNames(m.learn.words))
}

func newTestGame(t *testing.T, data string) gameModel {
	t.Helper()
	common := &commonModel{cfg: testConfig(), catalog: parseCatalog(t, data)}
	return newGameModel(common, rand.New(rand.NewSource(7)))
}

func answerIndex(g gameModel) int {
	for i, o := range g.game.Round.Options {
		if o == g.game.Round.Answer.Word {
			return i
		}
	}
	return -1
}

func TestGame_CorrectAnswer(t *testing.T) {
	g := newTestGame(t, testCatalog)
	require.NoError(t, g.err)
	require.Len(t, g.game.Round.Options, quiz.Options)

	_, cmd := g.update(key(" "))
	require.NotNil(t, cmd)
	assert.Equal(t, playRequestMsg{word: g.game.Round.Answer.Word}, cmd())

	i := answerIndex(g)
	g, _ = g.update(key(string(rune('1' + i))))
	assert.Equal(t, 1, g.game.Score)
	assert.Equal(t, 1, g.game.Played)
	assert.Contains(t, g.view(80), "Sweet! Correct!")
	assert.Contains(t, g.view(80), "Score: 1  Played: 1")

	// A second answer does not count.
	g, _ = g.update(key(string(rune('1' + (i+1)%quiz.Options))))
	assert.Equal(t, 1, g.game.Played)

	g, cmd = g.update(key("enter"))
	assert.False(t, g.game.Round.Answered())
	require.NotNil(t, cmd)
	assert.Equal(t, playRequestMsg{word: g.game.Round.Answer.Word}, cmd())
}

func TestGame_WrongAnswer(t *testing.T) {
	g := newTestGame(t, testCatalog)

	wrong := (answerIndex(g) + 1) % quiz.Options
	g.cursor = wrong
	g, _ = g.update(key("enter"))

	assert.Equal(t, 0, g.game.Score)
	assert.Equal(t, 1, g.game.Played)
	assert.Contains(t, g.view(80), "Oops! That was '"+g.game.Round.Answer.Word+"'")
}

func TestGame_GridMovement(t *testing.T) {
	g := newTestGame(t, testCatalog)

	steps := []struct {
		key  string
		want int
	}{
		{"right", 1},
		{"right", 1},
		{"down", 3},
		{"down", 3},
		{"left", 2},
		{"up", 0},
		{"up", 0},
		{"left", 0},
	}
	for _, s := range steps {
		var msg tea.KeyMsg
		switch s.key {
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		default:
			msg = key(s.key)
		}
		g, _ = g.update(msg)
		assert.Equal(t, s.want, g.cursor, "after %s", s.key)
	}
}

func TestGame_TooFewWords(t *testing.T) {
	g := newTestGame(t, `
words:
  - {id: 1, word: Woof, category: Animal Noises}
  - {id: 2, word: Moo, category: Animal Noises}
`)
	assert.Nil(t, g.game)
	require.ErrorIs(t, g.err, quiz.ErrTooFewWords)
	assert.Contains(t, g.view(80), quiz.ErrTooFewWords.Error())

	g, cmd := g.update(key("1"))
	assert.Nil(t, cmd)

	g.common.catalog = parseCatalog(t, testCatalog)
	g.setWords(rand.New(rand.NewSource(1)))
	require.NoError(t, g.err)
	assert.NotNil(t, g.game)
}

func TestMascot_Bites(t *testing.T) {
	m := newMascotModel(rand.New(rand.NewSource(1)))
	assert.Equal(t, "( ^ ‿ ^ )", m.face())

	for i := 1; i <= maxBites; i++ {
		m.bite()
		assert.Equal(t, i, m.bites)
	}
	assert.Equal(t, surprised, m.emotion)

	m.bite()
	assert.Equal(t, 1, m.bites)

	// Timers from earlier bites are ignored.
	m, _ = m.update(mascotHealMsg{seq: m.biteSeq - 1})
	assert.Equal(t, 1, m.bites)

	m, _ = m.update(mascotCalmMsg{seq: m.biteSeq})
	assert.Equal(t, happy, m.emotion)

	m, _ = m.update(mascotHealMsg{seq: m.biteSeq})
	assert.Equal(t, 0, m.bites)
	assert.Equal(t, "_.-~~~~-._", m.frosting())
}

func TestMascot_Idle(t *testing.T) {
	m := newMascotModel(rand.New(rand.NewSource(1)))
	m, cmd := m.update(mascotIdleMsg{})
	assert.NotNil(t, cmd)
	assert.Contains(t, mascotComments, m.comment)
	assert.NotEqual(t, surprised, m.emotion)
}

func TestModel_Tabs(t *testing.T) {
	m := newTestModel(t, nil)
	assert.Equal(t, learnTab, m.tab)

	m, _ = update(t, m, key("tab"))
	assert.Equal(t, gameTab, m.tab)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, learnTab, m.tab)

	m, _ = update(t, m, key("?"))
	assert.True(t, m.showHelp)
	m, _ = update(t, m, key("tab"))
	assert.False(t, m.showHelp)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, nil)

	_, cmd := update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_PlayFlow(t *testing.T) {
	p := &fakePlayer{report: sound.Report{Tier: sound.TierRemote, Attempts: 1}}
	m := newTestModel(t, p)

	m, cmd := update(t, m, playRequestMsg{word: "Woof"})
	assert.Equal(t, 1, m.playing)
	assert.NotNil(t, cmd)

	msg := playSoundCmd(m.common.ctx, p, "Woof")()
	m, cmd = update(t, m, msg)
	assert.Equal(t, 0, m.playing)
	assert.NotNil(t, cmd)
	assert.Equal(t, "♪ Woof (fresh from the oven)", m.statusMessage)
	assert.False(t, m.statusIsError)
	assert.Equal(t, []string{"Woof"}, p.words)
}

func TestModel_StatusTimeout(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, statusMsg{text: "first"})
	first := m.statusSeq
	m, _ = update(t, m, statusMsg{text: "second", isError: true})

	m, _ = update(t, m, statusMessageTimeoutMsg{seq: first})
	assert.Equal(t, "second", m.statusMessage)
	assert.True(t, m.statusIsError)

	m, _ = update(t, m, statusMessageTimeoutMsg{seq: m.statusSeq})
	assert.Empty(t, m.statusMessage)
	assert.False(t, m.statusIsError)
}

func TestModel_CatalogReload(t *testing.T) {
	m := newTestModel(t, nil)

	smaller := parseCatalog(t, `
words:
  - {id: 1, word: Woof, category: Animal Noises}
  - {id: 2, word: Moo, category: Animal Noises}
  - {id: 3, word: Bang, category: Collision or Explosive Sounds}
  - {id: 4, word: Ding, category: Musical Sounds}
`)
	m, _ = update(t, m, catalogLoadedMsg{catalog: smaller})
	assert.Equal(t, 4, m.common.catalog.Len())
	assert.Equal(t, []string{"Woof", "Moo", "Bang", "Ding"}, wordNames(m.learn.words))
	assert.Equal(t, "Catalog reloaded (4 words)", m.statusMessage)

	m, _ = update(t, m, catalogLoadedMsg{err: errors.New("bad yaml")})
	assert.Equal(t, 4, m.common.catalog.Len())
	assert.True(t, m.statusIsError)
	assert.Contains(t, m.statusMessage, "bad yaml")
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, "Cupcake Clatter")
	assert.Contains(t, view, "Learn")
	assert.Contains(t, view, "Crunch Test")
	assert.Contains(t, view, "Woof")
	assert.Contains(t, view, "6 words")

	m, _ = update(t, m, key("tab"))
	assert.Contains(t, m.View(), "Listen to the sound and pick the most accurate word!")

	m.fatalErr = errors.New("kaboom")
	assert.Contains(t, m.View(), "kaboom")
}
