package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/dgnsrekt/clatter/internal/catalog"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

var (
	wordsCategory string
	wordsFuzzy    bool
	showPlay      bool

	wordsCmd = &cobra.Command{
		Use:     "words [QUERY]",
		Short:   "List the words in the catalog",
		Example: paragraph("clatter words\nclatter words --category animal\nclatter words spl --fuzzy"),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadOrDefault(cfg.Catalog.File)
			if err != nil {
				return err //nolint:wrapcheck
			}
			category, err := matchCategory(wordsCategory)
			if err != nil {
				return err
			}

			var query string
			if len(args) == 1 {
				query = args[0]
			}
			words := findWords(cat, query, category, wordsFuzzy)
			if len(words) == 0 {
				return errors.New("no words found")
			}
			printWords(cmd.OutOrStdout(), words, int(width)) //nolint:gosec
			return nil
		},
	}

	showCmd = &cobra.Command{
		Use:     "show WORD",
		Short:   "Show the card for a word",
		Example: paragraph("clatter show splash\nclatter show woof --play"),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadOrDefault(cfg.Catalog.File)
			if err != nil {
				return err //nolint:wrapcheck
			}
			w, ok := cat.Lookup(args[0])
			if !ok {
				return fmt.Errorf("%q is not in the catalog", args[0])
			}

			out, err := renderCard(w, style, width)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprint(cmd.OutOrStdout(), out); err != nil {
				return fmt.Errorf("unable to write to writer: %w", err)
			}

			if !showPlay {
				return nil
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck
			printReport(cmd.OutOrStdout(), a.player.PlaySound(cmd.Context(), w.Word))
			return nil
		},
	}
)

func init() {
	wordsCmd.Flags().StringVarP(&wordsCategory, "category", "c", catalog.CategoryAll, "only list one category (a prefix is enough)")
	wordsCmd.Flags().BoolVarP(&wordsFuzzy, "fuzzy", "f", false, "rank words by fuzzy match instead of substring")
	showCmd.Flags().BoolVarP(&showPlay, "play", "p", false, "play the sound after showing the card")
}

// matchCategory resolves a case-insensitive category name or unique prefix.
func matchCategory(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == strings.ToLower(catalog.CategoryAll) {
		return catalog.CategoryAll, nil
	}

	var matches []string
	for _, c := range catalog.Categories {
		lc := strings.ToLower(c)
		if lc == name {
			return c, nil
		}
		if strings.HasPrefix(lc, name) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("unknown category %q", name)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("category %q is ambiguous: %s", name, strings.Join(matches, ", "))
	}
}

func findWords(cat *catalog.Catalog, query, category string, fuzzy bool) []catalog.Word {
	if !fuzzy {
		return cat.Filter(query, category)
	}
	var out []catalog.Word
	for _, w := range cat.Search(query) {
		if category == catalog.CategoryAll || w.Category == category {
			out = append(out, w)
		}
	}
	return out
}

// printWords lists words grouped by category, meanings wrapped to width.
func printWords(w io.Writer, words []catalog.Word, width int) {
	col := 0
	for _, word := range words {
		col = max(col, runewidth.StringWidth(word.Word))
	}
	const indent = 2
	avail := max(20, width-indent-col-2)

	groups := make(map[string][]catalog.Word)
	for _, word := range words {
		groups[word.Category] = append(groups[word.Category], word)
	}

	first := true
	for _, category := range catalog.Categories {
		group := groups[category]
		if len(group) == 0 {
			continue
		}
		if !first {
			_, _ = fmt.Fprintln(w)
		}
		first = false

		_, _ = fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(category))
		for _, word := range group {
			lines := strings.Split(wordwrap.String(word.Meaning, avail), "\n")
			name := runewidth.FillRight(word.Word, col)
			_, _ = fmt.Fprintf(w, "%s%s  %s\n", strings.Repeat(" ", indent), keyword(name), lines[0])
			for _, l := range lines[1:] {
				_, _ = fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", indent+col+2), l)
			}
		}
	}
}

func renderCard(w catalog.Word, style string, width uint) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithColorProfile(lipgloss.ColorProfile()),
		glamourStyle(style),
		glamour.WithWordWrap(int(width)), //nolint:gosec
	)
	if err != nil {
		return "", fmt.Errorf("unable to create renderer: %w", err)
	}

	out, err := r.Render(w.Markdown())
	if err != nil {
		return "", fmt.Errorf("unable to render markdown: %w", err)
	}
	return out, nil
}

func glamourStyle(style string) glamour.TermRendererOption {
	if style == styles.AutoStyle {
		return glamour.WithAutoStyle()
	}
	return glamour.WithStylePath(style)
}
