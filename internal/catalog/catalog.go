// Package catalog holds the onomatopoeia words the application teaches.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"
)

// Categories, in display order.
const (
	CategoryAnimals   = "Animal Noises"
	CategoryCollision = "Collision or Explosive Sounds"
	CategoryMusical   = "Musical Sounds"
	CategoryMovement  = "Movement of Water, Air, or Objects"
	CategoryHuman     = "Human Sounds"
	CategoryMisc      = "Miscellaneous"
	CategoryAll       = "All"
)

// A quiz round needs one answer and three distractors.
const minimumQuizEntries = 4

// Categories lists every category in display order.
var Categories = []string{
	CategoryAnimals,
	CategoryCollision,
	CategoryMusical,
	CategoryMovement,
	CategoryHuman,
	CategoryMisc,
}

//go:embed words.yaml
var defaultWords []byte

// Word is a single catalog entry.
type Word struct {
	ID       int    `yaml:"id"`
	Word     string `yaml:"word"`
	Meaning  string `yaml:"meaning"`
	Example  string `yaml:"example"`
	Category string `yaml:"category"`
}

// Markdown renders the word as a card: heading, category, meaning and
// example.
func (w Word) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", w.Word)
	fmt.Fprintf(&b, "*%s*\n\n", w.Category)
	if w.Meaning != "" {
		fmt.Fprintf(&b, "> %s\n\n", w.Meaning)
	}
	if w.Example != "" {
		fmt.Fprintf(&b, "**Example:** %s\n", w.Example)
	}
	return b.String()
}

// Catalog is an ordered, validated list of words.
type Catalog struct {
	words []Word
}

type catalogFile struct {
	Words []Word `yaml:"words"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultWords)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadOrDefault loads path, or returns the built-in catalog when path is
// empty.
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes and validates YAML catalog data.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := validate(f.Words); err != nil {
		return nil, err
	}
	return &Catalog{words: f.Words}, nil
}

func validate(words []Word) error {
	if len(words) == 0 {
		return errors.New("catalog has no words")
	}

	ids := make(map[int]bool, len(words))
	names := make(map[string]bool, len(words))
	for i, w := range words {
		key := strings.ToLower(strings.TrimSpace(w.Word))
		switch {
		case key == "":
			return fmt.Errorf("entry %d: word is required", i+1)
		case ids[w.ID]:
			return fmt.Errorf("entry %d: duplicate id %d", i+1, w.ID)
		case names[key]:
			return fmt.Errorf("entry %d: duplicate word %q", i+1, w.Word)
		case !IsCategory(w.Category):
			return fmt.Errorf("entry %d (%s): unknown category %q", i+1, w.Word, w.Category)
		}
		ids[w.ID] = true
		names[key] = true
	}
	return nil
}

// IsCategory reports whether name is one of the six categories.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Words returns every word in catalog order.
func (c *Catalog) Words() []Word {
	out := make([]Word, len(c.words))
	copy(out, c.words)
	return out
}

// Len returns the number of words.
func (c *Catalog) Len() int {
	return len(c.words)
}

// Filter returns the words whose word or meaning contains query,
// case-insensitively, and whose category matches. CategoryAll and the empty
// string match every category.
func (c *Catalog) Filter(query, category string) []Word {
	q := strings.ToLower(query)
	var out []Word
	for _, w := range c.words {
		if category != "" && category != CategoryAll && w.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(w.Word), q) &&
			!strings.Contains(strings.ToLower(w.Meaning), q) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Lookup finds a word by name, ignoring case and surrounding whitespace.
func (c *Catalog) Lookup(word string) (Word, bool) {
	key := strings.ToLower(strings.TrimSpace(word))
	for _, w := range c.words {
		if strings.ToLower(w.Word) == key {
			return w, true
		}
	}
	return Word{}, false
}

// wordSource adapts the catalog to fuzzy.Source.
type wordSource []Word

func (s wordSource) String(i int) string { return s[i].Word }
func (s wordSource) Len() int            { return len(s) }

// Search ranks words by fuzzy match of their spelling against query, best
// first.
func (c *Catalog) Search(query string) []Word {
	if strings.TrimSpace(query) == "" {
		return c.Words()
	}

	matches := fuzzy.FindFrom(query, wordSource(c.words))

	out := make([]Word, 0, len(matches))
	for _, m := range matches {
		out = append(out, c.words[m.Index])
	}
	return out
}

// ByCategory groups words by category in display order.
func (c *Catalog) ByCategory() map[string][]Word {
	out := make(map[string][]Word, len(Categories))
	for _, w := range c.words {
		out[w.Category] = append(out[w.Category], w)
	}
	return out
}

// CanQuiz reports whether there are enough words for a four-option round.
func (c *Catalog) CanQuiz() bool {
	return len(c.words) >= minimumQuizEntries
}
