package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/dgnsrekt/clatter/internal/catalog"
)

// cardRenderer caches a glamour renderer per wrap width.
type cardRenderer struct {
	style   string
	enabled bool

	width    int
	renderer *glamour.TermRenderer
}

func newCardRenderer(style string, enabled bool) *cardRenderer {
	return &cardRenderer{style: style, enabled: enabled}
}

func (c *cardRenderer) render(w catalog.Word, width int) (string, error) {
	md := w.Markdown()
	if !c.enabled || width <= 0 {
		return md, nil
	}

	if c.renderer == nil || c.width != width {
		r, err := glamour.NewTermRenderer(glamourStyle(c.style), glamour.WithWordWrap(width))
		if err != nil {
			return "", fmt.Errorf("error creating glamour renderer: %w", err)
		}
		c.renderer = r
		c.width = width
	}

	out, err := c.renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("error rendering word card: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}

// glamourStyle accepts a built-in style name or a path to a JSON style.
func glamourStyle(style string) glamour.TermRendererOption {
	if _, ok := styles.DefaultStyles[style]; ok {
		return glamour.WithStandardStyle(style)
	}
	return glamour.WithStylePath(style)
}
