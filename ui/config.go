package ui

// Config contains TUI-specific configuration.
type Config struct {
	GlamourMaxWidth uint
	GlamourStyle    string `env:"GLAMOUR_STYLE" envDefault:"auto"`
	EnableMouse     bool

	// CatalogFile is reloaded when it changes on disk. Empty means the
	// built-in catalog is in use.
	CatalogFile string

	ShowMascot bool `env:"CLATTER_MASCOT" envDefault:"true"`

	// For debugging the UI
	GlamourEnabled bool `env:"CLATTER_ENABLE_GLAMOUR" envDefault:"true"`
}
