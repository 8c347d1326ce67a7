// Package config loads clatter's settings from the config file, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/clatter/internal/audio"
	"github.com/dgnsrekt/clatter/internal/cache"
	"github.com/dgnsrekt/clatter/internal/narrate"
	"github.com/dgnsrekt/clatter/internal/synth"
)

// Config contains every clatter setting.
type Config struct {
	Synth    SynthConfig    `yaml:"synth"`
	Cache    CacheConfig    `yaml:"cache"`
	Audio    AudioConfig    `yaml:"audio"`
	Fallback FallbackConfig `yaml:"fallback"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	UI       UIConfig       `yaml:"ui"`
	Log      LogConfig      `yaml:"log"`
}

// SynthConfig configures the remote sound effect service.
type SynthConfig struct {
	APIKey            string        `yaml:"api_key"`
	Model             string        `yaml:"model"`
	Voice             string        `yaml:"voice"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	MaxRetries        int           `yaml:"max_retries"`
}

// CacheConfig configures the persistent sound cache.
type CacheConfig struct {
	Dir              string `yaml:"dir"`
	MemoryMB         int    `yaml:"memory_mb"`
	CompressionLevel int    `yaml:"compression_level"`
}

// AudioConfig configures the output device.
type AudioConfig struct {
	Mode       string        `yaml:"mode"` // auto, device or mock
	SampleRate int           `yaml:"sample_rate"`
	Channels   int           `yaml:"channels"`
	BufferSize time.Duration `yaml:"buffer_size"`
}

// FallbackConfig configures the narrators used when no sound effect is
// available.
type FallbackConfig struct {
	Piper   PiperConfig `yaml:"piper"`
	GTTS    GTTSConfig  `yaml:"gtts"`
	Command string      `yaml:"command"`
}

// PiperConfig contains Piper specific settings.
type PiperConfig struct {
	Binary     string `yaml:"binary"`
	Model      string `yaml:"model"`
	SampleRate int    `yaml:"sample_rate"`
}

// GTTSConfig contains Google Translate TTS specific settings.
type GTTSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Language string `yaml:"language"`
}

type CatalogConfig struct {
	File string `yaml:"file"`
}

// UIConfig contains display settings for the TUI and the word cards.
type UIConfig struct {
	Style  string `yaml:"style"` // glamour style name or JSON path
	Width  uint   `yaml:"width"` // word-wrap width, 0 to detect
	Mouse  bool   `yaml:"mouse"`
	Mascot bool   `yaml:"mascot"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Supported values.
var (
	validSampleRates = []int{8000, 16000, 22050, 24000, 44100, 48000}
	validModes       = []string{"auto", "device", "mock"}
)

// DefaultConfig returns a Config with sensible defaults. Paths that depend on
// the user's home are left empty and resolved by the loader.
func DefaultConfig() Config {
	return Config{
		Synth: SynthConfig{
			Model:             synth.DefaultModel,
			Voice:             synth.DefaultVoice,
			Timeout:           synth.DefaultTimeout,
			RequestsPerMinute: 10,
			MaxRetries:        synth.DefaultMaxRetries,
		},
		Cache: CacheConfig{
			MemoryMB:         16,
			CompressionLevel: 3,
		},
		Audio: AudioConfig{
			Mode:       "auto",
			SampleRate: audio.SampleRate,
			Channels:   audio.Channels,
			BufferSize: 100 * time.Millisecond,
		},
		Fallback: FallbackConfig{
			Piper: PiperConfig{
				Binary:     "piper",
				SampleRate: 22050,
			},
			GTTS: GTTSConfig{
				Language: "en",
			},
		},
		UI: UIConfig{
			Style:  styles.AutoStyle,
			Mascot: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Synth.Model) == "" {
		return fmt.Errorf("synth model cannot be empty")
	}
	if strings.TrimSpace(c.Synth.Voice) == "" {
		return fmt.Errorf("synth voice cannot be empty")
	}
	if c.Synth.Timeout < time.Second || c.Synth.Timeout > 5*time.Minute {
		return fmt.Errorf("synth timeout must be between 1s and 5m, got %v", c.Synth.Timeout)
	}
	if c.Synth.RequestsPerMinute < 0 || c.Synth.RequestsPerMinute > 1000 {
		return fmt.Errorf("synth requests_per_minute must be between 0 and 1000, got %d", c.Synth.RequestsPerMinute)
	}
	if err := ValidateRetries(c.Synth.MaxRetries); err != nil {
		return fmt.Errorf("synth max_retries %w", err)
	}

	if c.Cache.MemoryMB < 0 || c.Cache.MemoryMB > 1024 {
		return fmt.Errorf("cache memory_mb must be between 0 and 1024, got %d", c.Cache.MemoryMB)
	}
	if c.Cache.CompressionLevel < 0 || c.Cache.CompressionLevel > 22 {
		return fmt.Errorf("cache compression_level must be between 0 and 22, got %d", c.Cache.CompressionLevel)
	}

	c.Audio.Mode = strings.ToLower(c.Audio.Mode)
	if !contains(validModes, c.Audio.Mode) {
		return fmt.Errorf("invalid audio mode '%s': must be one of %v", c.Audio.Mode, validModes)
	}
	if !containsInt(validSampleRates, c.Audio.SampleRate) {
		return fmt.Errorf("invalid audio sample rate %d: must be one of %v", c.Audio.SampleRate, validSampleRates)
	}
	if c.Audio.Channels != 1 && c.Audio.Channels != 2 {
		return fmt.Errorf("audio channels must be 1 or 2, got %d", c.Audio.Channels)
	}
	if c.Audio.BufferSize < 0 || c.Audio.BufferSize > time.Second {
		return fmt.Errorf("audio buffer_size must be between 0 and 1s, got %v", c.Audio.BufferSize)
	}

	if err := c.Fallback.Piper.Validate(); err != nil {
		return fmt.Errorf("piper config: %w", err)
	}
	if err := c.Fallback.GTTS.Validate(); err != nil {
		return fmt.Errorf("gtts config: %w", err)
	}

	if c.Catalog.File != "" {
		if _, err := os.Stat(c.Catalog.File); err != nil {
			return fmt.Errorf("catalog file: %w", err)
		}
	}

	if err := ValidateStyle(c.UI.Style); err != nil {
		return err
	}
	if c.UI.Width > 500 {
		return fmt.Errorf("ui width must be at most 500, got %d", c.UI.Width)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// ValidateStyle checks if the style is a default style, if not, checks that
// the custom style exists.
func ValidateStyle(style string) error {
	if style != styles.AutoStyle && styles.DefaultStyles[style] == nil {
		style = ExpandPath(style)
		if _, err := os.Stat(style); errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("specified style does not exist: %s", style)
		} else if err != nil {
			return fmt.Errorf("unable to stat file: %w", err)
		}
	}
	return nil
}

// Validate checks if the Piper configuration is valid. An empty model
// disables Piper.
func (c *PiperConfig) Validate() error {
	if c.Model == "" {
		return nil
	}
	if c.Binary == "" {
		return fmt.Errorf("piper binary path cannot be empty")
	}
	if _, err := os.Stat(c.Model); os.IsNotExist(err) {
		return fmt.Errorf("piper model file does not exist: %s", c.Model)
	}
	if !containsInt(validSampleRates, c.SampleRate) {
		return fmt.Errorf("invalid piper sample rate %d: must be one of %v", c.SampleRate, validSampleRates)
	}
	return nil
}

// Validate checks the language code. Basic validation only.
func (c *GTTSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.Language) < 2 || len(c.Language) > 5 {
		return fmt.Errorf("language code must be 2-5 characters, got %q", c.Language)
	}
	return nil
}

// ToSynthConfig converts to the remote client configuration.
func (c *Config) ToSynthConfig() synth.Config {
	return synth.Config{
		APIKey:            c.Synth.APIKey,
		Model:             c.Synth.Model,
		Voice:             c.Synth.Voice,
		Timeout:           c.Synth.Timeout,
		RequestsPerMinute: c.Synth.RequestsPerMinute,
	}
}

// ToCacheConfig converts to the sound cache configuration.
func (c *Config) ToCacheConfig() cache.Config {
	return cache.Config{
		Dir:              c.Cache.Dir,
		MemoryCapacity:   int64(c.Cache.MemoryMB) * 1024 * 1024,
		CompressionLevel: c.Cache.CompressionLevel,
	}
}

// ToOutputConfig converts to the audio output configuration.
func (c *Config) ToOutputConfig() audio.OutputConfig {
	return audio.OutputConfig{
		SampleRate: c.Audio.SampleRate,
		Channels:   c.Audio.Channels,
		BufferSize: c.Audio.BufferSize,
	}
}

// OutputMode maps the audio mode name to an audio.Mode.
func (c *Config) OutputMode() audio.Mode {
	switch c.Audio.Mode {
	case "device":
		return audio.ModeDevice
	case "mock":
		return audio.ModeMock
	default:
		return audio.ModeAuto
	}
}

// ToNarrateConfig converts to the fallback narrator configuration.
func (c *Config) ToNarrateConfig() narrate.Config {
	return narrate.Config{
		PiperBinary:     c.Fallback.Piper.Binary,
		PiperModel:      c.Fallback.Piper.Model,
		PiperSampleRate: c.Fallback.Piper.SampleRate,
		GTTS:            c.Fallback.GTTS.Enabled,
		GTTSLanguage:    c.Fallback.GTTS.Language,
		Command:         c.Fallback.Command,
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}

// ValidateRetries checks a retry budget against synth.MaxRetriesLimit.
func ValidateRetries(n int) error {
	if n < 0 || n > synth.MaxRetriesLimit {
		return fmt.Errorf("must be between 0 and %d, got %d", synth.MaxRetriesLimit, n)
	}
	return nil
}
