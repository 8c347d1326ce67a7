package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Name is the config file base name and the environment prefix.
const Name = "clatter"

// SetDefaults sets default values in v for every key.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("synth.model", d.Synth.Model)
	v.SetDefault("synth.voice", d.Synth.Voice)
	v.SetDefault("synth.timeout", d.Synth.Timeout.String())
	v.SetDefault("synth.requests_per_minute", d.Synth.RequestsPerMinute)
	v.SetDefault("synth.max_retries", d.Synth.MaxRetries)

	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.memory_mb", d.Cache.MemoryMB)
	v.SetDefault("cache.compression_level", d.Cache.CompressionLevel)

	v.SetDefault("audio.mode", d.Audio.Mode)
	v.SetDefault("audio.sample_rate", d.Audio.SampleRate)
	v.SetDefault("audio.channels", d.Audio.Channels)
	v.SetDefault("audio.buffer_size", d.Audio.BufferSize.String())

	v.SetDefault("fallback.piper.binary", d.Fallback.Piper.Binary)
	v.SetDefault("fallback.piper.model", "")
	v.SetDefault("fallback.piper.sample_rate", d.Fallback.Piper.SampleRate)
	v.SetDefault("fallback.gtts.enabled", d.Fallback.GTTS.Enabled)
	v.SetDefault("fallback.gtts.language", d.Fallback.GTTS.Language)
	v.SetDefault("fallback.command", "")

	v.SetDefault("catalog.file", "")
	v.SetDefault("ui.style", d.UI.Style)
	v.SetDefault("ui.width", d.UI.Width)
	v.SetDefault("ui.mouse", d.UI.Mouse)
	v.SetDefault("ui.mascot", d.UI.Mascot)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", "")
}

// BindEnv makes CLATTER_SYNTH_MODEL and friends override file values. The
// API key is also read from GEMINI_API_KEY and GOOGLE_API_KEY.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(Name)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("synth.api_key", "CLATTER_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY")
}

// Load reads the configuration from v, expands paths and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()

	if v.IsSet("synth.api_key") {
		cfg.Synth.APIKey = strings.TrimSpace(v.GetString("synth.api_key"))
	}
	if v.IsSet("synth.model") {
		cfg.Synth.Model = v.GetString("synth.model")
	}
	if v.IsSet("synth.voice") {
		cfg.Synth.Voice = v.GetString("synth.voice")
	}
	if v.IsSet("synth.timeout") {
		cfg.Synth.Timeout = v.GetDuration("synth.timeout")
	}
	if v.IsSet("synth.requests_per_minute") {
		cfg.Synth.RequestsPerMinute = v.GetInt("synth.requests_per_minute")
	}
	if v.IsSet("synth.max_retries") {
		cfg.Synth.MaxRetries = v.GetInt("synth.max_retries")
	}

	if v.IsSet("cache.dir") {
		cfg.Cache.Dir = v.GetString("cache.dir")
	}
	if v.IsSet("cache.memory_mb") {
		cfg.Cache.MemoryMB = v.GetInt("cache.memory_mb")
	}
	if v.IsSet("cache.compression_level") {
		cfg.Cache.CompressionLevel = v.GetInt("cache.compression_level")
	}

	if v.IsSet("audio.mode") {
		cfg.Audio.Mode = v.GetString("audio.mode")
	}
	if v.IsSet("audio.sample_rate") {
		cfg.Audio.SampleRate = v.GetInt("audio.sample_rate")
	}
	if v.IsSet("audio.channels") {
		cfg.Audio.Channels = v.GetInt("audio.channels")
	}
	if v.IsSet("audio.buffer_size") {
		cfg.Audio.BufferSize = v.GetDuration("audio.buffer_size")
	}

	if v.IsSet("fallback.piper.binary") {
		cfg.Fallback.Piper.Binary = v.GetString("fallback.piper.binary")
	}
	if v.IsSet("fallback.piper.model") {
		cfg.Fallback.Piper.Model = v.GetString("fallback.piper.model")
	}
	if v.IsSet("fallback.piper.sample_rate") {
		cfg.Fallback.Piper.SampleRate = v.GetInt("fallback.piper.sample_rate")
	}
	if v.IsSet("fallback.gtts.enabled") {
		cfg.Fallback.GTTS.Enabled = v.GetBool("fallback.gtts.enabled")
	}
	if v.IsSet("fallback.gtts.language") {
		cfg.Fallback.GTTS.Language = v.GetString("fallback.gtts.language")
	}
	if v.IsSet("fallback.command") {
		cfg.Fallback.Command = v.GetString("fallback.command")
	}

	if v.IsSet("catalog.file") {
		cfg.Catalog.File = v.GetString("catalog.file")
	}
	if v.IsSet("ui.style") {
		cfg.UI.Style = v.GetString("ui.style")
	}
	if v.IsSet("ui.width") {
		cfg.UI.Width = v.GetUint("ui.width")
	}
	if v.IsSet("ui.mouse") {
		cfg.UI.Mouse = v.GetBool("ui.mouse")
	}
	if v.IsSet("ui.mascot") {
		cfg.UI.Mascot = v.GetBool("ui.mascot")
	}
	if v.IsSet("log.level") {
		cfg.Log.Level = v.GetString("log.level")
	}
	if v.IsSet("log.file") {
		cfg.Log.File = v.GetString("log.file")
	}

	if err := cfg.resolvePaths(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) resolvePaths() error {
	c.Fallback.Piper.Model = ExpandPath(c.Fallback.Piper.Model)
	c.Catalog.File = ExpandPath(c.Catalog.File)
	c.Log.File = ExpandPath(c.Log.File)

	if c.Cache.Dir == "" {
		dir, err := CacheDir()
		if err != nil {
			return fmt.Errorf("unable to find cache directory: %w", err)
		}
		c.Cache.Dir = filepath.Join(dir, "sounds")
	} else {
		c.Cache.Dir = ExpandPath(c.Cache.Dir)
	}

	if c.Log.File == "" {
		p, err := LogPath()
		if err != nil {
			return fmt.Errorf("unable to find log directory: %w", err)
		}
		c.Log.File = p
	}
	return nil
}

// ReadInConfig points v at the first clatter.yml found in the config dirs and
// reads it. A missing file is not an error; the returned path is where a new
// file should be written.
func ReadInConfig(v *viper.Viper) (string, error) {
	dirs, err := ConfigDirs()
	if err != nil {
		return "", err
	}
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	v.SetConfigName(Name)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return "", fmt.Errorf("could not parse configuration file: %w", err)
		}
	}
	if used := v.ConfigFileUsed(); used != "" {
		return used, nil
	}
	return filepath.Join(dirs[0], Name+".yml"), nil
}

// EnsureFile writes the commented default configuration to file if it does
// not exist yet.
func EnsureFile(file string) error {
	if ext := path.Ext(file); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(file)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(DefaultFile); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}

// DefaultFile is the content of a freshly created config file.
const DefaultFile = `# clatter configuration

# Sound effects generated by Gemini. Set GEMINI_API_KEY (or GOOGLE_API_KEY)
# in the environment instead of storing the key here.
synth:
  # api_key: ""
  model: "gemini-2.5-flash-preview-tts"
  voice: "Kore"
  timeout: "30s"
  # Client-side throttle, 0 disables it
  requests_per_minute: 10
  # Retries after a quota error (waits 1s, 2s, 4s, ...)
  max_retries: 3

# Generated sounds are kept here forever
cache:
  # dir: "~/.cache/clatter/sounds"
  memory_mb: 16
  # zstd level, 0 disables compression
  compression_level: 3

audio:
  # auto, device or mock
  mode: "auto"
  sample_rate: 24000
  channels: 1
  buffer_size: "100ms"

# Spoken fallback when no sound effect is available
fallback:
  piper:
    binary: "piper"
    # model: "~/.local/share/piper/en_US-lessac-medium.onnx"
    sample_rate: 22050
  gtts:
    enabled: false
    language: "en"
  # espeak-ng, espeak, say or spd-say; empty picks the first one found
  command: ""

catalog:
  # A YAML word list replacing the built-in one
  # file: "~/words.yml"

ui:
  # style name or JSON path (default "auto")
  style: "auto"
  # word-wrap at width, 0 to fit the terminal
  width: 0
  # mouse wheel support in the TUI
  mouse: false
  # the cupcake in the corner
  mascot: true

log:
  # debug, info, warn or error
  level: "info"
  # file: "~/.cache/clatter/clatter.log"
`
