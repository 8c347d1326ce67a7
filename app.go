package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/clatter/internal/audio"
	"github.com/dgnsrekt/clatter/internal/cache"
	"github.com/dgnsrekt/clatter/internal/catalog"
	"github.com/dgnsrekt/clatter/internal/config"
	"github.com/dgnsrekt/clatter/internal/narrate"
	"github.com/dgnsrekt/clatter/internal/sound"
	"github.com/dgnsrekt/clatter/internal/synth"
)

// app holds what the sound playing commands share: one audio output, one
// cache and the player built on them.
type app struct {
	cfg     config.Config
	catalog *catalog.Catalog
	cache   *cache.SoundCache
	out     audio.Output
	player  *sound.Player
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	cat, err := catalog.LoadOrDefault(cfg.Catalog.File)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	synthesizer, err := newSynthesizer(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger := log.Default()
	out, err := audio.NewOutput(cfg.OutputMode(), cfg.ToOutputConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("unable to open audio output: %w", err)
	}

	sounds := cache.New(cfg.ToCacheConfig(), logger)
	player := sound.New(sound.Options{
		Cache:       sounds,
		Synthesizer: synthesizer,
		Output:      out,
		Narrator:    narrate.Build(cfg.ToNarrateConfig(), out, logger),
		MaxRetries:  cfg.Synth.MaxRetries,
		Logger:      logger,
	})

	return &app{
		cfg:     cfg,
		catalog: cat,
		cache:   sounds,
		out:     out,
		player:  player,
	}, nil
}

// newSynthesizer returns the remote client, or nil when no API key is set.
func newSynthesizer(ctx context.Context, cfg config.Config) (synth.Synthesizer, error) {
	client, err := synth.NewClient(ctx, cfg.ToSynthConfig(), log.Default())
	if errors.Is(err, synth.ErrNoAPIKey) {
		log.Warn("No API key set, words will be narrated instead of played")
		return nil, nil
	}
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return client, nil
}

func (a *app) Close() error {
	return errors.Join(a.cache.Close(), a.out.Close())
}
