package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/clatter/internal/audio"
	"github.com/dgnsrekt/clatter/internal/cache"
	"github.com/dgnsrekt/clatter/internal/catalog"
	"github.com/dgnsrekt/clatter/internal/queue"
	"github.com/dgnsrekt/clatter/internal/sound"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	warmAll     bool
	warmWorkers int

	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the sound cache",
		Args:  cobra.NoArgs,
	}

	cachePathCmd = &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Dir)
			return err //nolint:wrapcheck
		},
	}

	cacheStatsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show how many sounds are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := cache.New(cfg.ToCacheConfig(), log.Default())
			defer c.Close() //nolint:errcheck

			disk, _, err := c.Stats()
			if err != nil {
				return err //nolint:wrapcheck
			}
			printCacheStats(cmd.OutOrStdout(), cfg.Cache.Dir, disk)
			return nil
		},
	}

	cacheClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached sound",
		Long:  paragraph(fmt.Sprintf("\n%s every cached sound. They will be generated again the next time they are played.", keyword("Delete"))),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := cache.New(cfg.ToCacheConfig(), log.Default())
			defer c.Close() //nolint:errcheck

			keys, err := c.Keys()
			if err != nil {
				return err //nolint:wrapcheck
			}
			if err := c.Clear(); err != nil {
				return err //nolint:wrapcheck
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s from %s\n", plural(len(keys), "sound"), cfg.Cache.Dir)
			return err //nolint:wrapcheck
		},
	}

	cacheWarmCmd = &cobra.Command{
		Use:     "warm [WORD...]",
		Short:   "Generate sounds ahead of time",
		Long:    paragraph(fmt.Sprintf("\n%s sounds for the given words, or the whole catalog with --all, so they play instantly later. Words that are already cached are skipped.", keyword("Generate"))),
		Example: paragraph("clatter cache warm splash woof\nclatter cache warm --all --workers 4"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !warmAll {
				return errors.New("name some words or pass --all")
			}

			synthesizer, err := newSynthesizer(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if synthesizer == nil {
				return errors.New("an API key is required to generate sounds: set GEMINI_API_KEY")
			}

			cat, err := catalog.LoadOrDefault(cfg.Catalog.File)
			if err != nil {
				return err //nolint:wrapcheck
			}

			c := cache.New(cfg.ToCacheConfig(), log.Default())
			defer c.Close() //nolint:errcheck

			player := sound.New(sound.Options{
				Cache:       c,
				Synthesizer: synthesizer,
				Output:      audio.NewMockOutput(),
				MaxRetries:  cfg.Synth.MaxRetries,
				Logger:      log.Default(),
			})

			q := warmQueue(args, cat, warmAll)
			total := q.Size()

			var failed int
			err = player.Prefetch(cmd.Context(), q, warmWorkers, func(r sound.Report) {
				if r.Tier == sound.TierNone {
					failed++
				}
				printWarmReport(cmd.OutOrStdout(), r)
			})
			if err != nil {
				return err //nolint:wrapcheck
			}

			stats := q.GetStats()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%s warmed, %d failed\n", plural(total-failed, "word"), failed)
			log.Debug("cache warm finished", "queued", stats.TotalEnqueued, "duplicates", stats.TotalDuplicates, "peak", stats.PeakSize)
			if failed > 0 {
				return fmt.Errorf("%d of %d words could not be generated", failed, total)
			}
			return nil
		},
	}
)

func init() {
	cacheWarmCmd.Flags().BoolVarP(&warmAll, "all", "a", false, "warm every word in the catalog")
	cacheWarmCmd.Flags().IntVarP(&warmWorkers, "workers", "j", 2, "words generated at the same time")

	cacheCmd.AddCommand(cachePathCmd, cacheStatsCmd, cacheClearCmd, cacheWarmCmd)
}

// warmQueue queues the named words first, then the catalog when all is set.
// The queue is closed so consumers stop once it drains.
func warmQueue(words []string, cat *catalog.Catalog, all bool) *queue.WordQueue {
	q := queue.New()
	_ = q.EnqueueBatch(words, true)
	if all {
		names := make([]string, 0, cat.Len())
		for _, w := range cat.Words() {
			names = append(names, w.Word)
		}
		_ = q.EnqueueBatch(names, false)
	}
	_ = q.Close()
	return q
}

func printWarmReport(w io.Writer, r sound.Report) {
	switch {
	case r.Tier == sound.TierCache:
		_, _ = fmt.Fprintf(w, "· %s %s\n", r.Word, subtle("already cached"))
	case r.Tier == sound.TierRemote:
		_, _ = fmt.Fprintf(w, "♪ %s %s\n", keyword(r.Word), subtle(plural(r.Attempts, "attempt")))
	default:
		_, _ = fmt.Fprintf(w, "✗ %s %v\n", r.Word, r.Err)
	}
}

func printCacheStats(w io.Writer, dir string, disk cache.Stats) {
	_, _ = fmt.Fprintf(w, "%s %s\n", keyword("Directory:"), dir)
	_, _ = fmt.Fprintf(w, "%s %s\n", keyword("Sounds:   "), humanize.Comma(disk.ItemCount))
	_, _ = fmt.Fprintf(w, "%s %s\n", keyword("Size:     "), humanize.Bytes(uint64(max(0, disk.Size)))) //nolint:gosec
	if !disk.LastAccess.IsZero() {
		_, _ = fmt.Fprintf(w, "%s %s\n", keyword("Last used:"), humanize.Time(disk.LastAccess))
	}
}
