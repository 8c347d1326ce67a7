package ui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/clatter/internal/catalog"
	"github.com/fsnotify/fsnotify"
)

type (
	catalogChangedMsg struct{}
	catalogLoadedMsg  struct {
		catalog *catalog.Catalog
		err     error
	}
)

// catalogWatcher reports writes to the configured catalog file.
type catalogWatcher struct {
	path    string
	watcher *fsnotify.Watcher
}

func newCatalogWatcher(path string) *catalogWatcher {
	if path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("error creating fsnotify watcher", "error", err)
		return nil
	}

	// Editors often replace the file, so watch its directory.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		log.Error("error adding dir to fsnotify watcher", "error", err)
		_ = w.Close()
		return nil
	}
	log.Info("fsnotify watching dir", "dir", dir)

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &catalogWatcher{path: abs, watcher: w}
}

// wait blocks until the catalog file changes. It is meant to run as a
// tea.Cmd and be re-issued after every change.
func (c *catalogWatcher) wait() tea.Msg {
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != c.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			log.Debug("fsnotify event", "file", event.Name, "event", event.Op)
			return catalogChangedMsg{}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return nil
			}
			log.Debug("fsnotify error", "file", c.path, "error", err)
		}
	}
}

func (c *catalogWatcher) close() {
	if c == nil {
		return
	}
	if err := c.watcher.Close(); err != nil {
		log.Error("fsnotify fail to close", "error", err)
	}
}

func loadCatalogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		c, err := catalog.Load(path)
		return catalogLoadedMsg{catalog: c, err: err}
	}
}
