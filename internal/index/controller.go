package index

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hnp180493/gloss/internal/models"
	"github.com/hnp180493/gloss/internal/parser"
	"github.com/hnp180493/gloss/internal/storage"
)

// EventCallback is called after a controller-driven index change.
// kind is one of "indexed", "removed", "reloaded".
type EventCallback func(kind string, path string)

// Controller owns the index and orchestrates its lifecycle: full reloads of
// the definition folder, per-file incremental updates, debounced scheduling
// for change bursts, and usage search across the rest of the vault.
type Controller struct {
	ix     *Index
	store  storage.Provider
	logger *slog.Logger
	cb     EventCallback

	debounce *debouncer

	// reloadMu serializes full reloads; a reload arriving while another is
	// in flight waits its turn rather than interleaving writes.
	reloadMu sync.Mutex

	// cfgMu guards folder and pattern, which a Reconfigure may swap.
	cfgMu   sync.RWMutex
	folder  string
	pattern parser.DividerPattern
}

// NewController creates a controller for the given definition folder
// (relative to the vault root).
func NewController(ix *Index, store storage.Provider, folder string, pattern parser.DividerPattern, debounce time.Duration, logger *slog.Logger, cb EventCallback) *Controller {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Controller{
		ix:       ix,
		store:    store,
		logger:   logger,
		cb:       cb,
		debounce: newDebouncer(debounce),
		folder:   filepath.ToSlash(filepath.Clean(folder)),
		pattern:  pattern,
	}
}

// Index exposes the read-only lookup surface.
func (c *Controller) Index() Querier { return c.ix }

// Folder returns the configured definition folder (vault-relative).
func (c *Controller) Folder() string {
	c.cfgMu.RLock()
	defer c.cfgMu.RUnlock()
	return c.folder
}

// DividerPattern returns the configured consolidated block divider pattern.
func (c *Controller) DividerPattern() parser.DividerPattern {
	c.cfgMu.RLock()
	defer c.cfgMu.RUnlock()
	return c.pattern
}

// InScope reports whether a vault-relative path lies within the definition
// folder. The path is cleaned first so dot and parent segments cannot fake
// the folder prefix.
func (c *Controller) InScope(path string) bool {
	folder := c.Folder()
	path = filepath.ToSlash(filepath.Clean(filepath.FromSlash(path)))
	if folder == "." || folder == "" {
		return true
	}
	return path == folder || strings.HasPrefix(path, folder+"/")
}

// Reload rebuilds the whole index from the definition folder. It always
// starts from empty: a missing or unreadable folder is reported and leaves
// the index cleared, never partially populated.
func (c *Controller) Reload() error {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	folder := c.Folder()
	metas, err := c.store.List(folder)
	if err != nil {
		c.logger.Warn("reload: definition folder unavailable",
			slog.String("folder", folder),
			slog.String("error", err.Error()))
		c.ix.Clear()
		return nil
	}

	var all []models.Definition
	for _, m := range metas {
		data, readErr := c.store.Read(m.Path)
		if readErr != nil {
			c.logger.Warn("reload: read failed", slog.String("path", m.Path), slog.String("error", readErr.Error()))
			continue
		}
		all = append(all, c.parseFile(m.Path, data)...)
	}

	c.ix.Rebuild(all)
	c.logger.Info("reload: index rebuilt",
		slog.String("folder", folder),
		slog.Int("definitions", c.ix.Len()),
		slog.Int("files", len(metas)))
	if c.cb != nil {
		c.cb("reloaded", folder)
	}
	return nil
}

// ScheduleReload coalesces a burst of change events into one trailing-edge
// reload: the last schedule within the window wins.
func (c *Controller) ScheduleReload() {
	c.debounce.Schedule(func() {
		if err := c.Reload(); err != nil {
			c.logger.Warn("scheduled reload failed", slog.String("error", err.Error()))
		}
	})
}

// IndexFile evicts a file's previous contribution and reinserts its freshly
// parsed definitions. Used by the write path after a successful save.
func (c *Controller) IndexFile(path string, data []byte) {
	path = filepath.ToSlash(path)
	defs := c.parseFile(path, data)
	c.ix.AddFile(path, defs)
	c.logger.Debug("indexed", slog.String("path", path), slog.Int("definitions", len(defs)))
	if c.cb != nil {
		c.cb("indexed", path)
	}
}

// Evict removes a file's definitions without reinserting, as on delete or a
// rename that moved the file out of scope.
func (c *Controller) Evict(path string) {
	path = filepath.ToSlash(path)
	c.ix.RemoveFile(path)
	c.logger.Debug("evicted", slog.String("path", path))
	if c.cb != nil {
		c.cb("removed", path)
	}
}

// Reconfigure swaps the definition folder and/or divider pattern and
// triggers a full clear-and-rebuild.
func (c *Controller) Reconfigure(folder string, pattern parser.DividerPattern) error {
	c.cfgMu.Lock()
	c.folder = filepath.ToSlash(filepath.Clean(folder))
	if pattern.Valid() {
		c.pattern = pattern
	}
	c.cfgMu.Unlock()
	return c.Reload()
}

// Close cancels any pending debounced reload.
func (c *Controller) Close() {
	c.debounce.Stop()
}

// parseFile classifies a document by its def-type frontmatter key and routes
// it to the matching parser. Unrecognised or absent def-type means
// consolidated, the backward-compatible default.
func (c *Controller) parseFile(path string, data []byte) []models.Definition {
	fm := parser.Frontmatter(data)
	if parser.DefType(fm) == "atomic" {
		d := parser.ParseAtomic(path, data)
		if d.Phrase == "" {
			return nil
		}
		return []models.Definition{d}
	}
	return parser.ParseConsolidated(data, path, c.DividerPattern())
}
