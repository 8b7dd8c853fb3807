// Package testutil provides shared test helpers for setting up vaults and
// indexing controllers.
package testutil

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/hnp180493/gloss/internal/index"
	"github.com/hnp180493/gloss/internal/parser"
	"github.com/hnp180493/gloss/internal/storage"
)

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// TestLogger returns a quiet slog logger for tests.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// TestController creates an indexing controller over store watching folder,
// with a short debounce and cleanup registered on t.
func TestController(t *testing.T, store storage.Provider, folder string) *index.Controller {
	t.Helper()
	ctrl := index.NewController(index.New(), store, folder, parser.DividerHyphens,
		50*time.Millisecond, TestLogger(), nil)
	t.Cleanup(ctrl.Close)
	return ctrl
}
