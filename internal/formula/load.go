package formula

import (
	"fmt"
	"log/slog"

	"github.com/starford/tonic/internal/checksum"
	"github.com/starford/tonic/internal/storage"
)

// Load reads every formula file from store and merges them over the
// builtins. Files are applied in path order, so a later file overrides an
// earlier one for the same name. Files that fail to parse are logged and
// skipped. The returned fingerprint covers the paths and checksums of all
// files listed.
func Load(store storage.Provider, logger *slog.Logger) ([]Formula, string, error) {
	metas, err := store.List("")
	if err != nil {
		return nil, "", fmt.Errorf("formula: list files: %w", err)
	}

	formulas := Builtins()
	parts := make([]string, 0, 2*len(metas))
	for _, m := range metas {
		parts = append(parts, m.Path, m.Checksum)

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("formula: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		parsed, err := Parse(data)
		if err != nil {
			logger.Warn("formula: parse failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("formula: loaded file", slog.String("path", m.Path), slog.Int("count", len(parsed)))
		formulas = append(formulas, parsed...)
	}

	return formulas, checksum.Combine(parts...), nil
}

// Reload loads formula files into the catalog. It reports whether the
// catalog changed; an unchanged fingerprint skips the swap. Concurrent
// reloads of one catalog run one at a time.
func Reload(c *Catalog, store storage.Provider, logger *slog.Logger) (bool, error) {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	formulas, fp, err := Load(store, logger)
	if err != nil {
		return false, err
	}
	if fp == c.Fingerprint() {
		return false, nil
	}
	if err := c.Replace(formulas, fp); err != nil {
		return false, err
	}
	logger.Info("formula: catalog loaded", slog.Int("formulas", c.Len()))
	return true, nil
}
