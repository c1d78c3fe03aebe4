package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/syncwatch-cli/syncwatch/filesystem"
	"github.com/syncwatch-cli/syncwatch/log"
	"github.com/syncwatch-cli/syncwatch/where"
)

// StaleAfter is the age past which a cached listing file is deleted outright.
const StaleAfter = 7 * 24 * time.Hour

// Prune removes cached listing files in dir that were last written more than olderThan ago.
func Prune(dir string, olderThan time.Duration) (removed int, err error) {
	fs := filesystem.API()

	err = fs.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		name := filepath.Base(path)
		if !strings.HasPrefix(name, "catalog-") || filepath.Ext(name) != ".json" {
			return nil
		}

		if time.Since(info.ModTime()) > olderThan {
			if err := fs.Remove(path); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}

// CollectGarbage prunes stale listings from the cache directory.
func CollectGarbage() {
	removed, err := Prune(where.Cache(), StaleAfter)
	if err != nil {
		log.Warnf("catalog: prune cache: %v", err)
		return
	}
	if removed > 0 {
		log.Debugf("catalog: pruned %d stale listings", removed)
	}
}
