package app

import (
	"os"
	"path/filepath"
	"time"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// treeSize sums the regular-file bytes under root. Best effort: provenance
// size is audit metadata, not an integrity check.
func treeSize(root string) int64 {
	var total int64
	_ = filepath.WalkDir(root, func(_ string, d os.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return nil //nolint:nilerr // Unreadable entries just don't count
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}
