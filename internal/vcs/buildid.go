package vcs

import (
	"fmt"
	"time"
)

// BuildID derives the cache-busting identifier substituted into the web UI
// entry file: <shortHash>[-dirty]-<MMDD-HHMM>. The timestamp makes the
// identifier unique per build so browsers drop stale cached assets even when
// the commit has not changed. Falls back to "dev" in place of the hash when
// source control is unavailable.
func BuildID(repo Repository, now time.Time) string {
	base := "dev"
	if hash, err := repo.ShortHash(); err == nil && hash != "" {
		base = hash
	}
	if dirty, err := repo.IsDirty(); err == nil && dirty {
		base += "-dirty"
	}
	return fmt.Sprintf("%s-%s", base, now.Format("0102-1504"))
}
