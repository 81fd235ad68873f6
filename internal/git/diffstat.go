package git

import (
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// FileStat is the added/removed line count for one changed file,
// shown in dry-run previews.
type FileStat struct {
	Path    string
	Added   int
	Removed int
}

// DiffStat parses the diff between base and the working branch into
// per-file line counts. Hunk context is suppressed (-U0) so the counts
// reflect only real additions and removals.
func (r *Repo) DiffStat(base string) (map[string]FileStat, error) {
	out, err := r.runner.Run("diff", "-U0", base)
	if err != nil {
		return nil, err
	}
	fileDiffs, err := diff.ParseMultiFileDiff([]byte(out))
	if err != nil {
		return nil, err
	}

	stats := make(map[string]FileStat, len(fileDiffs))
	for _, fd := range fileDiffs {
		name := strings.TrimPrefix(fd.NewName, "b/")
		if fd.NewName == "/dev/null" {
			name = strings.TrimPrefix(fd.OrigName, "a/")
		}
		stat := FileStat{Path: name}
		for _, hunk := range fd.Hunks {
			stat.Added += int(hunk.NewLines)
			stat.Removed += int(hunk.OrigLines)
		}
		stats[name] = stat
	}
	return stats, nil
}
