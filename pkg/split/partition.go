// Package split implements the change-list splitting engine: it
// partitions a branch's changed files into ownership-bounded groups,
// merges groups that share a reviewer set, and creates one branch and
// one uploaded change per merged group.
package split

import (
	"path"
	"strings"

	"github.com/multimediallc/cl-split/internal/git"
)

// repoRootDir is the partition key for files at the repository root
// and the base case of the upward marker walk.
const repoRootDir = "."

// Partition groups files by their nearest ownership-marker directory.
//
// Each file's directory is normalized and, when maxDepth >= 1,
// truncated to its first maxDepth segments so partition granularity is
// bounded (depth 1 means one group per top-level directory). The
// directory then walks upward until it is already a known group key,
// contains a marker, or reaches the repository root. A maxDepth below
// 1 means no limit.
func Partition(files []git.ChangedFile, maxDepth int, hasMarker func(dir string) bool) map[string][]git.ChangedFile {
	groups := make(map[string][]git.ChangedFile)
	for _, file := range files {
		dir := path.Dir(path.Clean(file.Path))
		if maxDepth >= 1 && dir != repoRootDir {
			segments := strings.Split(dir, "/")
			if len(segments) > maxDepth {
				dir = path.Join(segments[:maxDepth]...)
			}
		}
		for {
			if dir == repoRootDir {
				break
			}
			if _, known := groups[dir]; known {
				break
			}
			if hasMarker(dir) {
				break
			}
			dir = path.Dir(dir)
		}
		groups[dir] = append(groups[dir], file)
	}
	return groups
}
