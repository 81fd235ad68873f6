package owners

import (
	"path"
	"sort"
	"strings"

	"github.com/boyter/gocodewalker"
)

func stripRoot(root string, p string) string {
	if root == "." {
		return p
	}
	return strings.TrimPrefix(p, root+"/")
}

// UnownedFiles walks the repository and returns the files with no
// OWNERS file anywhere in their directory ancestry, sorted. When
// target is non-empty only files under it are checked.
func (c *Client) UnownedFiles(target string) ([]string, error) {
	fileListQueue := make(chan *gocodewalker.File, 100)

	walker := gocodewalker.NewFileWalker(c.root, fileListQueue)
	walker.IncludeHidden = true
	walker.ExcludeDirectory = []string{".git"}

	errChan := make(chan error)
	go func() {
		errChan <- walker.Start()
		close(errChan)
	}()

	unowned := make([]string, 0)
	for file := range fileListQueue {
		rel := stripRoot(c.root, file.Location)
		if target != "" && !strings.HasPrefix(rel, target) {
			continue
		}
		if path.Base(rel) == MarkerFile {
			continue
		}
		if !c.hasCoverage(rel) {
			unowned = append(unowned, rel)
		}
	}
	if err := <-errChan; err != nil {
		return nil, err
	}
	sort.Strings(unowned)
	return unowned, nil
}

// hasCoverage reports whether any ancestor directory of file carries a
// marker.
func (c *Client) hasCoverage(file string) bool {
	dir := path.Dir(file)
	for {
		if c.HasMarker(dir) {
			return true
		}
		if dir == repoRoot {
			return false
		}
		dir = path.Dir(dir)
	}
}
