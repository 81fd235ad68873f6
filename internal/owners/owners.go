// Package owners implements reviewer suggestion from OWNERS marker
// files: one identity per line, per-file glob rules, and one level of
// file:// indirection.
package owners

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	f "github.com/multimediallc/cl-split/pkg/functional"
)

// MarkerFile is the ownership marker searched for in each directory.
const MarkerFile = "OWNERS"

// EveryoneUser in an OWNERS file means any committer may approve.
const EveryoneUser = "*"

const repoRoot = "."

type perFileRule struct {
	pattern string
	owners  []string
}

type rules struct {
	owners  []string
	perFile []perFileRule
}

// Client resolves reviewer suggestions against the OWNERS files of one
// repository checkout. Parsed files are cached for the lifetime of the
// client.
type Client struct {
	root          string
	cache         map[string]*rules
	warningWriter io.Writer
}

func NewClient(root string, warningWriter io.Writer) *Client {
	if warningWriter == nil {
		warningWriter = io.Discard
	}
	return &Client{
		root:          root,
		cache:         make(map[string]*rules),
		warningWriter: warningWriter,
	}
}

// HasMarker reports whether the repository-relative directory contains
// an OWNERS file. This is the partition boundary predicate.
func (c *Client) HasMarker(dir string) bool {
	info, err := os.Stat(filepath.Join(c.root, filepath.FromSlash(dir), MarkerFile))
	return err == nil && !info.IsDir()
}

// SuggestOwners returns the union of candidate reviewers for paths,
// from each path's nearest OWNERS file, minus the excluded identities.
// The result is deduplicated and sorted; files with no OWNERS coverage
// contribute nothing.
func (c *Client) SuggestOwners(paths []string, exclude []string) ([]string, error) {
	excluded := f.NewSet[string]()
	for _, name := range exclude {
		excluded.Add(name)
	}

	suggested := make([]string, 0)
	for _, p := range paths {
		owners, err := c.ownersFor(path.Clean(filepath.ToSlash(p)))
		if err != nil {
			return nil, err
		}
		suggested = append(suggested, owners...)
	}
	suggested = f.Filtered(f.RemoveDuplicates(suggested), func(name string) bool {
		return name != "" && !excluded.Contains(name)
	})
	sort.Strings(suggested)
	return suggested, nil
}

// ownersFor resolves one file against its nearest marker directory.
func (c *Client) ownersFor(file string) ([]string, error) {
	dir := path.Dir(file)
	for {
		if c.HasMarker(dir) {
			r, err := c.rulesFor(dir)
			if err != nil {
				return nil, err
			}
			return r.ownersOf(relativeTo(dir, file)), nil
		}
		if dir == repoRoot {
			return nil, nil
		}
		dir = path.Dir(dir)
	}
}

// ownersOf returns the plain owners plus the owners of every per-file
// rule matching the marker-relative path.
func (r *rules) ownersOf(rel string) []string {
	owners := append([]string{}, r.owners...)
	for _, rule := range r.perFile {
		if ok, err := doublestar.Match(rule.pattern, rel); err == nil && ok {
			owners = append(owners, rule.owners...)
		}
	}
	return owners
}

func relativeTo(dir, file string) string {
	if dir == repoRoot {
		return file
	}
	return strings.TrimPrefix(file, dir+"/")
}

func (c *Client) rulesFor(dir string) (*rules, error) {
	if cached, found := c.cache[dir]; found {
		return cached, nil
	}
	parsed, err := c.parse(filepath.Join(c.root, filepath.FromSlash(dir), MarkerFile), true)
	if err != nil {
		return nil, err
	}
	c.cache[dir] = parsed
	return parsed, nil
}

// parse reads one OWNERS file. followIndirection is cleared when
// resolving a file:// reference so indirection stays one level deep.
func (c *Client) parse(markerPath string, followIndirection bool) (*rules, error) {
	file, err := os.Open(markerPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	parsed := &rules{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if comment := strings.Index(line, "#"); comment >= 0 {
			line = strings.TrimSpace(line[:comment])
		}
		switch {
		case line == "set noparent":
			// The suggestion walk stops at the nearest marker anyway.
		case strings.HasPrefix(line, "per-file "):
			rule, ok := parsePerFile(line)
			if !ok {
				fmt.Fprintf(c.warningWriter, "WARNING: invalid per-file line in %s: %s\n", markerPath, line)
				continue
			}
			parsed.perFile = append(parsed.perFile, rule)
		case strings.HasPrefix(line, "file://"):
			if !followIndirection {
				continue
			}
			referenced, err := c.parse(filepath.Join(c.root, filepath.FromSlash(strings.TrimPrefix(line, "file://"))), false)
			if err != nil {
				fmt.Fprintf(c.warningWriter, "WARNING: unresolvable reference in %s: %s\n", markerPath, line)
				continue
			}
			parsed.owners = append(parsed.owners, referenced.owners...)
		default:
			parsed.owners = append(parsed.owners, strings.Fields(line)[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	parsed.owners = f.RemoveDuplicates(parsed.owners)
	return parsed, nil
}

func parsePerFile(line string) (perFileRule, bool) {
	spec := strings.TrimPrefix(line, "per-file ")
	pattern, ownerList, found := strings.Cut(spec, "=")
	if !found {
		return perFileRule{}, false
	}
	pattern = strings.TrimSpace(pattern)
	owners := make([]string, 0)
	for _, owner := range strings.Split(ownerList, ",") {
		owner = strings.TrimSpace(owner)
		if owner != "" {
			owners = append(owners, owner)
		}
	}
	if pattern == "" || len(owners) == 0 {
		return perFileRule{}, false
	}
	return perFileRule{pattern: pattern, owners: owners}, true
}
