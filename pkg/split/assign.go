package split

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/multimediallc/cl-split/internal/git"
	f "github.com/multimediallc/cl-split/pkg/functional"
)

// EveryoneUser is the sentinel identity meaning "anyone may approve".
// It is never a useful reviewer, so it is always excluded from
// suggestions alongside the author.
const EveryoneUser = "*"

// ReviewerSet is an order-independent, deduplicated set of reviewer
// identities. Its canonical key drives group merging: two ownership
// areas that resolve to the same set of reviewers become one change.
type ReviewerSet struct {
	names []string
}

// NewReviewerSet builds the canonical form: sorted and deduplicated.
func NewReviewerSet(names ...string) ReviewerSet {
	unique := f.RemoveDuplicates(append([]string{}, names...))
	sort.Strings(unique)
	return ReviewerSet{names: unique}
}

// Key is the canonical map key for the set. Set equality, not list
// equality, decides whether two groups merge.
func (rs ReviewerSet) Key() string {
	return strings.Join(rs.names, ",")
}

func (rs ReviewerSet) Names() []string {
	return append([]string{}, rs.names...)
}

func (rs ReviewerSet) Empty() bool {
	return len(rs.names) == 0
}

// Assignment is one logical change: the files and ownership
// directories of every partition group that resolved to Reviewers.
type Assignment struct {
	Reviewers   ReviewerSet
	Files       []git.ChangedFile
	Directories []string
}

// Suggester proposes reviewers for a set of file paths, excluding the
// given identities. Implemented by the ownership collaborator.
type Suggester interface {
	SuggestOwners(paths []string, exclude []string) ([]string, error)
}

// Assign resolves a reviewer set for every partition group and merges
// groups whose sets are identical. The author, the everyone sentinel,
// and any extra excludes are never suggested. Groups are visited in
// sorted directory order and the result is sorted by reviewer key, so
// output is deterministic for a given input.
func Assign(groups map[string][]git.ChangedFile, author string, extraExclude []string, suggester Suggester) ([]*Assignment, error) {
	dirs := make([]string, 0, len(groups))
	for dir := range groups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	exclude := append([]string{author, EveryoneUser}, extraExclude...)

	byKey := make(map[string]*Assignment)
	for _, dir := range dirs {
		files := groups[dir]
		paths := f.Map(files, func(file git.ChangedFile) string { return file.Path })
		suggested, err := suggester.SuggestOwners(paths, exclude)
		if err != nil {
			return nil, err
		}
		reviewers := NewReviewerSet(suggested...)

		// Branch names and descriptions must not contain
		// platform-specific separators.
		dir = filepath.ToSlash(dir)

		assignment, found := byKey[reviewers.Key()]
		if !found {
			assignment = &Assignment{Reviewers: reviewers}
			byKey[reviewers.Key()] = assignment
		}
		assignment.Files = append(assignment.Files, files...)
		assignment.Directories = append(assignment.Directories, dir)
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	assignments := make([]*Assignment, 0, len(keys))
	for _, key := range keys {
		assignments = append(assignments, byKey[key])
	}
	return assignments, nil
}
