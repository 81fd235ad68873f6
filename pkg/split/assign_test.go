package split

import (
	"errors"
	"slices"
	"testing"

	"github.com/multimediallc/cl-split/internal/git"
)

// mockSuggester returns canned reviewer sets keyed by the first path
// of each request.
type mockSuggester struct {
	byFirstPath map[string][]string
	err         error
	excludes    [][]string
}

func (s *mockSuggester) SuggestOwners(paths []string, exclude []string) ([]string, error) {
	s.excludes = append(s.excludes, exclude)
	if s.err != nil {
		return nil, s.err
	}
	return s.byFirstPath[paths[0]], nil
}

func TestAssignMergesEqualReviewerSets(t *testing.T) {
	groups := map[string][]git.ChangedFile{
		"a": {{Action: "M", Path: "a/file1"}},
		"b": {{Action: "M", Path: "b/file2"}},
		"c": {{Action: "D", Path: "c/file3"}},
	}
	suggester := &mockSuggester{byFirstPath: map[string][]string{
		"a/file1": {"rev1@example.com", "rev2@example.com"},
		"b/file2": {"rev2@example.com", "rev1@example.com"}, // same set, different order
		"c/file3": {"rev3@example.com"},
	}}

	assignments, err := Assign(groups, "author@example.com", nil, suggester)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(assignments))
	}

	var merged *Assignment
	for _, assignment := range assignments {
		if len(assignment.Directories) == 2 {
			merged = assignment
		}
	}
	if merged == nil {
		t.Fatal("groups a and b should have merged")
	}
	if !slices.Equal(merged.Directories, []string{"a", "b"}) {
		t.Errorf("expected directories [a b], got %v", merged.Directories)
	}
	paths := make([]string, 0)
	for _, file := range merged.Files {
		paths = append(paths, file.Path)
	}
	if !slices.Equal(paths, []string{"a/file1", "b/file2"}) {
		t.Errorf("expected merged files in group order, got %v", paths)
	}
	if !slices.Equal(merged.Reviewers.Names(), []string{"rev1@example.com", "rev2@example.com"}) {
		t.Errorf("expected canonical reviewer order, got %v", merged.Reviewers.Names())
	}
}

func TestAssignExcludesAuthorAndEveryone(t *testing.T) {
	groups := map[string][]git.ChangedFile{
		"a": {{Action: "M", Path: "a/file1"}},
	}
	suggester := &mockSuggester{byFirstPath: map[string][]string{
		"a/file1": {"rev1@example.com"},
	}}

	_, err := Assign(groups, "author@example.com", []string{"bot@example.com"}, suggester)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggester.excludes) != 1 {
		t.Fatalf("expected 1 suggestion call, got %d", len(suggester.excludes))
	}
	exclude := suggester.excludes[0]
	for _, want := range []string{"author@example.com", EveryoneUser, "bot@example.com"} {
		if !slices.Contains(exclude, want) {
			t.Errorf("exclude list %v should contain %q", exclude, want)
		}
	}
}

func TestAssignPropagatesSuggesterError(t *testing.T) {
	groups := map[string][]git.ChangedFile{
		"a": {{Action: "M", Path: "a/file1"}},
	}
	suggester := &mockSuggester{err: errors.New("owners lookup failed")}

	if _, err := Assign(groups, "author@example.com", nil, suggester); err == nil {
		t.Error("expected suggester error to propagate")
	}
}

func TestAssignDeterministicOrder(t *testing.T) {
	groups := map[string][]git.ChangedFile{
		"z": {{Action: "M", Path: "z/file1"}},
		"a": {{Action: "M", Path: "a/file2"}},
		"m": {{Action: "M", Path: "m/file3"}},
	}
	suggester := &mockSuggester{byFirstPath: map[string][]string{
		"z/file1": {"zrev@example.com"},
		"a/file2": {"arev@example.com"},
		"m/file3": {"mrev@example.com"},
	}}

	first, err := Assign(groups, "author@example.com", nil, suggester)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for range 5 {
		again, err := Assign(groups, "author@example.com", nil, suggester)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(again) != len(first) {
			t.Fatal("assignment count should be stable")
		}
		for i := range again {
			if again[i].Reviewers.Key() != first[i].Reviewers.Key() {
				t.Fatal("assignment order should be stable across runs")
			}
		}
	}
}

func TestReviewerSet(t *testing.T) {
	tt := []struct {
		name     string
		names    []string
		expected string
	}{
		{"empty", nil, ""},
		{"sorted and deduplicated", []string{"b@x", "a@x", "b@x"}, "a@x,b@x"},
		{"order independent", []string{"c@x", "a@x", "b@x"}, "a@x,b@x,c@x"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			set := NewReviewerSet(tc.names...)
			if set.Key() != tc.expected {
				t.Errorf("expected key %q, got %q", tc.expected, set.Key())
			}
		})
	}

	if !NewReviewerSet().Empty() {
		t.Error("set with no names should be empty")
	}
	if NewReviewerSet("a@x").Empty() {
		t.Error("set with names should not be empty")
	}
}
