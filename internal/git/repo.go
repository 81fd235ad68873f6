package git

import (
	"errors"
	"fmt"
	"strings"
)

// Repo exposes the git operations the splitter needs against one
// working copy. All commands run through the Runner so tests can
// substitute a mock.
type Repo struct {
	Dir    string
	runner Runner
}

func NewRepo(dir string) *Repo {
	return &Repo{Dir: dir, runner: NewRunner(dir)}
}

// NewRepoWithRunner is used by tests and by callers that already hold
// a Runner for the directory.
func NewRepoWithRunner(dir string, runner Runner) *Repo {
	return &Repo{Dir: dir, runner: runner}
}

func (r *Repo) Run(args ...string) (string, error) {
	return r.runner.Run(args...)
}

// InRepository reports whether Dir is inside a git working copy.
func (r *Repo) InRepository() bool {
	_, err := r.runner.Run("rev-parse")
	return err == nil
}

// CurrentBranch returns the checked-out branch name, or "" when HEAD
// is detached.
func (r *Repo) CurrentBranch() (string, error) {
	out, err := r.runner.Run("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	branch := strings.TrimSpace(out)
	if branch == "HEAD" {
		return "", nil
	}
	return branch, nil
}

// Upstream returns the tracking ref of branch, or "" when the branch
// has no upstream configured.
func (r *Repo) Upstream(branch string) (string, error) {
	out, err := r.runner.Run("rev-parse", "--abbrev-ref", branch+"@{upstream}")
	if err != nil {
		var perr *ProcessError
		if errors.As(err, &perr) && perr.ExitCode == 128 {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// MergeBase returns the common ancestor of ref and upstream. Status
// capture runs against this commit so only the branch's own changes
// are split.
func (r *Repo) MergeBase(ref, upstream string) (string, error) {
	out, err := r.runner.Run("merge-base", ref, upstream)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Branches lists local branch names.
func (r *Repo) Branches() ([]string, error) {
	out, err := r.runner.Run("for-each-ref", "--format=%(refname:short)", "refs/heads")
	if err != nil {
		return nil, err
	}
	branches := make([]string, 0)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			branches = append(branches, line)
		}
	}
	return branches, nil
}

// UserEmail returns the configured author email, or "" when unset.
func (r *Repo) UserEmail() (string, error) {
	out, err := r.runner.Run("config", "user.email")
	if err != nil {
		var perr *ProcessError
		if errors.As(err, &perr) && perr.ExitCode == 1 {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CaptureStatus lists the files changed between base and the working
// branch, in diff order. Rename and copy rows carry the destination
// path and their similarity score is dropped from the action tag.
func (r *Repo) CaptureStatus(base string) ([]ChangedFile, error) {
	out, err := r.runner.Run("diff", "--name-status", base)
	if err != nil {
		return nil, err
	}
	files := make([]ChangedFile, 0)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed status line: %q", line)
		}
		action := strings.TrimSpace(fields[0])
		// R100 / C75 style tags reduce to their leading letter.
		action = action[:1]
		// The destination path is the last field.
		files = append(files, ChangedFile{Action: action, Path: fields[len(fields)-1]})
	}
	return files, nil
}

// CheckoutNewBranch creates branch tracking upstream and checks it out.
func (r *Repo) CheckoutNewBranch(branch, upstream string) error {
	_, err := r.runner.Run("checkout", "-t", upstream, "-b", branch)
	return err
}

// Checkout switches the working copy to ref.
func (r *Repo) Checkout(ref string) error {
	_, err := r.runner.Run("checkout", ref)
	return err
}

// CheckoutFilesFrom restores paths from ref into the working tree and
// index.
func (r *Repo) CheckoutFilesFrom(ref string, paths []string) error {
	args := append([]string{"checkout", ref, "--"}, paths...)
	_, err := r.runner.Run(args...)
	return err
}

// Remove deletes paths from the working tree and index.
func (r *Repo) Remove(paths []string) error {
	args := append([]string{"rm", "--"}, paths...)
	_, err := r.runner.Run(args...)
	return err
}

// CommitFromFile commits staged changes with the message read from
// path. Reading the message from a file sidesteps shell quoting.
func (r *Repo) CommitFromFile(path string) error {
	_, err := r.runner.Run("commit", "-F", path)
	return err
}

// Push pushes branch to remote, setting the upstream ref.
func (r *Repo) Push(remote, branch string, force bool) error {
	args := []string{"push", "-u", remote, branch}
	if force {
		args = append(args, "--force")
	}
	_, err := r.runner.Run(args...)
	return err
}
