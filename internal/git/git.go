package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ChangedFile is one row of a status diff between two revisions.
// Action is a single-letter tag (A, M, D, R, C, ...) and Path is
// repository-relative.
type ChangedFile struct {
	Action string
	Path   string
}

// ProcessError is returned when an invoked git command exits nonzero.
// It carries everything needed to report the failure at the top level.
type ProcessError struct {
	Args     []string
	Dir      string
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("git %s exited %d in %s: %s",
		strings.Join(e.Args, " "), e.ExitCode, e.Dir, strings.TrimSpace(e.Stderr))
}

// Runner invokes a git command and returns its captured stdout.
// A nonzero exit is reported as a *ProcessError.
type Runner interface {
	Run(args ...string) (string, error)
}

type execRunner struct {
	dir string
}

func NewRunner(dir string) Runner {
	return &execRunner{dir: dir}
}

func (r *execRunner) Run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return "", &ProcessError{
			Args:     args,
			Dir:      r.dir,
			ExitCode: exitCode,
			Stderr:   stderr.String(),
		}
	}
	return stdout.String(), nil
}
