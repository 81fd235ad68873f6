// Package upload provides the command-backed upload collaborator: the
// configured upload command runs against the checked-out split branch
// with flags built from the request.
package upload

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/multimediallc/cl-split/pkg/split"
)

// CommandProvider shells out to an external upload command, `git cl
// upload` style. It satisfies split.Provider.
type CommandProvider struct {
	dir            string
	command        []string
	commentCommand []string
}

func NewCommandProvider(dir string, command, commentCommand []string) *CommandProvider {
	return &CommandProvider{
		dir:            dir,
		command:        command,
		commentCommand: commentCommand,
	}
}

// Args builds the flag list for one request: force always, reviewers
// when present, then the optional dry-run, send-mail, auto-submit and
// topic flags.
func Args(req split.UploadRequest) []string {
	args := []string{"-f"}
	if len(req.Reviewers) > 0 {
		reviewers := append([]string{}, req.Reviewers...)
		sort.Strings(reviewers)
		args = append(args, "-r", strings.Join(reviewers, ","))
	}
	if req.CQDryRun {
		args = append(args, "--cq-dry-run")
	}
	if req.SendMail {
		args = append(args, "--send-mail")
	}
	if req.AutoSubmit {
		args = append(args, "--enable-auto-submit")
	}
	if req.Topic != "" {
		args = append(args, fmt.Sprintf("--topic=%s", req.Topic))
	}
	return args
}

func (p *CommandProvider) Upload(req split.UploadRequest) error {
	return p.run(append(append([]string{}, p.command...), Args(req)...))
}

func (p *CommandProvider) AddComment(body string) error {
	return p.run(append(append([]string{}, p.commentCommand...), body))
}

func (p *CommandProvider) run(argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = p.dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}
