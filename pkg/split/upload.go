package split

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/multimediallc/cl-split/internal/git"
)

// actionDeleted is the status tag for files removed by the change.
const actionDeleted = "D"

// UploadRequest describes one change handed to the upload provider.
// The split branch is already checked out and committed when Upload is
// called.
type UploadRequest struct {
	Branch    string
	Base      string
	Title     string
	Body      string
	Reviewers []string
	Force     bool
	CQDryRun  bool
	// SendMail is set only when no follow-up comment will be posted,
	// to avoid duplicate notifications.
	SendMail   bool
	AutoSubmit bool
	Topic      string
}

// Provider uploads the current branch as a review and posts follow-up
// comments on the most recently uploaded change.
type Provider interface {
	Upload(req UploadRequest) error
	AddComment(body string) error
}

// UploadOptions is per-run configuration shared by every group.
type UploadOptions struct {
	// BranchPrefix names split branches: prefix + "_" + dir + "_split".
	BranchPrefix string
	// SourceBranch holds the full change being split.
	SourceBranch string
	// Upstream is the tracking ref split branches are created from.
	Upstream    string
	Description string
	Comment     string
	CQDryRun    bool
	AutoSubmit  bool
	Topic       string
	RepoRoot    string
}

// Uploader creates one isolated branch and one uploaded change per
// assignment.
type Uploader struct {
	repo     *git.Repo
	provider Provider
	out      io.Writer
}

func NewUploader(repo *git.Repo, provider Provider, out io.Writer) *Uploader {
	return &Uploader{repo: repo, provider: provider, out: out}
}

// BranchName derives the split branch name for a group from its first
// ownership directory.
func BranchName(prefix string, directories []string) string {
	return prefix + "_" + directories[0] + "_split"
}

// UploadOne creates the branch for assignment, applies only its files,
// commits, and uploads. A branch that already exists is skipped with a
// notice so interrupted runs can resume. Upload failures are
// recoverable and only produce guidance; any git failure aborts.
func (u *Uploader) UploadOne(assignment *Assignment, opts UploadOptions) error {
	branch := BranchName(opts.BranchPrefix, assignment.Directories)
	existing, err := u.repo.Branches()
	if err != nil {
		return err
	}
	if slices.Contains(existing, branch) {
		fmt.Fprintf(u.out, "Skipping %s for which a branch already exists.\n",
			FormatDirectories(assignment.Directories))
		return nil
	}
	if err := u.repo.CheckoutNewBranch(branch, opts.Upstream); err != nil {
		return err
	}

	deleted := make([]string, 0)
	modified := make([]string, 0)
	for _, file := range assignment.Files {
		abspath := filepath.Join(opts.RepoRoot, file.Path)
		if file.Action == actionDeleted {
			deleted = append(deleted, abspath)
		} else {
			modified = append(modified, abspath)
		}
	}
	if len(deleted) > 0 {
		if err := u.repo.Remove(deleted); err != nil {
			return err
		}
	}
	if len(modified) > 0 {
		if err := u.repo.CheckoutFilesFrom(opts.SourceBranch, modified); err != nil {
			return err
		}
	}

	description := FormatDescriptionOrComment(opts.Description, assignment.Directories)
	if err := u.commit(description); err != nil {
		return err
	}

	fmt.Fprintf(u.out, "Uploading CL for %s...\n", FormatDirectories(assignment.Directories))
	req := UploadRequest{
		Branch:     branch,
		Base:       opts.Upstream,
		Title:      firstLine(description),
		Body:       description,
		Reviewers:  assignment.Reviewers.Names(),
		Force:      true,
		CQDryRun:   opts.CQDryRun,
		SendMail:   opts.Comment == "",
		AutoSubmit: opts.AutoSubmit,
		Topic:      opts.Topic,
	}
	if err := u.provider.Upload(req); err != nil {
		fmt.Fprintln(u.out, "Uploading failed.")
		fmt.Fprintln(u.out, "Note: cl-split has built-in resume capabilities.")
		fmt.Fprintf(u.out, "Delete %s then run cl-split again to resume uploading.\n", branch)
	}

	if opts.Comment != "" {
		comment := FormatDescriptionOrComment(opts.Comment, assignment.Directories)
		if err := u.provider.AddComment(comment); err != nil {
			return err
		}
	}
	return nil
}

// commit writes the description to a transient file and commits from
// it, avoiding shell-quoting hazards. The file is removed on every
// exit path.
func (u *Uploader) commit(description string) error {
	tmp, err := os.CreateTemp("", "clsplit-*.txt")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(description); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return u.repo.CommitFromFile(tmp.Name())
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
