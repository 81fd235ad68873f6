package split

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/multimediallc/cl-split/internal/git"
	f "github.com/multimediallc/cl-split/pkg/functional"
)

// forceLimit is the group count above which a non-dry run requires
// explicit confirmation. Large splits have overloaded the verification
// infrastructure in the past.
const forceLimit = 10

// topReviewers is how many reviewers the final ranking lists.
const topReviewers = 5

// Result distinguishes a completed run from one the user declined to
// continue. A decline is a deliberate no-op, not an error, and maps to
// exit code 0.
type Result int

const (
	ResultOK Result = iota
	ResultDeclined
)

// PreconditionError is a fatal, non-retryable setup failure: not in a
// repository, detached HEAD, missing upstream, or an empty change set.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(prompt string) (bool, error)
}

// Options is the per-invocation configuration of a split run.
type Options struct {
	Description string
	Comment     string
	DryRun      bool
	CQDryRun    bool
	AutoSubmit  bool
	MaxDepth    int
	Topic       string
	// BranchPrefix overrides the source branch name in split branch
	// names when set.
	BranchPrefix     string
	IgnoreDirs       []string
	ExcludeReviewers []string
}

// Orchestrator drives one split: preconditions, plan construction,
// per-group branch creation and upload, and the reviewer-load summary.
// It owns the plan and the load counter for the lifetime of one Run;
// nothing is retained across invocations.
type Orchestrator struct {
	repo      *git.Repo
	suggester Suggester
	hasMarker func(dir string) bool
	uploader  *Uploader
	prompter  Prompter
	out       io.Writer
	log       *zap.Logger
}

func NewOrchestrator(
	repo *git.Repo,
	suggester Suggester,
	hasMarker func(dir string) bool,
	uploader *Uploader,
	prompter Prompter,
	out io.Writer,
	log *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		repo:      repo,
		suggester: suggester,
		hasMarker: hasMarker,
		uploader:  uploader,
		prompter:  prompter,
		out:       out,
		log:       log,
	}
}

// Run executes one split. It returns ResultDeclined with a nil error
// when the user chose not to continue, and a non-nil error for fatal
// preconditions or any underlying command failure.
func (o *Orchestrator) Run(opts Options) (Result, error) {
	if !o.repo.InRepository() {
		return ResultOK, &PreconditionError{Reason: "not in a git repository"}
	}
	sourceBranch, err := o.repo.CurrentBranch()
	if err != nil {
		return ResultOK, err
	}
	if sourceBranch == "" {
		return ResultOK, &PreconditionError{Reason: "can't run from a detached branch"}
	}
	upstream, err := o.repo.Upstream(sourceBranch)
	if err != nil {
		return ResultOK, err
	}
	if upstream == "" {
		return ResultOK, &PreconditionError{
			Reason: fmt.Sprintf("branch %s must have an upstream", sourceBranch),
		}
	}
	ancestor, err := o.repo.MergeBase(sourceBranch, upstream)
	if err != nil {
		return ResultOK, err
	}

	files, err := o.repo.CaptureStatus(ancestor)
	if err != nil {
		return ResultOK, err
	}
	files = f.Filtered(files, func(file git.ChangedFile) bool {
		for _, dir := range opts.IgnoreDirs {
			if strings.HasPrefix(file.Path, dir) {
				return false
			}
		}
		return true
	})
	if len(files) == 0 {
		fmt.Fprintln(o.out, "Cannot split an empty CL.")
		return ResultOK, &PreconditionError{Reason: "empty change set"}
	}

	description := AddUploadedByLine(opts.Description)
	if !HasBugLink(description) {
		ok, err := o.prompter.Confirm("Description does not include a bug link. Proceed? (y/n):")
		if err != nil {
			return ResultOK, err
		}
		if !ok {
			return ResultDeclined, nil
		}
	}

	author, err := o.repo.UserEmail()
	if err != nil {
		return ResultOK, err
	}

	groups := Partition(files, opts.MaxDepth, o.hasMarker)
	o.log.Debug("partitioned changed files",
		zap.Int("files", len(files)),
		zap.Int("groups", len(groups)),
		zap.Int("max_depth", opts.MaxDepth))

	assignments, err := Assign(groups, author, opts.ExcludeReviewers, o.suggester)
	if err != nil {
		return ResultOK, err
	}
	for _, assignment := range assignments {
		o.log.Debug("assignment",
			zap.Strings("directories", assignment.Directories),
			zap.Strings("reviewers", assignment.Reviewers.Names()),
			zap.Int("files", len(assignment.Files)))
	}

	numCLs := len(assignments)
	fmt.Fprintf(o.out, "Will split current branch (%s) into %d CLs.\n\n", sourceBranch, numCLs)
	if !opts.DryRun && numCLs > forceLimit {
		fmt.Fprintf(o.out,
			"This will generate %d CLs. This many CLs can potentially generate"+
				" too much load on the build infrastructure.\n\n"+
				"(You can reduce the number of CLs created by using the"+
				" --max-depth option. Pass --dry-run to examine the CLs which"+
				" will be created until you are happy with the results.)\n",
			numCLs)
		ok, err := o.prompter.Confirm("Proceed? (y/n):")
		if err != nil {
			return ResultOK, err
		}
		if !ok {
			return ResultDeclined, nil
		}
	}

	var stats map[string]git.FileStat
	if opts.DryRun {
		stats, err = o.repo.DiffStat(ancestor)
		if err != nil {
			return ResultOK, err
		}
	}

	branchPrefix := opts.BranchPrefix
	if branchPrefix == "" {
		branchPrefix = sourceBranch
	}
	uploadOpts := UploadOptions{
		BranchPrefix: branchPrefix,
		SourceBranch: sourceBranch,
		Upstream:     upstream,
		Description:  description,
		Comment:      opts.Comment,
		CQDryRun:     opts.CQDryRun,
		AutoSubmit:   opts.AutoSubmit,
		Topic:        opts.Topic,
		RepoRoot:     o.repo.Dir,
	}

	counter := NewLoadCounter()
	for index, assignment := range assignments {
		start := time.Now()
		if opts.DryRun {
			o.printPreview(index+1, numCLs, assignment, description, opts, stats)
		} else {
			if err := o.uploader.UploadOne(assignment, uploadOpts); err != nil {
				return ResultOK, err
			}
		}
		counter.Add(assignment.Reviewers.Names()...)
		o.log.Debug("processed group",
			zap.String("directories", FormatDirectories(assignment.Directories)),
			zap.Duration("elapsed", time.Since(start)))
	}

	fmt.Fprintln(o.out, "The top reviewers are:")
	for _, load := range counter.Top(topReviewers) {
		fmt.Fprintf(o.out, "    %s: %d CLs\n", load.Reviewer, load.Count)
	}

	// The working branch never left context in a dry run, but after
	// real uploads this puts the user back where they started instead
	// of on the last split branch.
	if err := o.repo.Checkout(sourceBranch); err != nil {
		return ResultOK, err
	}
	return ResultOK, nil
}

// printPreview renders one group of the dry-run plan.
func (o *Orchestrator) printPreview(index, total int, assignment *Assignment, description string, opts Options, stats map[string]git.FileStat) {
	formatted := FormatDescriptionOrComment(description, assignment.Directories)
	indented := f.Map(strings.Split(formatted, "\n"), func(line string) string {
		return "    " + line
	})

	fmt.Fprintf(o.out, "CL %d/%d\n", index, total)
	fmt.Fprintf(o.out, "Paths: %s\n", FormatDirectories(assignment.Directories))
	fmt.Fprintf(o.out, "Reviewers: %s\n", strings.Join(assignment.Reviewers.Names(), ", "))
	fmt.Fprintf(o.out, "Auto-Submit: %v\n", opts.AutoSubmit)
	fmt.Fprintf(o.out, "CQ Dry Run: %v\n", opts.CQDryRun)
	fmt.Fprintf(o.out, "Topic: %s\n", opts.Topic)
	fmt.Fprintf(o.out, "\n%s\n\n", strings.Join(indented, "\n"))
	for _, file := range assignment.Files {
		if stat, found := stats[file.Path]; found {
			fmt.Fprintf(o.out, "%s (+%d/-%d)\n", file.Path, stat.Added, stat.Removed)
		} else {
			fmt.Fprintln(o.out, file.Path)
		}
	}
	fmt.Fprintln(o.out)
}
