// Package gh is the GitHub-backed upload collaborator: each split
// branch is pushed and opened as a pull request, with reviewers
// requested through the API.
package gh

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/go-github/v84/github"

	"github.com/multimediallc/cl-split/internal/git"
	"github.com/multimediallc/cl-split/pkg/split"
)

// NoChangeError is returned from AddComment before any upload has
// created a pull request to comment on.
type NoChangeError struct{}

func (e NoChangeError) Error() string {
	return "no uploaded change to comment on"
}

const remote = "origin"

// Client implements split.Provider against the GitHub API.
type Client struct {
	ctx        context.Context
	owner      string
	repo       string
	client     *github.Client
	gitRepo    *git.Repo
	lastNumber int
	out        io.Writer
}

func NewClient(owner, repo, token string, gitRepo *git.Repo, out io.Writer) *Client {
	if out == nil {
		out = io.Discard
	}
	return &Client{
		ctx:     context.Background(),
		owner:   owner,
		repo:    repo,
		client:  github.NewClient(nil).WithAuthToken(token),
		gitRepo: gitRepo,
		out:     out,
	}
}

// Upload pushes the split branch and opens a pull request for it. A
// CQ dry run maps to a draft pull request; auto-submit and topic map
// to labels.
func (c *Client) Upload(req split.UploadRequest) error {
	if err := c.gitRepo.Push(remote, req.Branch, req.Force); err != nil {
		return err
	}

	base := strings.TrimPrefix(req.Base, remote+"/")
	newPR := &github.NewPullRequest{
		Title: github.Ptr(req.Title),
		Head:  github.Ptr(req.Branch),
		Base:  github.Ptr(base),
		Body:  github.Ptr(req.Body),
		Draft: github.Ptr(req.CQDryRun),
	}
	pr, _, err := c.client.PullRequests.Create(c.ctx, c.owner, c.repo, newPR)
	if err != nil {
		return fmt.Errorf("creating pull request for %s: %w", req.Branch, err)
	}
	c.lastNumber = pr.GetNumber()
	fmt.Fprintf(c.out, "Created %s\n", pr.GetHTMLURL())

	if len(req.Reviewers) > 0 {
		reviewers := github.ReviewersRequest{Reviewers: req.Reviewers}
		if _, _, err := c.client.PullRequests.RequestReviewers(c.ctx, c.owner, c.repo, pr.GetNumber(), reviewers); err != nil {
			return fmt.Errorf("requesting reviewers on #%d: %w", pr.GetNumber(), err)
		}
	}

	labels := make([]string, 0, 2)
	if req.AutoSubmit {
		labels = append(labels, "auto-submit")
	}
	if req.Topic != "" {
		labels = append(labels, "topic:"+req.Topic)
	}
	if len(labels) > 0 {
		if _, _, err := c.client.Issues.AddLabelsToIssue(c.ctx, c.owner, c.repo, pr.GetNumber(), labels); err != nil {
			return fmt.Errorf("labeling #%d: %w", pr.GetNumber(), err)
		}
	}
	return nil
}

// AddComment posts a published comment on the most recently uploaded
// change.
func (c *Client) AddComment(body string) error {
	if c.lastNumber == 0 {
		return NoChangeError{}
	}
	comment := &github.IssueComment{Body: github.Ptr(body)}
	_, _, err := c.client.Issues.CreateComment(c.ctx, c.owner, c.repo, c.lastNumber, comment)
	return err
}
