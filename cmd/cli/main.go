package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/multimediallc/cl-split/internal/config"
	"github.com/multimediallc/cl-split/internal/git"
	gh "github.com/multimediallc/cl-split/internal/github"
	"github.com/multimediallc/cl-split/internal/logger"
	"github.com/multimediallc/cl-split/internal/owners"
	"github.com/multimediallc/cl-split/internal/upload"
	"github.com/multimediallc/cl-split/pkg/split"
)

// stdinPrompter asks y/n questions on the terminal.
type stdinPrompter struct {
	in *bufio.Reader
}

func newStdinPrompter() *stdinPrompter {
	return &stdinPrompter{in: bufio.NewReader(os.Stdin)}
}

func (p *stdinPrompter) Confirm(prompt string) (bool, error) {
	fmt.Print(prompt + " ")
	answer, err := p.in.ReadString('\n')
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y"), nil
}

func readFileFlag(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func main() {
	var root string
	var verbose bool

	rootFlag := &cli.StringFlag{
		Name:        "root",
		Aliases:     []string{"r", "repo"},
		Value:       "./",
		Usage:       "Path to local Git repo",
		Destination: &root,
	}

	app := &cli.App{
		Name:           "cl-split",
		Usage:          "Split a branch into smaller branches and upload CLs",
		DefaultCommand: "split",
		Description:    "Partitions the changed files of the current branch into ownership-bounded groups, assigns reviewers from OWNERS files, and uploads one change per group.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "Enable debug logging",
				Destination: &verbose,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "split",
				Aliases:   []string{"s"},
				Usage:     "Split the current branch and upload one CL per ownership group",
				UsageText: "cl-split split --description FILE [options]",
				Flags: []cli.Flag{
					rootFlag,
					&cli.StringFlag{
						Name:     "description",
						Aliases:  []string{"d"},
						Usage:    "File containing the description of uploaded CLs ($directory is substituted per group)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "comment",
						Aliases: []string{"c"},
						Usage:   "File containing a comment to post on each uploaded CL",
					},
					&cli.BoolFlag{
						Name:    "dry-run",
						Aliases: []string{"n"},
						Usage:   "Print the split plan without creating branches or uploading",
					},
					&cli.BoolFlag{
						Name:  "cq-dry-run",
						Usage: "Send each uploaded CL to CQ dry run",
					},
					&cli.BoolFlag{
						Name:  "enable-auto-submit",
						Usage: "Enable auto submit on each uploaded CL",
					},
					&cli.IntFlag{
						Name:  "max-depth",
						Usage: "Maximum directory depth to search for OWNERS files (values below 1 mean no limit)",
					},
					&cli.StringFlag{
						Name:  "topic",
						Usage: "Topic to associate with uploaded CLs",
					},
				},
				Action: func(cCtx *cli.Context) error {
					return runSplit(cCtx, root, verbose)
				},
			},
			{
				Name:      "check",
				Aliases:   []string{"u"},
				Usage:     "List files with no OWNERS coverage",
				UsageText: "cl-split check [options] [target-dir]",
				Flags:     []cli.Flag{rootFlag},
				Action: func(cCtx *cli.Context) error {
					target := ""
					if cCtx.NArg() > 0 {
						target = cCtx.Args().First()
					}
					return runCheck(root, target)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		var perr *git.ProcessError
		if errors.As(err, &perr) {
			fmt.Fprint(os.Stderr, perr.Stderr)
		} else {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(1)
	}
}

func runSplit(cCtx *cli.Context, root string, verbose bool) error {
	description, err := readFileFlag(cCtx.String("description"))
	if err != nil {
		return err
	}
	comment, err := readFileFlag(cCtx.String("comment"))
	if err != nil {
		return err
	}

	conf, err := config.Read(root)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading clsplit.toml - using default config")
	}

	log := logger.New(verbose)
	defer func() { _ = log.Sync() }()

	repo := git.NewRepo(root)
	ownersClient := owners.NewClient(root, os.Stderr)

	provider, err := buildProvider(conf, repo)
	if err != nil {
		return err
	}
	uploader := split.NewUploader(repo, provider, os.Stdout)

	orchestrator := split.NewOrchestrator(
		repo,
		ownersClient,
		ownersClient.HasMarker,
		uploader,
		newStdinPrompter(),
		os.Stdout,
		log,
	)

	topic := cCtx.String("topic")
	if topic == "" {
		topic = conf.Topic
	}

	result, err := orchestrator.Run(split.Options{
		Description:      description,
		Comment:          comment,
		DryRun:           cCtx.Bool("dry-run"),
		CQDryRun:         cCtx.Bool("cq-dry-run"),
		AutoSubmit:       cCtx.Bool("enable-auto-submit"),
		MaxDepth:         cCtx.Int("max-depth"),
		Topic:            topic,
		BranchPrefix:     conf.BranchPrefix,
		IgnoreDirs:       conf.Ignore,
		ExcludeReviewers: conf.ExcludeReviewers,
	})
	if err != nil {
		return err
	}
	if result == split.ResultDeclined {
		// A decline is a deliberate no-op, exit 0.
		log.Debug("user declined, nothing done")
	}
	return nil
}

func buildProvider(conf *config.Config, repo *git.Repo) (split.Provider, error) {
	switch conf.Upload.Provider {
	case "github":
		repoSplit := strings.Split(conf.Upload.Repository, "/")
		if len(repoSplit) != 2 {
			return nil, fmt.Errorf("invalid upload.repository: %q", conf.Upload.Repository)
		}
		token := os.Getenv(conf.Upload.TokenEnv)
		if token == "" {
			return nil, fmt.Errorf("environment variable %s is not set", conf.Upload.TokenEnv)
		}
		return gh.NewClient(repoSplit[0], repoSplit[1], token, repo, os.Stdout), nil
	case "command":
		return upload.NewCommandProvider(repo.Dir, conf.Upload.Command, conf.Upload.CommentCommand), nil
	default:
		return nil, fmt.Errorf("unknown upload provider: %q", conf.Upload.Provider)
	}
}

func runCheck(root, target string) error {
	if stat, err := os.Lstat(root); err != nil || !stat.IsDir() {
		return fmt.Errorf("root is not a directory: %s", root)
	}
	client := owners.NewClient(root, os.Stderr)
	unowned, err := client.UnownedFiles(target)
	if err != nil {
		return err
	}
	fmt.Println(strings.Join(unowned, "\n"))
	return nil
}
