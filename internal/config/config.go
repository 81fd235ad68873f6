package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the optional per-repository configuration file, read
// from the repository root.
const FileName = "clsplit.toml"

type Config struct {
	// BranchPrefix overrides the source branch name as the split
	// branch prefix.
	BranchPrefix string `toml:"branch_prefix"`
	// Topic is the default topic when none is passed on the command line.
	Topic string `toml:"topic"`
	// Ignore lists directory prefixes excluded from the diff snapshot.
	Ignore []string `toml:"ignore"`
	// ExcludeReviewers are never suggested, in addition to the author.
	ExcludeReviewers []string `toml:"exclude_reviewers"`
	Upload           *Upload  `toml:"upload"`
}

type Upload struct {
	// Provider selects the upload collaborator: "command" or "github".
	Provider string `toml:"provider"`
	// Command is the upload command for the command provider.
	Command []string `toml:"command"`
	// CommentCommand posts a comment on the last uploaded change.
	CommentCommand []string `toml:"comment_command"`
	// Repository is the owner/name slug for the github provider.
	Repository string `toml:"repository"`
	// TokenEnv names the environment variable holding the GitHub token.
	TokenEnv string `toml:"token_env"`
}

func defaultConfig() *Config {
	return &Config{
		BranchPrefix:     "",
		Topic:            "",
		Ignore:           []string{},
		ExcludeReviewers: []string{},
		Upload: &Upload{
			Provider:       "command",
			Command:        []string{"git", "cl", "upload"},
			CommentCommand: []string{"git", "cl", "comments", "-a"},
			Repository:     "",
			TokenEnv:       "GITHUB_TOKEN",
		},
	}
}

// Read loads clsplit.toml from the repository root. A missing file is
// not an error: the defaults are returned.
func Read(root string) (*Config, error) {
	conf := defaultConfig()

	fileName := filepath.Join(root, FileName)
	if _, err := os.Stat(fileName); errors.Is(err, os.ErrNotExist) {
		return conf, nil
	}
	raw, err := os.ReadFile(fileName)
	if err != nil {
		return conf, err
	}
	if err := toml.Unmarshal(raw, conf); err != nil {
		return conf, err
	}
	if conf.Upload == nil {
		conf.Upload = defaultConfig().Upload
	}
	if conf.Upload.Provider == "" {
		conf.Upload.Provider = "command"
	}
	if len(conf.Upload.Command) == 0 {
		conf.Upload.Command = defaultConfig().Upload.Command
	}
	if len(conf.Upload.CommentCommand) == 0 {
		conf.Upload.CommentCommand = defaultConfig().Upload.CommentCommand
	}
	if conf.Upload.TokenEnv == "" {
		conf.Upload.TokenEnv = "GITHUB_TOKEN"
	}
	return conf, nil
}
