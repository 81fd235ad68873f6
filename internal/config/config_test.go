package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestRead(t *testing.T) {
	tt := []struct {
		name          string
		configContent string
		check         func(t *testing.T, conf *Config)
	}{
		{
			name: "defaults when no file exists",
			check: func(t *testing.T, conf *Config) {
				if conf.BranchPrefix != "" || conf.Topic != "" {
					t.Error("prefix and topic should default to empty")
				}
				if conf.Upload.Provider != "command" {
					t.Errorf("expected command provider, got %q", conf.Upload.Provider)
				}
				if !slices.Equal(conf.Upload.Command, []string{"git", "cl", "upload"}) {
					t.Errorf("unexpected default upload command: %v", conf.Upload.Command)
				}
				if conf.Upload.TokenEnv != "GITHUB_TOKEN" {
					t.Errorf("unexpected default token env: %q", conf.Upload.TokenEnv)
				}
			},
		},
		{
			name: "full config",
			configContent: `
branch_prefix = "refactor"
topic = "big-cleanup"
ignore = ["third_party/", "generated/"]
exclude_reviewers = ["bot@example.com"]

[upload]
provider = "github"
repository = "multimediallc/widget"
token_env = "SPLIT_TOKEN"
`,
			check: func(t *testing.T, conf *Config) {
				if conf.BranchPrefix != "refactor" {
					t.Errorf("expected refactor, got %q", conf.BranchPrefix)
				}
				if conf.Topic != "big-cleanup" {
					t.Errorf("expected big-cleanup, got %q", conf.Topic)
				}
				if !slices.Equal(conf.Ignore, []string{"third_party/", "generated/"}) {
					t.Errorf("unexpected ignore list: %v", conf.Ignore)
				}
				if !slices.Equal(conf.ExcludeReviewers, []string{"bot@example.com"}) {
					t.Errorf("unexpected exclude list: %v", conf.ExcludeReviewers)
				}
				if conf.Upload.Provider != "github" {
					t.Errorf("expected github provider, got %q", conf.Upload.Provider)
				}
				if conf.Upload.Repository != "multimediallc/widget" {
					t.Errorf("unexpected repository: %q", conf.Upload.Repository)
				}
				if conf.Upload.TokenEnv != "SPLIT_TOKEN" {
					t.Errorf("unexpected token env: %q", conf.Upload.TokenEnv)
				}
			},
		},
		{
			name: "partial upload table keeps defaults",
			configContent: `
[upload]
command = ["my-upload"]
`,
			check: func(t *testing.T, conf *Config) {
				if !slices.Equal(conf.Upload.Command, []string{"my-upload"}) {
					t.Errorf("unexpected command: %v", conf.Upload.Command)
				}
				if conf.Upload.Provider != "command" {
					t.Errorf("provider should default to command, got %q", conf.Upload.Provider)
				}
				if conf.Upload.TokenEnv != "GITHUB_TOKEN" {
					t.Errorf("token env should keep its default, got %q", conf.Upload.TokenEnv)
				}
			},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			if tc.configContent != "" {
				if err := os.WriteFile(filepath.Join(root, FileName), []byte(tc.configContent), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			conf, err := Read(root)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tc.check(t, conf)
		})
	}
}

func TestReadInvalidToml(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	conf, err := Read(root)
	if err == nil {
		t.Error("expected a parse error")
	}
	if conf == nil || conf.Upload == nil {
		t.Error("defaults should still be returned on parse failure")
	}
}
