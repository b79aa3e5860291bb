package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Repo is one repository as reported by `gh repo list`. Fetched repos are
// never archived: gh is invoked with --no-archived.
type Repo struct {
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"createdAt"`
	PushedAt    time.Time `json:"pushedAt"`
	Description string    `json:"description"`
}

// Client is the capability surface of the repository host. The TUI and the
// executor only ever see this interface, so tests can script outcomes
// without a network or the gh binary.
type Client interface {
	// ListRepos returns the caller's non-archived source repositories
	// created strictly before cutoff, oldest first.
	ListRepos(ctx context.Context, cutoff time.Time) ([]Repo, error)
	// ArchiveRepo marks one repository archived. Called at most once per
	// repository per run; idempotence is not assumed.
	ArchiveRepo(ctx context.Context, name string) error
}

type Options struct {
	// Limit caps the number of repositories requested from gh. Defaults
	// to 200.
	Limit int
}

const defaultLimit = 200

// CheckCLI verifies the gh binary is reachable. Called before any UI is
// drawn so a missing tool is a plain startup error, not a TUI crash.
func CheckCLI() error {
	if _, err := exec.LookPath("gh"); err != nil {
		return errors.New("gh CLI not found in PATH (install it from https://cli.github.com and run `gh auth login`)")
	}
	return nil
}

// CLIClient shells out to the gh binary.
type CLIClient struct {
	limit int
}

func NewCLIClient(opts Options) *CLIClient {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	return &CLIClient{limit: limit}
}

func (c *CLIClient) ListRepos(ctx context.Context, cutoff time.Time) ([]Repo, error) {
	cmd := exec.CommandContext(ctx, "gh",
		"repo", "list",
		"--source",
		"--no-archived",
		"--limit", strconv.Itoa(c.limit),
		"--json", "name,createdAt,description,pushedAt",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("gh repo list failed: %s", msg)
		}
		return nil, fmt.Errorf("failed to run gh CLI (is it installed?): %w", err)
	}
	return decodeRepoList(stdout.Bytes(), cutoff)
}

// ArchiveRepo treats any invocation that does not exit 0 as a failure and
// reports gh's stderr verbatim. Output is never parsed for partial success.
func (c *CLIClient) ArchiveRepo(ctx context.Context, name string) error {
	cmd := exec.CommandContext(ctx, "gh", "repo", "archive", name, "--yes")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return errors.New(msg)
		}
		return err
	}
	return nil
}

func decodeRepoList(data []byte, cutoff time.Time) ([]Repo, error) {
	var repos []Repo
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, fmt.Errorf("decode gh repo list output: %w", err)
	}
	return FilterBefore(repos, cutoff), nil
}

// FilterBefore keeps repositories created strictly before cutoff, sorted
// oldest first. Callers downstream preserve this order and never re-sort.
func FilterBefore(repos []Repo, cutoff time.Time) []Repo {
	out := make([]Repo, 0, len(repos))
	for _, r := range repos {
		if r.CreatedAt.Before(cutoff) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
