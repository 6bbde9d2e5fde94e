// Package gitops keeps project files (config, taxonomy, model artifacts)
// under git version control.
package gitops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrGitNotFound is returned when the git binary is not on PATH.
var ErrGitNotFound = errors.New("git not found in PATH")

// Author identifies who commits project changes.
type Author struct {
	Name  string
	Email string
}

// DefaultAuthor signs commits made by the CLI itself.
var DefaultAuthor = Author{Name: "cashscore", Email: "cashscore@localhost"}

// Available reports whether git can be executed.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Init initializes a new git repository at dir. An existing repository is
// left untouched.
func Init(ctx context.Context, dir string) error {
	if IsRepo(dir) {
		return nil
	}
	if _, err := run(ctx, dir, nil, "init", "-q"); err != nil {
		return err
	}
	return nil
}

// Commit stages paths (everything when none are given) and commits them.
// Returns the short commit hash.
func Commit(ctx context.Context, dir, message string, author Author, paths ...string) (string, error) {
	add := []string{"add", "-A"}
	if len(paths) > 0 {
		add = append([]string{"add", "--"}, paths...)
	}
	if _, err := run(ctx, dir, nil, add...); err != nil {
		return "", err
	}

	// Committer identity comes from the environment so commits work on
	// machines without a global git config.
	env := []string{
		"GIT_AUTHOR_NAME=" + author.Name,
		"GIT_AUTHOR_EMAIL=" + author.Email,
		"GIT_COMMITTER_NAME=" + author.Name,
		"GIT_COMMITTER_EMAIL=" + author.Email,
	}
	if _, err := run(ctx, dir, env, "commit", "-q", "-m", message); err != nil {
		return "", err
	}

	return run(ctx, dir, nil, "rev-parse", "--short", "HEAD")
}

func run(ctx context.Context, dir string, env []string, args ...string) (string, error) {
	if !Available() {
		return "", ErrGitNotFound
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}
