package gitops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNothingToCommit is returned by CommitFiles when the files are unchanged.
var ErrNothingToCommit = errors.New("nothing to commit")

// Author identifies the author of commits made by fedsheet.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	if _, err := run(dir, "init", "--quiet"); err != nil {
		return err
	}
	return nil
}

// IsRepo reports whether dir is the top of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// HasChanges reports whether any of paths differs from HEAD or is untracked.
func HasChanges(dir string, paths ...string) (bool, error) {
	out, err := run(dir, append([]string{"status", "--porcelain", "--"}, paths...)...)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// CommitFiles stages paths and commits them. Returns the short commit hash.
func CommitFiles(dir string, paths []string, message string, author Author) (string, error) {
	changed, err := HasChanges(dir, paths...)
	if err != nil {
		return "", err
	}
	if !changed {
		return "", ErrNothingToCommit
	}

	if _, err := run(dir, append([]string{"add", "--"}, paths...)...); err != nil {
		return "", err
	}
	commit := append([]string{"commit", "--quiet", "-m", message, "--author", author.String(), "--"}, paths...)
	if _, err := runEnv(dir, author.committerEnv(), commit...); err != nil {
		return "", err
	}

	out, err := run(dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// committerEnv makes the author the committer when git has no identity
// configured.
func (a Author) committerEnv() []string {
	var env []string
	if os.Getenv("GIT_COMMITTER_NAME") == "" {
		env = append(env, "GIT_COMMITTER_NAME="+a.Name)
	}
	if os.Getenv("GIT_COMMITTER_EMAIL") == "" {
		env = append(env, "GIT_COMMITTER_EMAIL="+a.Email)
	}
	return env
}

func run(dir string, args ...string) (string, error) {
	return runEnv(dir, nil, args...)
}

func runEnv(dir string, env []string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return string(out), nil
}
