// Package notify builds and delivers the lint report and test emails.
package notify

import (
	"context"
	"os/exec"
	"strings"
)

// NoDiff is used when neither the staged nor the last-commit diff has content.
const NoDiff = "Aucun diff disponible."

// GitSource provides the Git facts included in a report.
type GitSource interface {
	UserEmail(ctx context.Context) string
	Diff(ctx context.Context) string
	ChangedFiles(ctx context.Context) []string
}

type runFunc func(ctx context.Context, dir string, args ...string) (string, error)

// Git reads from the git CLI in Dir.
type Git struct {
	Dir string
	run runFunc
}

func NewGit(dir string) *Git {
	return &Git{Dir: dir, run: runGit}
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	return string(out), err
}

// UserEmail returns git config user.email, or "" when unset.
func (g *Git) UserEmail(ctx context.Context) string {
	out, err := g.run(ctx, g.Dir, "config", "user.email")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// Diff returns the staged diff, falling back to the last commit's diff.
func (g *Git) Diff(ctx context.Context) string {
	if out, err := g.run(ctx, g.Dir, "diff", "--cached"); err == nil && strings.TrimSpace(out) != "" {
		return out
	}
	if out, err := g.run(ctx, g.Dir, "diff", "HEAD~1"); err == nil && strings.TrimSpace(out) != "" {
		return out
	}
	return NoDiff
}

// ChangedFiles lists files changed since HEAD~1.
func (g *Git) ChangedFiles(ctx context.Context) []string {
	out, err := g.run(ctx, g.Dir, "diff", "--name-only", "HEAD~1")
	if err != nil {
		return nil
	}
	var files []string
	for _, line := range strings.Split(out, "\n") {
		if f := strings.TrimSpace(line); f != "" {
			files = append(files, f)
		}
	}
	return files
}
