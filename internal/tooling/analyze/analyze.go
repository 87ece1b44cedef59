// Package analyze runs the formatting, lint and static-analysis tools over the
// module and writes a plain-text report of their results.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultReportPath is read back by the report notifier.
const DefaultReportPath = "tools/.last_analysis.log"

// Tool is one external checker.
type Tool struct {
	Name string
	Cmd  string
	Args []string
	// FailOnOutput marks tools that exit 0 but list offending files.
	FailOnOutput bool
}

func (t Tool) Command() string {
	return strings.TrimSpace(t.Cmd + " " + strings.Join(t.Args, " "))
}

// DefaultTools is the fixed tool list run by analyze-code.
var DefaultTools = []Tool{
	{Name: "gofmt (formatage)", Cmd: "gofmt", Args: []string{"-l", "."}, FailOnOutput: true},
	{Name: "go vet (lint)", Cmd: "go", Args: []string{"vet", "./..."}},
	{Name: "staticcheck (analyse statique)", Cmd: "staticcheck", Args: []string{"./..."}},
}

type ToolResult struct {
	Name     string
	Command  string
	ExitCode int
	Output   string
	Success  bool
}

// Status is the report marker for r.
func (r ToolResult) Status() string {
	if r.Success {
		return "Réussi"
	}
	return fmt.Sprintf("Échec (code %d)", r.ExitCode)
}

type Report struct {
	GeneratedAt time.Time
	Results     []ToolResult
}

// Success is true when every tool succeeded.
func (r Report) Success() bool {
	for _, res := range r.Results {
		if !res.Success {
			return false
		}
	}
	return true
}

// RunTool executes t in dir and captures its combined output. A tool that
// cannot be started is reported with exit code -1.
func RunTool(ctx context.Context, dir string, t Tool) ToolResult {
	res := ToolResult{Name: t.Name, Command: t.Command()}

	cmd := exec.CommandContext(ctx, t.Cmd, t.Args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	res.Output = strings.TrimSpace(string(out))

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case err != nil:
		res.ExitCode = -1
		if res.Output != "" {
			res.Output += "\n"
		}
		res.Output += err.Error()
	case t.FailOnOutput && res.Output != "":
		res.ExitCode = 1
	}
	res.Success = res.ExitCode == 0
	return res
}

// Format renders the report file contents.
func Format(r Report) string {
	var b strings.Builder
	b.WriteString("Rapport d'analyse - Smart CV Generator\n")
	fmt.Fprintf(&b, "Date : %s\n", r.GeneratedAt.Format(time.RFC3339))
	for _, res := range r.Results {
		fmt.Fprintf(&b, "\n[%s] %s\n", res.Name, res.Command)
		fmt.Fprintf(&b, "Résultat : %s\n", res.Status())
		if !res.Success && res.Output != "" {
			b.WriteString(res.Output)
			b.WriteString("\n")
		}
	}
	verdict := "Réussi"
	if !r.Success() {
		verdict = "Échec"
	}
	fmt.Fprintf(&b, "\nVerdict global : %s\n", verdict)
	return b.String()
}

// WriteReport writes the formatted report to path, creating its directory.
func WriteReport(path string, r Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(Format(r)), 0o644)
}
