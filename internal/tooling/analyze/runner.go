package analyze

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Runner runs tools in order and narrates progress on Out.
type Runner struct {
	Dir   string
	Tools []Tool
	Out   io.Writer
	// Color enables lipgloss styling; set it when Out is a terminal.
	Color bool
	Now   func() time.Time
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (r *Runner) paint(s lipgloss.Style, text string) string {
	if !r.Color {
		return text
	}
	return s.Render(text)
}

// Run executes every tool, even after a failure, and returns the report.
func (r *Runner) Run(ctx context.Context) Report {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	rep := Report{GeneratedAt: now().UTC()}

	fmt.Fprintln(r.Out, r.paint(titleStyle, "🚀 Lancement de l'analyse du projet Smart CV Generator..."))
	fmt.Fprintln(r.Out)

	for _, t := range r.Tools {
		fmt.Fprintf(r.Out, "🔍 %s...\n", t.Name)
		res := RunTool(ctx, r.Dir, t)
		rep.Results = append(rep.Results, res)

		if res.Success {
			fmt.Fprintln(r.Out, r.paint(okStyle, "✅ "+t.Name+" réussi"))
		} else {
			fmt.Fprintln(r.Out, r.paint(failStyle, fmt.Sprintf("❌ %s a échoué (code %d).", t.Name, res.ExitCode)))
			if res.Output != "" {
				fmt.Fprintln(r.Out, r.paint(dimStyle, res.Output))
			}
		}
		fmt.Fprintln(r.Out)
	}

	if rep.Success() {
		fmt.Fprintln(r.Out, r.paint(okStyle, "🎉 Tout est propre ! Le code respecte les standards de qualité."))
	} else {
		fmt.Fprintln(r.Out, r.paint(failStyle, "🚫 Des problèmes ont été détectés. Corrigez-les avant de committer/pusher."))
	}
	return rep
}
