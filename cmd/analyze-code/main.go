// Command analyze-code runs gofmt, go vet and staticcheck over the module,
// writes tools/.last_analysis.log and exits 1 when any tool fails.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"smart-cv-generator/internal/config"
	"smart-cv-generator/internal/tooling/analyze"
	"smart-cv-generator/pkg/logger"

	"golang.org/x/term"
)

func main() {
	log := logger.NewConsole()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reportPath := analyze.DefaultReportPath
	cfg, err := config.LoadNotifier()
	if err != nil {
		log.Warn().Err(err).Msg("notifier settings unreadable, using defaults")
	} else {
		reportPath = cfg.ReportPath
		if cfg.GeminiKey == "" {
			fmt.Println("⚠️  Avertissement : aucune clé IA détectée. Définis GEMINI_API_KEY dans tes secrets GitHub ou ton .env.")
		} else {
			fmt.Println("🔑 Clé API IA détectée (masquée pour sécurité).")
		}
	}

	r := &analyze.Runner{
		Dir:   ".",
		Tools: analyze.DefaultTools,
		Out:   os.Stdout,
		Color: term.IsTerminal(int(os.Stdout.Fd())),
	}
	rep := r.Run(ctx)

	if err := analyze.WriteReport(reportPath, rep); err != nil {
		log.Error().Err(err).Str("path", reportPath).Msg("write analysis report")
	}
	if !rep.Success() {
		os.Exit(1)
	}
}
