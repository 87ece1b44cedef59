// Command send-report [status] [origin] emails an AI summary of the last
// analysis report. It never fails the calling hook.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"smart-cv-generator/internal/config"
	"smart-cv-generator/internal/tooling/notify"
	"smart-cv-generator/pkg/ai"
	"smart-cv-generator/pkg/logger"
	"smart-cv-generator/pkg/secrets"
)

func main() {
	log := logger.NewConsole()

	status, origin := "success", "manual"
	if len(os.Args) > 1 {
		status = os.Args[1]
	}
	if len(os.Args) > 2 {
		origin = os.Args[2]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	cfg, err := config.LoadNotifier()
	if err != nil {
		log.Warn().Err(err).Msg("load notifier settings")
		return
	}
	resolver := secrets.NewResolver()
	defer resolver.Close()
	if err := resolver.ResolveAll(ctx, &cfg.SenderEmail, &cfg.AppPassword, &cfg.GeminiKey); err != nil {
		log.Warn().Err(err).Msg("resolve secrets")
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("⚠️  Variables manquantes ou invalides : %s.\n", settingsFields(err))
		log.Warn().Err(err).Msg("report not sent")
		return
	}

	client, err := ai.NewClient(ctx, cfg.GeminiKey, cfg.GeminiModel)
	if err != nil {
		log.Warn().Err(err).Msg("gemini unavailable, sending report without AI summary")
		client = nil
	}

	n := &notify.ReportNotifier{
		Git:        notify.NewGit("."),
		AI:         client,
		Mailer:     &notify.SMTPMailer{Host: cfg.SMTPHost, Port: cfg.SMTPPort, Username: cfg.SenderEmail, Password: cfg.AppPassword},
		From:       cfg.SenderEmail,
		ReportPath: cfg.ReportPath,
		Out:        os.Stdout,
		Log:        log,
	}
	// best effort: errors are already logged
	_ = n.Send(ctx, status, origin)
}

// settingsFields names the variables behind err, or the error itself when it
// did not come from validation.
func settingsFields(err error) string {
	var serr *config.SettingsError
	if errors.As(err, &serr) {
		return strings.Join(serr.Fields, ", ")
	}
	return err.Error()
}
