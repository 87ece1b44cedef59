// Command send-email sends a plain-text test message to the Git user.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"smart-cv-generator/internal/config"
	"smart-cv-generator/internal/tooling/notify"
	"smart-cv-generator/pkg/logger"
	"smart-cv-generator/pkg/secrets"
)

func main() {
	log := logger.NewConsole()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.LoadNotifier()
	if err == nil {
		resolver := secrets.NewResolver()
		err = resolver.ResolveAll(ctx, &cfg.SenderEmail, &cfg.AppPassword)
		_ = resolver.Close()
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Printf("⚠️  Variables manquantes ou invalides : %s.\n", settingsFields(err))
		fmt.Println("➡️  Configure-les dans tes Secrets GitHub ou ton fichier .env.")
		log.Error().Err(err).Msg("send-email")
		os.Exit(1)
	}

	mailer := &notify.SMTPMailer{Host: cfg.SMTPHost, Port: cfg.SMTPPort, Username: cfg.SenderEmail, Password: cfg.AppPassword}
	// delivery problems are reported but never fail the hook
	_ = notify.SendTestMail(ctx, notify.NewGit("."), mailer, cfg.SenderEmail, os.Stdout, log)
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
