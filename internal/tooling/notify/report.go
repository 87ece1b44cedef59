package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"smart-cv-generator/pkg/ai"

	"github.com/rs/zerolog"
)

const (
	SubjectSuccess = "✅ Smart CV Generator — Code validé"
	SubjectFailure = "❌ Smart CV Generator — Erreurs détectées"

	// NoReport replaces the analysis log when it has not been written yet.
	NoReport = "⚠️ Aucun rapport d'analyse disponible."

	TestSubject = "[Smart CV Generator] Test d'envoi d'email automatique 📧"
	TestBody    = "Ceci est un test depuis le hook Git."
)

// ErrNoRecipient is returned when no destination address can be found.
var ErrNoRecipient = errors.New("no recipient address")

// Summarizer turns report inputs into an HTML body.
type Summarizer interface {
	SummarizeReport(ctx context.Context, in ai.ReportInput) string
}

// ReadReport returns the analysis log at path, or NoReport when it is missing.
func ReadReport(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return NoReport
	}
	return string(b)
}

// Subject picks the email subject for a run status.
func Subject(status string) string {
	if status == "success" {
		return SubjectSuccess
	}
	return SubjectFailure
}

// ReportNotifier emails the latest analysis report.
type ReportNotifier struct {
	Git        GitSource
	AI         Summarizer
	Mailer     Sender
	From       string
	ReportPath string
	Out        io.Writer
	Log        zerolog.Logger
}

// Send builds the report email for status ("success" or "failure") and
// delivers it to the Git user, or to From when Git has no email configured.
// Delivery failures are logged and returned; callers treat them as non-fatal.
func (n *ReportNotifier) Send(ctx context.Context, status, origin string) error {
	fmt.Fprintf(n.Out, "📨 Préparation de l'envoi du rapport (%s)...\n", origin)

	in := ai.ReportInput{
		Report:       ReadReport(n.ReportPath),
		Diff:         n.Git.Diff(ctx),
		ChangedFiles: n.Git.ChangedFiles(ctx),
	}

	fmt.Fprintln(n.Out, "🤖 Génération du résumé IA...")
	body := n.AI.SummarizeReport(ctx, in)

	recipient := n.Git.UserEmail(ctx)
	if recipient == "" {
		recipient = n.From
	}
	if recipient == "" {
		fmt.Fprintln(n.Out, "❌ Aucun destinataire valide trouvé pour l'envoi du mail.")
		return ErrNoRecipient
	}

	msg := Message{From: n.From, To: recipient, Subject: Subject(status), Body: body, HTML: true}
	if err := n.Mailer.Send(ctx, msg); err != nil {
		n.Log.Warn().Err(err).Str("to", recipient).Msg("report email not sent")
		fmt.Fprintf(n.Out, "⚠️ Erreur lors de l'envoi du mail : %v\n", err)
		return err
	}
	fmt.Fprintf(n.Out, "📧 Rapport envoyé à %s\n", recipient)
	return nil
}

// SendTestMail sends the fixed plain-text test message to the Git user.
// Without a Git email nothing is sent and ErrNoRecipient is returned.
func SendTestMail(ctx context.Context, git GitSource, mailer Sender, from string, out io.Writer, log zerolog.Logger) error {
	to := git.UserEmail(ctx)
	if to == "" {
		fmt.Fprintln(out, "⚠️  Aucune adresse e-mail configurée dans Git. Exécute : git config user.email 'ton@email.com'")
		fmt.Fprintln(out, "❌ Aucun e-mail de destination. L'envoi du mail est annulé.")
		return ErrNoRecipient
	}

	fmt.Fprintf(out, "📤 Envoi du mail à %s ...\n", to)
	msg := Message{From: from, To: to, Subject: TestSubject, Body: TestBody}
	if err := mailer.Send(ctx, msg); err != nil {
		log.Warn().Err(err).Str("to", to).Msg("test email not sent")
		fmt.Fprintf(out, "⚠️  Erreur lors de l'envoi du mail : %v\n", err)
		return err
	}
	fmt.Fprintln(out, "✅ Mail envoyé avec succès.")
	return nil
}
