package notify

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"smart-cv-generator/pkg/ai"

	"github.com/rs/zerolog"
)

type fakeGit struct {
	email string
	diff  string
	files []string
}

func (f fakeGit) UserEmail(context.Context) string      { return f.email }
func (f fakeGit) Diff(context.Context) string           { return f.diff }
func (f fakeGit) ChangedFiles(context.Context) []string { return f.files }

type fakeSummarizer struct{ got ai.ReportInput }

func (f *fakeSummarizer) SummarizeReport(_ context.Context, in ai.ReportInput) string {
	f.got = in
	return "<h1>résumé</h1>"
}

type fakeMailer struct {
	sent []Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, m Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

func TestGitFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		outputs map[string]string
		want    string
	}{
		{"staged diff", map[string]string{"diff --cached": "staged", "diff HEAD~1": "last"}, "staged"},
		{"last commit", map[string]string{"diff --cached": "  \n", "diff HEAD~1": "last"}, "last"},
		{"nothing", map[string]string{}, NoDiff},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Git{run: func(_ context.Context, _ string, args ...string) (string, error) {
				out, ok := tt.outputs[strings.Join(args, " ")]
				if !ok {
					return "", errors.New("exit status 128")
				}
				return out, nil
			}}
			if got := g.Diff(context.Background()); got != tt.want {
				t.Fatalf("Diff = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGitEmailAndFiles(t *testing.T) {
	g := &Git{run: func(_ context.Context, _ string, args ...string) (string, error) {
		switch strings.Join(args, " ") {
		case "config user.email":
			return "dev@example.com\n", nil
		case "diff --name-only HEAD~1":
			return "a.go\n\nb.go\n", nil
		}
		return "", errors.New("unexpected")
	}}
	ctx := context.Background()
	if got := g.UserEmail(ctx); got != "dev@example.com" {
		t.Fatalf("UserEmail = %q", got)
	}
	if got := g.ChangedFiles(ctx); len(got) != 2 || got[0] != "a.go" || got[1] != "b.go" {
		t.Fatalf("ChangedFiles = %v", got)
	}

	failing := &Git{run: func(context.Context, string, ...string) (string, error) { return "", errors.New("no git") }}
	if failing.UserEmail(ctx) != "" || failing.ChangedFiles(ctx) != nil {
		t.Fatal("errors should yield empty values")
	}
}

func TestReadReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".last_analysis.log")
	if got := ReadReport(path); got != NoReport {
		t.Fatalf("missing report = %q", got)
	}
	if err := os.WriteFile(path, []byte("Verdict global : Réussi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := ReadReport(path); !strings.Contains(got, "Réussi") {
		t.Fatalf("ReadReport = %q", got)
	}
}

func TestReportNotifierRecipients(t *testing.T) {
	tests := []struct {
		name    string
		git     fakeGit
		from    string
		status  string
		wantTo  string
		subject string
		wantErr error
	}{
		{"git email", fakeGit{email: "dev@example.com"}, "bot@example.com", "success", "dev@example.com", SubjectSuccess, nil},
		{"fallback sender", fakeGit{}, "bot@example.com", "failure", "bot@example.com", SubjectFailure, nil},
		{"no recipient", fakeGit{}, "", "success", "", "", ErrNoRecipient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &fakeMailer{}
			sum := &fakeSummarizer{}
			tt.git.diff = "diff --git a/x b/x"
			tt.git.files = []string{"x"}
			n := &ReportNotifier{
				Git:        tt.git,
				AI:         sum,
				Mailer:     mailer,
				From:       tt.from,
				ReportPath: filepath.Join(t.TempDir(), "missing.log"),
				Out:        &bytes.Buffer{},
				Log:        zerolog.Nop(),
			}
			err := n.Send(context.Background(), tt.status, "pre-push")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Send err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if len(mailer.sent) != 0 {
					t.Fatal("mail sent without recipient")
				}
				return
			}
			if len(mailer.sent) != 1 {
				t.Fatalf("sent %d mails", len(mailer.sent))
			}
			m := mailer.sent[0]
			if m.To != tt.wantTo || m.Subject != tt.subject || !m.HTML || m.Body != "<h1>résumé</h1>" {
				t.Fatalf("unexpected message: %+v", m)
			}
			if sum.got.Report != NoReport || sum.got.Diff != "diff --git a/x b/x" || len(sum.got.ChangedFiles) != 1 {
				t.Fatalf("summarizer input = %+v", sum.got)
			}
		})
	}
}

func TestReportNotifierSendFailure(t *testing.T) {
	out := &bytes.Buffer{}
	n := &ReportNotifier{
		Git:    fakeGit{email: "dev@example.com"},
		AI:     &fakeSummarizer{},
		Mailer: &fakeMailer{err: errors.New("535 auth failed")},
		From:   "bot@example.com",
		Out:    out,
		Log:    zerolog.Nop(),
	}
	if err := n.Send(context.Background(), "success", "manual"); err == nil {
		t.Fatal("expected send error")
	}
	if !strings.Contains(out.String(), "535 auth failed") {
		t.Fatalf("error not reported:\n%s", out.String())
	}
}

func TestSendTestMail(t *testing.T) {
	ctx := context.Background()

	mailer := &fakeMailer{}
	if err := SendTestMail(ctx, fakeGit{email: "dev@example.com"}, mailer, "bot@example.com", &bytes.Buffer{}, zerolog.Nop()); err != nil {
		t.Fatalf("SendTestMail: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].HTML || mailer.sent[0].Subject != TestSubject {
		t.Fatalf("unexpected mails: %+v", mailer.sent)
	}

	mailer = &fakeMailer{}
	err := SendTestMail(ctx, fakeGit{}, mailer, "bot@example.com", &bytes.Buffer{}, zerolog.Nop())
	if !errors.Is(err, ErrNoRecipient) || len(mailer.sent) != 0 {
		t.Fatalf("SendTestMail without git email = %v, sent %d", err, len(mailer.sent))
	}
}

func TestBuildMIME(t *testing.T) {
	raw := string(BuildMIME(Message{
		From:    "bot@example.com",
		To:      "dev@example.com",
		Subject: SubjectSuccess,
		Body:    "<p>Réussi</p>",
		HTML:    true,
	}, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))

	header, body, ok := strings.Cut(raw, "\r\n\r\n")
	if !ok {
		t.Fatalf("no header/body separator:\n%s", raw)
	}
	if !strings.Contains(header, `Content-Type: text/html; charset="utf-8"`) {
		t.Fatalf("header = %s", header)
	}
	var subject string
	for _, line := range strings.Split(header, "\r\n") {
		if v, found := strings.CutPrefix(line, "Subject: "); found {
			subject = v
		}
	}
	decoded, err := new(mime.WordDecoder).DecodeHeader(subject)
	if err != nil || decoded != SubjectSuccess {
		t.Fatalf("subject decodes to %q (%v)", decoded, err)
	}
	if !strings.Contains(body, "R=C3=A9ussi") {
		t.Fatalf("body not quoted-printable: %q", body)
	}
}
