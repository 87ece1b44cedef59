package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"html fence", "```html\n<h1>OK</h1>\n```", "<h1>OK</h1>"},
		{"bare fence", "```\n<p>x</p>\n```\n", "<p>x</p>"},
		{"no fence", "  <p>plain</p>  ", "<p>plain</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanHTML(tt.in); got != tt.want {
				t.Fatalf("CleanHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", MaxDiffChars+50)
	got := Truncate(long, MaxDiffChars)
	if n := utf8.RuneCountInString(got); n != MaxDiffChars {
		t.Fatalf("truncated to %d chars, want %d", n, MaxDiffChars)
	}
	if Truncate("short", MaxDiffChars) != "short" {
		t.Fatal("short input should be unchanged")
	}
}

func TestBuildPrompt(t *testing.T) {
	diff := strings.Repeat("a", MaxDiffChars) + "TAIL"
	p := BuildPrompt(ReportInput{Report: "gofmt: Réussi", ChangedFiles: []string{"a.go", "b.go"}, Diff: diff})
	for _, want := range []string{"gofmt: Réussi", "a.go, b.go", "--- Diff Git ---"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(p, "TAIL") {
		t.Error("diff was not truncated")
	}
}

func TestSummarizeReport(t *testing.T) {
	ctx := context.Background()

	var nilClient *Client
	if got := nilClient.SummarizeReport(ctx, ReportInput{}); got != DisabledHTML {
		t.Fatalf("nil client = %q", got)
	}

	var seenModel string
	ok := newClient("gemini-2.0-flash", func(_ context.Context, model, _ string) (string, error) {
		seenModel = model
		return "```html\n<h1>Rapport</h1>\n```", nil
	})
	if got := ok.SummarizeReport(ctx, ReportInput{}); got != "<h1>Rapport</h1>" {
		t.Fatalf("SummarizeReport = %q", got)
	}
	if seenModel != "gemini-2.0-flash" {
		t.Fatalf("model = %q", seenModel)
	}

	calls := 0
	failing := newClient("m", func(context.Context, string, string) (string, error) {
		calls++
		return "", errors.New("quota exceeded")
	})
	failing.backoff = 0
	got := failing.SummarizeReport(ctx, ReportInput{})
	if !strings.Contains(got, "Erreur Gemini") || !strings.Contains(got, "quota exceeded") {
		t.Fatalf("SummarizeReport on error = %q", got)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}

	empty := newClient("m", func(context.Context, string, string) (string, error) { return "``` ```", nil })
	if got := empty.SummarizeReport(ctx, ReportInput{}); !strings.Contains(got, "Aucune réponse") {
		t.Fatalf("empty answer = %q", got)
	}
}

func TestNewClientWithoutKey(t *testing.T) {
	c, err := NewClient(context.Background(), "", "gemini-2.0-flash")
	if err != nil || c != nil {
		t.Fatalf("NewClient(\"\") = %v, %v", c, err)
	}
}
