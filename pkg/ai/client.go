package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// MaxDiffChars is the diff budget sent in a prompt.
const MaxDiffChars = 2000

// DisabledHTML is returned when no API key is configured.
const DisabledHTML = "<p>⚠️ Clé GEMINI_API_KEY non configurée. Analyse IA désactivée.</p>"

type generateFunc func(ctx context.Context, model, prompt string) (string, error)

// Client asks Gemini to turn lint results into an HTML email.
type Client struct {
	model    string
	generate generateFunc
	attempts int
	backoff  time.Duration
}

// NewClient returns nil without an error when apiKey is empty; a nil Client
// answers every request with DisabledHTML.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, nil
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	generate := func(ctx context.Context, model, prompt string) (string, error) {
		resp, err := gc.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return newClient(model, generate), nil
}

func newClient(model string, generate generateFunc) *Client {
	return &Client{model: model, generate: generate, attempts: 3, backoff: time.Second}
}

// ReportInput is what the summary is built from.
type ReportInput struct {
	Report       string
	ChangedFiles []string
	Diff         string
}

// SummarizeReport returns an HTML email body. It never fails: API errors and
// empty answers are turned into an explanatory paragraph.
func (c *Client) SummarizeReport(ctx context.Context, in ReportInput) string {
	if c == nil {
		return DisabledHTML
	}
	out, err := c.generateWithRetry(ctx, BuildPrompt(in))
	if err != nil {
		return fmt.Sprintf("<p>⚠️ Erreur Gemini : %s</p>", err)
	}
	html := CleanHTML(out)
	if html == "" {
		return "<p>⚠️ Aucune réponse reçue de l'IA.</p>"
	}
	return html
}

// generateWithRetry calls the model with exponential backoff between attempts.
func (c *Client) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for i := 0; i < c.attempts; i++ {
		out, err := c.generate(ctx, c.model, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if i < c.attempts-1 {
			select {
			case <-time.After(c.backoff * time.Duration(1<<i)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no attempt made")
	}
	return "", lastErr
}

// BuildPrompt renders the review prompt with the diff cut to MaxDiffChars.
func BuildPrompt(in ReportInput) string {
	var b strings.Builder
	b.WriteString("Tu es un assistant expert en revue de code Go.\n")
	b.WriteString("Analyse les résultats suivants et écris un e-mail HTML structuré, clair et professionnel :\n\n")
	b.WriteString("--- Résultats analyse ---\n")
	b.WriteString(in.Report)
	b.WriteString("\n\n--- Fichiers modifiés ---\n")
	b.WriteString(strings.Join(in.ChangedFiles, ", "))
	b.WriteString("\n\n--- Diff Git ---\n")
	b.WriteString(Truncate(in.Diff, MaxDiffChars))
	b.WriteString("\n\nStyle HTML :\n")
	b.WriteString("- fond gris clair (#f4f4f9)\n")
	b.WriteString("- boîte blanche centrale avec ombre\n")
	b.WriteString("- titres colorés (vert si succès, rouge si erreurs)\n")
	b.WriteString("- suggestions IA bleues\n")
	b.WriteString("- texte lisible, clair, professionnel\n")
	return b.String()
}

// Truncate keeps the first n characters of s.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// CleanHTML strips Markdown code fences the model wraps around its answer.
func CleanHTML(s string) string {
	s = strings.ReplaceAll(s, "```html", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
