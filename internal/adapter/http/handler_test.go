package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"smart-cv-generator/internal/model"
	"smart-cv-generator/internal/testutil"
	"smart-cv-generator/internal/usecase"
	"smart-cv-generator/pkg/infrastructure"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type stubRenderer struct {
	pdf []byte
	err error
}

func (s stubRenderer) RenderHTMLToPDF(context.Context, string) ([]byte, error) {
	return s.pdf, s.err
}

func newTestApp(t *testing.T, r usecase.Renderer) (*fiber.App, string) {
	t.Helper()
	tpl, err := usecase.LoadTemplates("../../../templates")
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	v, err := model.LoadValidator("../../../templates")
	if err != nil {
		t.Fatalf("LoadValidator: %v", err)
	}
	tmp := t.TempDir()
	gen := usecase.NewGenerator(tpl, r, infrastructure.NewPDFInspector(),
		usecase.WithTempDir(tmp),
		usecase.WithClock(func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }),
	)
	h := NewHandler(gen, v, zerolog.Nop())
	return NewApp(h, "../../../static", zerolog.Nop()), tmp
}

func formRequest(values url.Values) *nethttp.Request {
	req := httptest.NewRequest(nethttp.MethodPost, "/generate", strings.NewReader(values.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return req
}

func janeForm() url.Values {
	return url.Values{
		"name":       {"Jane Doe"},
		"email":      {"jane@x.com"},
		"skills":     {"Go, SQL"},
		"experience": {"5 years backend"},
	}
}

func TestGeneratePDF(t *testing.T) {
	app, tmp := newTestApp(t, stubRenderer{pdf: testutil.MinimalPDF(1)})

	resp, err := app.Test(formRequest(janeForm()), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); !strings.HasPrefix(ct, "application/pdf") {
		t.Fatalf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get(fiber.HeaderContentDisposition); cd != `attachment; filename="Jane_Doe_CV.pdf"` {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	if resp.Header.Get(fiber.HeaderXRequestID) == "" {
		t.Fatal("missing request id header")
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) == 0 || !strings.HasPrefix(string(body), "%PDF") {
		t.Fatalf("body is not a pdf (len=%d)", len(body))
	}

	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("temp PDF left behind: %v", entries)
	}
}

func TestGenerateAcceptsJSON(t *testing.T) {
	app, _ := newTestApp(t, stubRenderer{pdf: testutil.MinimalPDF(1)})

	payload := `{"name":"Jane Doe","email":"jane@x.com","skills":"Go, SQL","experience":"5 years backend"}`
	req := httptest.NewRequest(nethttp.MethodPost, "/generate", strings.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGenerateAcceptsMultipart(t *testing.T) {
	app, tmp := newTestApp(t, stubRenderer{pdf: testutil.MinimalPDF(1)})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range janeForm() {
		if err := mw.WriteField(k, v[0]); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(nethttp.MethodPost, "/generate", &buf)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if cd := resp.Header.Get(fiber.HeaderContentDisposition); cd != `attachment; filename="Jane_Doe_CV.pdf"` {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	if entries, _ := os.ReadDir(tmp); len(entries) != 0 {
		t.Fatalf("temp PDF left behind: %v", entries)
	}
}

func TestGenerateContentDisposition(t *testing.T) {
	app, _ := newTestApp(t, stubRenderer{pdf: testutil.MinimalPDF(1)})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"double space", "Jane  Doe", `attachment; filename="Jane__Doe_CV.pdf"`},
		{"leading space", " Jane Doe", `attachment; filename="_Jane_Doe_CV.pdf"`},
		{"accented", "Zoë Dupré", `attachment; filename="Zo__Dupr__CV.pdf"; filename*=UTF-8''Zo%C3%AB_Dupr%C3%A9_CV.pdf`},
		{"tab", "Jane\tDoe", `attachment; filename="Jane_Doe_CV.pdf"; filename*=UTF-8''Jane%09Doe_CV.pdf`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := janeForm()
			values.Set("name", tt.in)
			resp, err := app.Test(formRequest(values), -1)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != fiber.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if ct := resp.Header.Get(fiber.HeaderContentType); !strings.HasPrefix(ct, "application/pdf") {
				t.Fatalf("Content-Type = %q", ct)
			}
			if cd := resp.Header.Get(fiber.HeaderContentDisposition); cd != tt.want {
				t.Fatalf("Content-Disposition = %q, want %q", cd, tt.want)
			}
		})
	}
}

func TestGenerateValidationErrors(t *testing.T) {
	app, _ := newTestApp(t, stubRenderer{pdf: testutil.MinimalPDF(1)})

	for _, field := range model.FormFields {
		t.Run("missing "+field, func(t *testing.T) {
			values := janeForm()
			values.Del(field)
			resp, err := app.Test(formRequest(values), -1)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != fiber.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422", resp.StatusCode)
			}
			var body struct {
				Error   string   `json:"error"`
				Details []string `json:"details"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != "validation failed" || len(body.Details) == 0 {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}

	t.Run("blank field", func(t *testing.T) {
		values := janeForm()
		values.Set("skills", "   ")
		resp, err := app.Test(formRequest(values), -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", resp.StatusCode)
		}
	})
}

func TestGenerateInvalidJSON(t *testing.T) {
	app, _ := newTestApp(t, stubRenderer{})
	req := httptest.NewRequest(nethttp.MethodPost, "/generate", strings.NewReader("{"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGenerateRendererFailure(t *testing.T) {
	app, tmp := newTestApp(t, stubRenderer{err: errors.New("chrome not found")})

	resp, err := app.Test(formRequest(janeForm()), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["error"] != "pdf generation failed" {
		t.Fatalf("unexpected body: %v", body)
	}
	if entries, _ := os.ReadDir(tmp); len(entries) != 0 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestFormPageAndStatic(t *testing.T) {
	app, _ := newTestApp(t, stubRenderer{})

	tests := []struct {
		path     string
		wantType string
		contains string
	}{
		{"/", "text/html", `action="/generate"`},
		{"/static/style.css", "text/css", "font-family"},
		{"/healthz", "application/json", `"status":"ok"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, tt.path, nil), -1)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != fiber.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if ct := resp.Header.Get(fiber.HeaderContentType); !strings.HasPrefix(ct, tt.wantType) {
				t.Fatalf("Content-Type = %q, want %s", ct, tt.wantType)
			}
			b, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(b), tt.contains) {
				t.Fatalf("body does not contain %q", tt.contains)
			}
		})
	}
}

func TestUnknownRouteReturnsJSONError(t *testing.T) {
	app, _ := newTestApp(t, stubRenderer{})
	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/nope", nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body["error"] == "" {
		t.Fatalf("expected JSON error body, got %v (%v)", body, err)
	}
}
