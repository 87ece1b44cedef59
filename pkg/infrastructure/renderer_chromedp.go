package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// RendererOptions configures the headless Chrome renderer.
type RendererOptions struct {
	// ChromePath overrides the Chrome binary lookup.
	ChromePath string
	// Timeout bounds one render, browser start included. Zero means 60s.
	Timeout time.Duration
	// AssetDir holds stylesheets copied next to index.html before rendering.
	AssetDir string
	// Assets lists the file names copied from AssetDir.
	Assets []string
	// WorkDir is the parent of the per-render directory. Empty means os.TempDir.
	WorkDir string
}

type ChromedpRenderer struct {
	opts RendererOptions
}

func NewChromedpRenderer(opts RendererOptions) *ChromedpRenderer {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &ChromedpRenderer{opts: opts}
}

// RenderHTMLToPDF prints html to an A4 PDF in a fresh headless Chrome.
func (r *ChromedpRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.opts.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.opts.ChromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	runCtx, cancelRun := context.WithTimeout(cctx, r.opts.Timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp(r.opts.WorkDir, "cv-render-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath, err := r.stage(tmpDir, html)
	if err != nil {
		return nil, err
	}

	var pdfBuf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+filepath.ToSlash(htmlPath)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> inches: 8.27 x 11.69
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

// stage writes index.html and the configured assets into dir.
func (r *ChromedpRenderer) stage(dir, html string) (string, error) {
	htmlPath := filepath.Join(dir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return "", err
	}
	if r.opts.AssetDir == "" {
		return htmlPath, nil
	}
	for _, name := range r.opts.Assets {
		b, err := os.ReadFile(filepath.Join(r.opts.AssetDir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("read asset %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
			return "", err
		}
	}
	return htmlPath, nil
}
