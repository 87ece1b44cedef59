package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"smart-cv-generator/internal/domain"
	"smart-cv-generator/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrRender is returned when the PDF renderer fails.
	ErrRender = errors.New("pdf render failed")
	// ErrInvalidPDF is returned when the renderer output is not a usable PDF.
	ErrInvalidPDF = errors.New("invalid pdf output")
)

// sideEffectTimeout bounds history, archive and event calls.
const sideEffectTimeout = 10 * time.Second

// Generator turns a ResumeRecord into a PDF on temporary storage.
type Generator struct {
	templates *Templates
	renderer  Renderer
	inspector PDFInspector
	tempDir   string
	repo      GenerationsRepo
	archive   Archive
	publisher Publisher
	log       zerolog.Logger
	now       func() time.Time
}

type Option func(*Generator)

// WithTempDir sets the directory for generated files. Empty means os.TempDir.
func WithTempDir(dir string) Option { return func(g *Generator) { g.tempDir = dir } }

func WithRepo(r GenerationsRepo) Option { return func(g *Generator) { g.repo = r } }

func WithArchive(a Archive) Option { return func(g *Generator) { g.archive = a } }

func WithPublisher(p Publisher) Option { return func(g *Generator) { g.publisher = p } }

func WithLogger(l zerolog.Logger) Option { return func(g *Generator) { g.log = l } }

// WithClock replaces time.Now, used by tests for a fixed year.
func WithClock(now func() time.Time) Option { return func(g *Generator) { g.now = now } }

func NewGenerator(t *Templates, r Renderer, insp PDFInspector, opts ...Option) *Generator {
	g := &Generator{
		templates: t,
		renderer:  r,
		inspector: insp,
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Templates exposes the parsed templates for the form page.
func (g *Generator) Templates() *Templates { return g.templates }

// Year is the calendar year used in rendered pages.
func (g *Generator) Year() int { return g.now().Year() }

// RenderHTML renders rec with the current year.
func (g *Generator) RenderHTML(rec model.ResumeRecord) (string, error) {
	return g.templates.RenderCV(rec, g.Year())
}

// GeneratedFile is a PDF written to temporary storage for one response.
type GeneratedFile struct {
	Path         string
	Size         int64
	DownloadName string
	Generation   *domain.Generation
}

// Open returns a reader over the file. Closing it deletes the file.
func (f *GeneratedFile) Open() (io.ReadCloser, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	return &removeOnClose{File: fh}, nil
}

// Remove deletes the file. A file that is already gone is not an error.
func (f *GeneratedFile) Remove() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

type removeOnClose struct {
	*os.File
}

func (r *removeOnClose) Close() error {
	err := r.File.Close()
	if rmErr := os.Remove(r.Name()); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) && err == nil {
		err = rmErr
	}
	return err
}

var fileNameReplacer = strings.NewReplacer(" ", "_", "/", "_", `\`, "_", `"`, "_")

// DownloadName derives the attachment file name from a person's name: each
// space becomes an underscore, so "Jane Doe" becomes "Jane_Doe_CV.pdf".
func DownloadName(name string) string {
	return fileNameReplacer.Replace(name) + "_CV.pdf"
}

// Generate renders rec to PDF and writes it to a unique temp file. The caller
// owns the returned file and must Open-and-Close or Remove it.
func (g *Generator) Generate(ctx context.Context, rec model.ResumeRecord) (*GeneratedFile, error) {
	gen := &domain.Generation{
		ID:        uuid.New(),
		Name:      rec.Name,
		Email:     rec.Email,
		FileName:  DownloadName(rec.Name),
		CreatedAt: g.now().UTC(),
	}
	log := g.log.With().Str("generation_id", gen.ID.String()).Logger()

	html, err := g.RenderHTML(rec)
	if err != nil {
		return nil, g.fail(ctx, gen, fmt.Errorf("render template: %w", err))
	}

	started := time.Now()
	pdf, err := g.renderer.RenderHTMLToPDF(ctx, html)
	if err != nil {
		return nil, g.fail(ctx, gen, fmt.Errorf("%w: %w", ErrRender, err))
	}
	pages, err := g.inspect(pdf)
	if err != nil {
		return nil, g.fail(ctx, gen, err)
	}
	log.Debug().Int("bytes", len(pdf)).Int("pages", pages).
		Dur("render_ms", time.Since(started)).Msg("pdf rendered")

	f, err := os.CreateTemp(g.tempDir, "cv-*.pdf")
	if err != nil {
		return nil, g.fail(ctx, gen, fmt.Errorf("create temp file: %w", err))
	}
	out := &GeneratedFile{Path: f.Name(), Size: int64(len(pdf)), DownloadName: gen.FileName, Generation: gen}
	_, werr := f.Write(pdf)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = out.Remove()
		return nil, g.fail(ctx, gen, fmt.Errorf("write temp file: %w", werr))
	}

	gen.SizeBytes = out.Size
	gen.Pages = pages
	gen.Status = domain.StatusCompleted

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	g.archivePDF(sctx, gen, pdf)
	g.save(sctx, gen)
	g.publish(sctx, gen)

	return out, nil
}

func (g *Generator) inspect(pdf []byte) (int, error) {
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		return 0, fmt.Errorf("%w: missing %%PDF header (len=%d)", ErrInvalidPDF, len(pdf))
	}
	if g.inspector == nil {
		return 0, nil
	}
	pages, err := g.inspector.PageCount(pdf)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidPDF, err)
	}
	if pages < 1 {
		return 0, fmt.Errorf("%w: no pages", ErrInvalidPDF)
	}
	return pages, nil
}

// fail records a failed generation and returns err unchanged.
func (g *Generator) fail(ctx context.Context, gen *domain.Generation, err error) error {
	gen.Status = domain.StatusFailed
	gen.Error = err.Error()
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	g.save(sctx, gen)
	return err
}

// ArchiveKey is the archive location of gen: YYYY/MM/<id>_<file name>.
func ArchiveKey(gen *domain.Generation) string {
	return fmt.Sprintf("%s/%s_%s", gen.CreatedAt.Format("2006/01"), gen.ID, gen.FileName)
}

func (g *Generator) archivePDF(ctx context.Context, gen *domain.Generation, pdf []byte) {
	if g.archive == nil {
		return
	}
	key := ArchiveKey(gen)
	if err := g.archive.Put(ctx, key, pdf); err != nil {
		g.log.Warn().Err(err).Str("generation_id", gen.ID.String()).Str("key", key).Msg("archive pdf failed")
		return
	}
	gen.ArchiveKey = key
}

func (g *Generator) save(ctx context.Context, gen *domain.Generation) {
	if g.repo == nil {
		return
	}
	if err := g.repo.Save(ctx, gen); err != nil {
		g.log.Warn().Err(err).Str("generation_id", gen.ID.String()).Msg("save generation failed")
	}
}

func (g *Generator) publish(ctx context.Context, gen *domain.Generation) {
	if g.publisher == nil {
		return
	}
	if err := g.publisher.Publish(ctx, gen.Event()); err != nil {
		g.log.Warn().Err(err).Str("generation_id", gen.ID.String()).Msg("publish event failed")
	}
}
