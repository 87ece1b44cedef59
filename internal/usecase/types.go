package usecase

import (
	"context"

	"smart-cv-generator/internal/domain"
)

// Renderer converts an HTML document into PDF bytes.
type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// PDFInspector reports the page count of a PDF document.
type PDFInspector interface {
	PageCount(pdf []byte) (int, error)
}

// GenerationsRepo persists generation records.
type GenerationsRepo interface {
	Save(ctx context.Context, g *domain.Generation) error
}

// Archive keeps a copy of every generated PDF.
type Archive interface {
	Put(ctx context.Context, key string, data []byte) error
}

// Publisher announces completed generations.
type Publisher interface {
	Publish(ctx context.Context, ev domain.GenerationEvent) error
}
