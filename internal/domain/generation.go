package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Generation is the bookkeeping record of one PDF generation attempt.
type Generation struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	FileName   string    `json:"file_name"`
	SizeBytes  int64     `json:"size_bytes"`
	Pages      int       `json:"pages"`
	Status     string    `json:"status"`
	ArchiveKey string    `json:"archive_key,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// EventGenerated is the type of the event published after a successful generation.
const EventGenerated = "cv.generated"

// GenerationEvent is the payload published on the events backend.
type GenerationEvent struct {
	Event     string    `json:"event"`
	ID        uuid.UUID `json:"id"`
	FileName  string    `json:"file_name"`
	SizeBytes int64     `json:"size_bytes"`
	Pages     int       `json:"pages"`
	CreatedAt time.Time `json:"created_at"`
}

// Event builds the cv.generated payload for g.
func (g *Generation) Event() GenerationEvent {
	return GenerationEvent{
		Event:     EventGenerated,
		ID:        g.ID,
		FileName:  g.FileName,
		SizeBytes: g.SizeBytes,
		Pages:     g.Pages,
		CreatedAt: g.CreatedAt,
	}
}
