package repository

import (
	"context"

	"smart-cv-generator/internal/domain"

	"github.com/jackc/pgconn"
)

// execer is the subset of *pgxpool.Pool the repo needs.
type execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type GenerationsRepo struct {
	db execer
}

// NewGenerationsRepo wraps db. A nil db (no DATABASE_URL) makes Save a no-op.
func NewGenerationsRepo(db execer) *GenerationsRepo {
	return &GenerationsRepo{db: db}
}

const upsertGeneration = `INSERT INTO cv_generations (id, name, email, file_name, size_bytes, pages, status, archive_key, error, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, size_bytes = EXCLUDED.size_bytes, pages = EXCLUDED.pages, archive_key = EXCLUDED.archive_key, error = EXCLUDED.error`

func (r *GenerationsRepo) Save(ctx context.Context, g *domain.Generation) error {
	if r == nil || r.db == nil {
		return nil
	}
	_, err := r.db.Exec(ctx, upsertGeneration,
		g.ID, g.Name, g.Email, g.FileName, g.SizeBytes, g.Pages, g.Status, g.ArchiveKey, g.Error, g.CreatedAt)
	return err
}
