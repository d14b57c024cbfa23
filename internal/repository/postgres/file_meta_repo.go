package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"billmunshi/internal/domain"
	"billmunshi/internal/port"
)

type fileMetaRepo struct {
	db *sqlx.DB
}

// NewFileMetaRepo creates a new PostgreSQL-backed FileMetaRepository.
func NewFileMetaRepo(db *sqlx.DB) port.FileMetaRepository {
	return &fileMetaRepo{db: db}
}

func (r *fileMetaRepo) Create(ctx context.Context, meta *domain.FileMeta) error {
	if meta.ID == uuid.Nil {
		meta.ID = uuid.New()
	}
	meta.CreatedAt = time.Now().UTC()

	query := `INSERT INTO file_meta (id, org_id, uploaded_by, file_name, original_name, file_type,
			file_size, s3_bucket, s3_key, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		meta.ID, meta.OrgID, meta.UploadedBy, meta.FileName, meta.OriginalName, meta.FileType,
		meta.FileSize, meta.S3Bucket, meta.S3Key, meta.ContentType, meta.CreatedAt)
	if err != nil {
		return fmt.Errorf("fileMetaRepo.Create: %w", err)
	}
	return nil
}

func (r *fileMetaRepo) GetByID(ctx context.Context, orgID, fileID uuid.UUID) (*domain.FileMeta, error) {
	var meta domain.FileMeta
	err := r.db.GetContext(ctx, &meta,
		"SELECT * FROM file_meta WHERE id = $1 AND org_id = $2", fileID, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fileMetaRepo.GetByID: %w", err)
	}
	return &meta, nil
}

func (r *fileMetaRepo) ListByOrg(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM file_meta WHERE org_id = $1", orgID)
	if err != nil {
		return nil, 0, fmt.Errorf("fileMetaRepo.ListByOrg count: %w", err)
	}

	var metas []domain.FileMeta
	err = r.db.SelectContext(ctx, &metas,
		"SELECT * FROM file_meta WHERE org_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		orgID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("fileMetaRepo.ListByOrg: %w", err)
	}
	return metas, total, nil
}
