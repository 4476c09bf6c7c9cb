package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/leomatch/leomatch-backend/internal/domain"
)

type mediaRepository struct {
	ext sqlx.ExtContext
}

func (r *mediaRepository) Add(ctx context.Context, asset *domain.MediaAsset) error {
	query := `
		INSERT INTO media_assets (user_id, kind, file_id, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.ext.QueryRowxContext(ctx, query,
		asset.UserID, asset.Kind, asset.FileID, asset.Position,
	).Scan(&asset.ID, &asset.CreatedAt)
}

func (r *mediaRepository) CountByKind(ctx context.Context, userID int, kind domain.MediaKind) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM media_assets WHERE user_id = $1 AND kind = $2`
	err := sqlx.GetContext(ctx, r.ext, &count, query, userID, kind)
	return count, err
}

func (r *mediaRepository) ListByUser(ctx context.Context, userID int) ([]*domain.MediaAsset, error) {
	var assets []*domain.MediaAsset
	query := `
		SELECT * FROM media_assets
		WHERE user_id = $1
		ORDER BY kind, position
	`
	err := sqlx.SelectContext(ctx, r.ext, &assets, query, userID)
	return assets, err
}
