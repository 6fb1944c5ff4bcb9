package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/lysyi3m/impacto-diario/app/banner"
)

var bannerColumns = []string{
	"id", "title", "description", "image_url", "link_url", "position", "priority",
	"is_active", "expires_at", "clicks", "impressions", "created_at", "updated_at",
}

type BannerStore struct {
	db  *DB
	now func() time.Time
}

var _ BannerRepository = (*BannerStore)(nil)

func NewBannerStore(db *DB) *BannerStore {
	return &BannerStore{db: db, now: time.Now}
}

func scanBanner(row rowScanner) (*banner.Banner, error) {
	var b banner.Banner
	var position string
	var expiresAt sql.NullInt64
	var createdAt, updatedAt int64

	err := row.Scan(
		&b.ID, &b.Title, &b.Description, &b.ImageURL, &b.LinkURL, &position, &b.Priority,
		&b.IsActive, &expiresAt, &b.Clicks, &b.Impressions, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Position = banner.Position(position)
	b.ExpiresAt = fromNullMillis(expiresAt)
	b.CreatedAt = fromMillis(createdAt)
	b.UpdatedAt = fromMillis(updatedAt)

	return &b, nil
}

// ListBanners returns every banner in insertion order, so the resolver's
// tie-break picks the oldest record.
func (r *BannerStore) ListBanners(ctx context.Context) ([]banner.Banner, error) {
	query, args, err := qb.Select(bannerColumns...).From("banners").
		OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build banner query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	defer rows.Close()

	var banners []banner.Banner
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan banner row: %w", err)
		}
		banners = append(banners, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating banner rows: %w", err)
	}

	return banners, nil
}

func (r *BannerStore) GetBanner(ctx context.Context, id string) (*banner.Banner, error) {
	query, args, err := qb.Select(bannerColumns...).From("banners").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build banner query: %w", err)
	}

	b, err := scanBanner(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get banner: %w", err)
	}

	return b, nil
}

func (r *BannerStore) CreateBanner(ctx context.Context, b *banner.Banner) error {
	now := r.now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now

	query, args, err := qb.Insert("banners").Columns(bannerColumns...).Values(
		b.ID, b.Title, b.Description, b.ImageURL, b.LinkURL, string(b.Position), b.Priority,
		b.IsActive, toNullMillis(b.ExpiresAt), b.Clicks, b.Impressions,
		toMillis(b.CreatedAt), toMillis(b.UpdatedAt),
	).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create banner: %w", err)
	}

	return nil
}

func (r *BannerStore) UpdateBanner(ctx context.Context, b *banner.Banner) error {
	b.UpdatedAt = r.now().UTC()

	query, args, err := qb.Update("banners").SetMap(map[string]any{
		"title":       b.Title,
		"description": b.Description,
		"image_url":   b.ImageURL,
		"link_url":    b.LinkURL,
		"position":    string(b.Position),
		"priority":    b.Priority,
		"is_active":   b.IsActive,
		"expires_at":  toNullMillis(b.ExpiresAt),
		"updated_at":  toMillis(b.UpdatedAt),
	}).Where(sq.Eq{"id": b.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update banner: %w", err)
	}

	return requireAffected(res)
}

func (r *BannerStore) DeleteBanner(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM banners WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete banner: %w", err)
	}
	return requireAffected(res)
}
